package paramresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := Default()
	require.NoError(t, err)
	return r
}

func TestResolveStaticShortNameWithoutFallback(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")

	id, err := r.Resolve(req, "t", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "130", id)
}

func TestResolveDynamicRuleRequiresStrictMatch(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")

	_, err := r.Resolve(req, "mucape", false, nil)
	assert.Error(t, err, "mucape only lives in the enfo-stream rule and stream is unset")
}

func TestResolveFirstRuleFallbackAcceptsPartialMatch(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")

	id, err := r.Resolve(req, "mucape", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "228235", id)
}

func TestResolveFirstRuleFallbackStillRejectsWrongStream(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")
	req.SetValues("stream", []string{"oper"})

	_, err := r.Resolve(req, "mucape", true, nil)
	assert.Error(t, err, "stream is set to a value the enfo rule rejects, so partial matching must not help")
}

func TestResolveExpandWithFallbackFillsUnsetDefaults(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")

	id, err := r.Resolve(req, "mucape", false, map[string]string{"stream": "enfo"})
	require.NoError(t, err)
	assert.Equal(t, "228235", id)
	assert.False(t, req.Has("stream"), "expand_with must only affect the trial clone, not the caller's request")
}

func TestResolveExpandWithFallbackNeverOverridesAnExplicitValue(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")
	req.SetValues("stream", []string{"oper"})

	_, err := r.Resolve(req, "mucape", false, map[string]string{"stream": "enfo"})
	assert.Error(t, err, "expand_with fills in unset keys only - it must not paper over an explicit, conflicting stream")
}

func TestResolveUnknownTokenErrorsWithNoFallbackConfigured(t *testing.T) {
	r := testResolver(t)
	req := request.New("retrieve")

	_, err := r.Resolve(req, "not-a-real-param", false, nil)
	assert.Error(t, err)
	var resolveErr *ResolveError
	assert.ErrorAs(t, err, &resolveErr)
}

func TestRuleMatchesPartialTreatsUnsetKeyAsPass(t *testing.T) {
	req := request.New("retrieve")
	matchers := map[string]grammar.StringList{"stream": {"enfo"}}

	assert.True(t, ruleMatchesPartial(req, matchers))

	req.SetValues("stream", []string{"oper"})
	assert.False(t, ruleMatchesPartial(req, matchers))

	req.SetValues("stream", []string{"enfo"})
	assert.True(t, ruleMatchesPartial(req, matchers))
}
