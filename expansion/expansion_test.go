package expansion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metquery/marslang/request"
)

func TestExpandResolvesVerbAliasAndCachesLanguage(t *testing.T) {
	e, err := New(WithStrict(true))
	require.NoError(t, err)

	req := request.New("ret") // verb alias for retrieve
	req.SetValues("class", []string{"od"})
	req.SetValues("param", []string{"z"})

	result, err := e.Expand(req)
	require.NoError(t, err)
	assert.Equal(t, "retrieve", result.Verb())
	assert.Equal(t, []string{"129"}, result.ValuesOrEmpty("param"))

	l1, err := e.languageFor("retrieve")
	require.NoError(t, err)
	l2, err := e.languageFor("ret")
	require.NoError(t, err)
	assert.Same(t, l1, l2)
}

func TestExpandUnknownVerbErrors(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	req := request.New("bogus")
	_, err = e.Expand(req)
	assert.Error(t, err)
}

func TestExpandAllStopsOnFirstError(t *testing.T) {
	e, err := New(WithStrict(true))
	require.NoError(t, err)

	good := request.New("retrieve")
	good.SetValues("class", []string{"od"})
	bad := request.New("retrieve")
	bad.SetValues("zzzzz", []string{"1"})

	_, err = e.ExpandAll([]*request.ParsedRequest{
		request.NewParsed(good, 1),
		request.NewParsed(bad, 2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
