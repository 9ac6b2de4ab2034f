package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
)

func TestBaseCheckRejectsMultipleWhenNotAllowed(t *testing.T) {
	b := NewBase("class", grammar.KeywordConfig{}, false, true, true)
	assert.Error(t, b.Check(nil, []string{"od", "rd"}))
	assert.NoError(t, b.Check(nil, []string{"od"}))
}

func TestBaseCheckRejectsDuplicates(t *testing.T) {
	b := NewBase("param", grammar.KeywordConfig{Duplicates: boolPtr(false)}, true, true, false)
	assert.Error(t, b.Check(nil, []string{"130", "130"}))
}

func TestBaseFinaliseUnsetsOnUnsetCondition(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Unset: []grammar.Condition{{"levtype": {"sfc"}}},
	}
	b := NewBase("levelist", cfg, true, true, true)
	req := request.New("retrieve")
	req.SetValues("levtype", []string{"sfc"})
	req.SetValues("levelist", []string{"1000"})

	err := b.Finalise(nil, req, false)
	assert.NoError(t, err)
	assert.False(t, req.Has("levelist"))
}

func TestBaseFinaliseOnlyConstraintStrictErrors(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Only: []grammar.Condition{{"levtype": {"pl"}}},
	}
	b := NewBase("levelist", cfg, true, true, true)
	req := request.New("retrieve")
	req.SetValues("levtype", []string{"sfc"})
	req.SetValues("levelist", []string{"1000"})

	err := b.Finalise(nil, req, true)
	assert.Error(t, err)
}

func TestBaseFinaliseOnlyConstraintNonStrictUnsets(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Only: []grammar.Condition{{"levtype": {"pl"}}},
	}
	b := NewBase("levelist", cfg, true, true, true)
	req := request.New("retrieve")
	req.SetValues("levtype", []string{"sfc"})
	req.SetValues("levelist", []string{"1000"})

	err := b.Finalise(nil, req, false)
	assert.NoError(t, err)
	assert.False(t, req.Has("levelist"))
}

func TestBaseFinaliseNeverConstraint(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Never: []grammar.Condition{{"levtype": {"sfc"}}},
	}
	b := NewBase("levelist", cfg, true, true, true)
	req := request.New("retrieve")
	req.SetValues("levtype", []string{"sfc"})
	req.SetValues("levelist", []string{"1000"})

	assert.Error(t, b.Finalise(nil, req, true))
}
