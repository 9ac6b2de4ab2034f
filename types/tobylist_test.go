package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
)

func TestToByListIntegerRange(t *testing.T) {
	r, err := NewToByList("levelist", grammar.KeywordConfig{Element: "integer", Multiple: boolPtr(true)})
	assert.NoError(t, err)

	got, err := r.ExpandRange(nil, []string{"1000", "to", "850", "by", "-50"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"1000", "950", "900", "850"}, got)
}

func TestToByListDefaultStepIsOne(t *testing.T) {
	r, err := NewToByList("number", grammar.KeywordConfig{Element: "integer", Multiple: boolPtr(true)})
	assert.NoError(t, err)

	got, err := r.ExpandRange(nil, []string{"1", "to", "5"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
}

func TestToByListMixedWithLiteralValues(t *testing.T) {
	r, err := NewToByList("levelist", grammar.KeywordConfig{Element: "integer", Multiple: boolPtr(true)})
	assert.NoError(t, err)

	got, err := r.ExpandRange(nil, []string{"1000", "925", "1", "to", "3"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"1000", "925", "1", "2", "3"}, got)
}

func TestToByListZeroStepIsError(t *testing.T) {
	r, err := NewToByList("levelist", grammar.KeywordConfig{Element: "integer", Multiple: boolPtr(true)})
	assert.NoError(t, err)

	_, err = r.ExpandRange(nil, []string{"1", "to", "10", "by", "0"})
	assert.Error(t, err)
}

func TestToByListContradictorySignIsError(t *testing.T) {
	r, err := NewToByList("levelist", grammar.KeywordConfig{Element: "integer", Multiple: boolPtr(true)})
	assert.NoError(t, err)

	_, err = r.ExpandRange(nil, []string{"1", "to", "10", "by", "-1"})
	assert.Error(t, err)
}

func TestToByListUnsupportedElement(t *testing.T) {
	_, err := NewToByList("obscure", grammar.KeywordConfig{Element: "quantile"})
	assert.Error(t, err)
}
