package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
)

func TestRegexExpandValue(t *testing.T) {
	cfg := grammar.KeywordConfig{
		Uppercase: true,
		Regex:     grammar.StringList{"^[OoFfNn][0-9]{1,4}$", "^[0-9.]+/[0-9.]+$"},
	}
	r, err := NewRegex("grid", cfg)
	assert.NoError(t, err)

	got, err := r.ExpandValue(nil, "o640")
	assert.NoError(t, err)
	assert.Equal(t, "O640", got)

	_, err = r.ExpandValue(nil, "not-a-grid")
	assert.Error(t, err)
}

func TestRegexInvalidPattern(t *testing.T) {
	_, err := NewRegex("grid", grammar.KeywordConfig{Regex: grammar.StringList{"("}})
	assert.Error(t, err)
}

func TestExpverPadding(t *testing.T) {
	e := NewExpver("expver", grammar.KeywordConfig{})

	got, err := e.ExpandValue(nil, "1")
	assert.NoError(t, err)
	assert.Equal(t, "0001", got)

	_, err = e.ExpandValue(nil, "12345")
	assert.Error(t, err)
}

func TestIntegerRangeCheck(t *testing.T) {
	i := NewInteger("step", grammar.KeywordConfig{Range: []float64{0, 240}})

	got, err := i.ExpandValue(nil, "24")
	assert.NoError(t, err)
	assert.Equal(t, "24", got)

	_, err = i.ExpandValue(nil, "9999")
	assert.Error(t, err)
}

func TestFloatCanonicalisation(t *testing.T) {
	f := NewFloat("level", grammar.KeywordConfig{})

	testCases := []struct{ in, want string }{
		{"1.50", "1.5"},
		{"2.0", "2"},
		{"", "0"},
		{"-0.10", "-0.1"},
	}
	for _, tc := range testCases {
		got, err := f.ExpandValue(nil, tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
