package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metquery/marslang/grammar"
)

func TestStepRangeSingleValue(t *testing.T) {
	s := NewStepRange("step", grammar.KeywordConfig{})

	testCases := []struct{ in, want string }{
		{"24", "24"},
		{"1h", "1"},
		{"90m", "90m"},
		{"30m", "30m"},
		{"3600s", "1"},
		{"90s", "90s"},
	}
	for _, tc := range testCases {
		got, err := s.ExpandValue(nil, tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestStepRangeFromTo(t *testing.T) {
	s := NewStepRange("step", grammar.KeywordConfig{})

	got, err := s.ExpandValue(nil, "0-12")
	assert.NoError(t, err)
	assert.Equal(t, "0-12", got)

	got, err = s.ExpandValue(nil, "90m-120m")
	assert.NoError(t, err)
	assert.Equal(t, "90m-120m", got)

	got, err = s.ExpandValue(nil, "6-6")
	assert.NoError(t, err)
	assert.Equal(t, "6", got)
}

func TestStepRangeInvalidLiteral(t *testing.T) {
	s := NewStepRange("step", grammar.KeywordConfig{})
	_, err := s.ExpandValue(nil, "abc")
	assert.Error(t, err)
}
