package types

import (
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Lowercase canonicalises a value by case-folding it.
type Lowercase struct {
	Base
}

// NewLowercase builds a Lowercase type for the given keyword.
func NewLowercase(name string, cfg grammar.KeywordConfig) *Lowercase {
	t := &Lowercase{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Lowercase) ExpandValue(_ Context, value string) (string, error) {
	return strings.ToLower(value), nil
}

func (t *Lowercase) Tidy(value string) string {
	return strings.ToLower(value)
}
