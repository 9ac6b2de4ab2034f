package types

import "github.com/metquery/marslang/grammar"

// Any accepts any string unchanged; used for file paths (target,
// source) where case and exact spelling matter.
type Any struct {
	Base
}

// NewAny builds an Any type for the given keyword.
func NewAny(name string, cfg grammar.KeywordConfig) *Any {
	t := &Any{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Any) ExpandValue(_ Context, value string) (string, error) {
	return value, nil
}
