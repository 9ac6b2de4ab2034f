package types

import (
	"fmt"
	"strconv"

	"github.com/metquery/marslang/grammar"
)

// Integer parses a signed decimal integer, optionally range-checked.
type Integer struct {
	Base

	hasRange bool
	lo, hi   float64
}

// NewInteger builds an Integer type for the given keyword.
func NewInteger(name string, cfg grammar.KeywordConfig) *Integer {
	t := &Integer{Base: NewBase(name, cfg, false, true, true)}
	if len(cfg.Range) == 2 {
		t.hasRange = true
		t.lo, t.hi = cfg.Range[0], cfg.Range[1]
	}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Integer) ExpandValue(_ Context, value string) (string, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%s: %q is not an integer", t.Name(), value)
	}
	if t.hasRange && (float64(n) < t.lo || float64(n) > t.hi) {
		return "", fmt.Errorf("%s: %d is outside the allowed range [%v, %v]", t.Name(), n, t.lo, t.hi)
	}
	return strconv.FormatInt(n, 10), nil
}

func (t *Integer) Tidy(value string) string {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}
	return strconv.FormatInt(n, 10)
}

// AsInt parses value as a plain integer, used by to-by-list range
// generation over this type.
func (t *Integer) AsInt(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}

// FormatInt renders n back into this type's canonical form.
func (t *Integer) FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
