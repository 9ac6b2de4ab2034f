package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Float parses a signed decimal and strips superfluous zeros: no
// trailing zeros, no trailing '.'; an empty string canonicalises to "0".
type Float struct {
	Base
}

// NewFloat builds a Float type for the given keyword.
func NewFloat(name string, cfg grammar.KeywordConfig) *Float {
	t := &Float{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Float) ExpandValue(_ Context, value string) (string, error) {
	return canonicalFloat(value, t.Name())
}

func canonicalFloat(value, keyword string) (string, error) {
	if value == "" {
		return "0", nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", fmt.Errorf("%s: %q is not a number", keyword, value)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" {
		s = "0"
	}
	return s, nil
}

func (t *Float) Tidy(value string) string {
	v, err := canonicalFloat(value, t.Name())
	if err != nil {
		return value
	}
	return v
}

// AsFloat parses value, used by to-by-list range generation.
func (t *Float) AsFloat(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

// FormatFloat renders f back into this type's canonical form.
func (t *Float) FormatFloat(f float64) string {
	s, _ := canonicalFloat(strconv.FormatFloat(f, 'f', -1, 64), t.Name())
	return s
}
