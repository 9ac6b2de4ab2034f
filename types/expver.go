package types

import (
	"fmt"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Expver zero-pads an experiment version id to width 4.
type Expver struct {
	Base
}

const expverWidth = 4

// NewExpver builds an Expver type for the given keyword.
func NewExpver(name string, cfg grammar.KeywordConfig) *Expver {
	t := &Expver{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *Expver) ExpandValue(_ Context, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("expver: empty value")
	}
	if len(v) > expverWidth {
		return "", fmt.Errorf("expver: %q is longer than %d characters", v, expverWidth)
	}
	return strings.Repeat("0", expverWidth-len(v)) + v, nil
}

func (t *Expver) Tidy(value string) string {
	v, err := t.ExpandValue(nil, value)
	if err != nil {
		return value
	}
	return v
}
