package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Quantile accepts a "num:den" pair with 0 <= num <= den, den drawn
// from a configured allowed-denominator list. Multi-value expansion
// requires every value to share the same denominator, since a
// quantile list only makes sense divided the same way.
type Quantile struct {
	Base

	denominators map[int]bool
}

// NewQuantile builds a Quantile type for the given keyword.
func NewQuantile(name string, cfg grammar.KeywordConfig) (*Quantile, error) {
	if len(cfg.Denominators) == 0 {
		return nil, fmt.Errorf("%s: a quantile keyword needs a denominators list", name)
	}
	denominators := make(map[int]bool, len(cfg.Denominators))
	for _, d := range cfg.Denominators {
		denominators[d] = true
	}
	t := &Quantile{
		Base:         NewBase(name, cfg, true, true, true),
		denominators: denominators,
	}
	t.BindExpandValue(t.ExpandValue)
	return t, nil
}

func (t *Quantile) ExpandValue(_ Context, value string) (string, error) {
	num, den, err := t.parse(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d", num, den), nil
}

func (t *Quantile) parse(value string) (num, den int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%s: %q is not a num:den quantile", t.Name(), value)
	}
	num, err1 := strconv.Atoi(parts[0])
	den, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%s: %q is not a num:den quantile", t.Name(), value)
	}
	if !t.denominators[den] {
		return 0, 0, fmt.Errorf("%s: denominator %d is not one of the allowed denominators", t.Name(), den)
	}
	if num < 0 || num > den {
		return 0, 0, fmt.Errorf("%s: numerator %d is out of range for denominator %d", t.Name(), num, den)
	}
	return num, den, nil
}

// ExpandRange overrides the Base default to additionally enforce that
// every quantile in the list shares the same denominator.
func (t *Quantile) ExpandRange(ctx Context, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	commonDen := -1
	for _, v := range values {
		num, den, err := t.parse(v)
		if err != nil {
			return nil, err
		}
		if commonDen == -1 {
			commonDen = den
		} else if den != commonDen {
			return nil, fmt.Errorf("%s: all quantiles in a list must share the same denominator, got %d and %d", t.Name(), commonDen, den)
		}
		out = append(out, fmt.Sprintf("%d:%d", num, den))
	}
	return out, nil
}

func (t *Quantile) Tidy(value string) string {
	v, err := t.ExpandValue(nil, value)
	if err != nil {
		return value
	}
	return v
}
