package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// StepRange accepts a single forecast step or a `from-to` step range,
// each endpoint an eckit-style time literal (bare digits default to
// hours; an 'h'/'m'/'s' suffix selects the unit explicitly). The
// canonical form uses the finest unit common to both endpoints: hours
// when both are whole hours, minutes when both are whole minutes,
// seconds otherwise; a range whose endpoints are equal collapses to
// the single-value form.
type StepRange struct {
	Base
}

// NewStepRange builds a StepRange type for the given keyword.
func NewStepRange(name string, cfg grammar.KeywordConfig) *StepRange {
	t := &StepRange{Base: NewBase(name, cfg, false, true, true)}
	t.BindExpandValue(t.ExpandValue)
	return t
}

func (t *StepRange) ExpandValue(_ Context, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%s: empty step literal", t.Name())
	}

	if idx := strings.Index(v[1:], "-"); idx >= 0 {
		idx++ // compensate for the v[1:] offset; skip a leading '-' (negative step)
		fromSec, err := parseStepLiteral(t.Name(), v[:idx])
		if err != nil {
			return "", err
		}
		toSec, err := parseStepLiteral(t.Name(), v[idx+1:])
		if err != nil {
			return "", err
		}
		return canonicalStepRange(fromSec, toSec), nil
	}

	sec, err := parseStepLiteral(t.Name(), v)
	if err != nil {
		return "", err
	}
	return formatStepSeconds(sec), nil
}

func parseStepLiteral(keyword, s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s: empty step literal", keyword)
	}
	unit := s[len(s)-1]
	numPart := s
	mul := int64(3600)
	switch unit {
	case 'h', 'H':
		numPart = s[:len(s)-1]
		mul = 3600
	case 'm', 'M':
		numPart = s[:len(s)-1]
		mul = 60
	case 's', 'S':
		numPart = s[:len(s)-1]
		mul = 1
	}
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a valid step literal", keyword, s)
	}
	return n * mul, nil
}

func formatStepSeconds(sec int64) string {
	switch {
	case sec%3600 == 0:
		return strconv.FormatInt(sec/3600, 10)
	case sec%60 == 0:
		return strconv.FormatInt(sec/60, 10) + "m"
	default:
		return strconv.FormatInt(sec, 10) + "s"
	}
}

func canonicalStepRange(fromSec, toSec int64) string {
	if fromSec == toSec {
		return formatStepSeconds(fromSec)
	}
	switch {
	case fromSec%3600 == 0 && toSec%3600 == 0:
		return fmt.Sprintf("%d-%d", fromSec/3600, toSec/3600)
	case fromSec%60 == 0 && toSec%60 == 0:
		return fmt.Sprintf("%dm-%dm", fromSec/60, toSec/60)
	default:
		return fmt.Sprintf("%ds-%ds", fromSec, toSec)
	}
}

func (t *StepRange) Tidy(value string) string {
	v, err := t.ExpandValue(nil, value)
	if err != nil {
		return value
	}
	return v
}
