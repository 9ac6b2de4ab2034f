package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Regex accepts a value that matches at least one of N configured
// patterns, optionally upper-casing the canonical output (used for
// grid names like o640 -> O640).
type Regex struct {
	Base

	patterns  []*regexp.Regexp
	uppercase bool
}

// NewRegex builds a Regex type from its grammar configuration.
func NewRegex(name string, cfg grammar.KeywordConfig) (*Regex, error) {
	patterns := make([]*regexp.Regexp, 0, len(cfg.Regex))
	for _, p := range cfg.Regex {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid regex %q: %w", name, p, err)
		}
		patterns = append(patterns, re)
	}
	t := &Regex{
		Base:      NewBase(name, cfg, false, true, true),
		patterns:  patterns,
		uppercase: cfg.Uppercase,
	}
	t.BindExpandValue(t.ExpandValue)
	return t, nil
}

func (t *Regex) ExpandValue(_ Context, value string) (string, error) {
	matched := len(t.patterns) == 0
	for _, re := range t.patterns {
		if re.MatchString(value) {
			matched = true
			break
		}
	}
	if !matched {
		return "", fmt.Errorf("%s: value %q matches none of the configured patterns", t.Name(), value)
	}
	if t.uppercase {
		return strings.ToUpper(value), nil
	}
	return value, nil
}

func (t *Regex) Tidy(value string) string {
	if t.uppercase {
		return strings.ToUpper(value)
	}
	return value
}
