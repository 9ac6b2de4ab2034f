// Package matcher evaluates a request against a set of key=regex
// conditions, used to build select/exclude filters over expanded
// requests.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metquery/marslang/request"
)

// Policy governs how a multi-valued keyword is matched against its
// regex.
type Policy int

const (
	// All requires every value of a keyword to match its regex.
	All Policy = iota
	// Any requires at least one value of a keyword to match.
	Any
)

// MissingPolicy governs how a keyword the matcher names but the
// request doesn't have is treated.
type MissingPolicy int

const (
	// MatchOnMissing treats an absent keyword as satisfying its condition.
	MatchOnMissing MissingPolicy = iota
	// DontMatchOnMissing treats an absent keyword as failing its condition.
	DontMatchOnMissing
)

// Matcher holds a parsed set of key -> compiled-regex conditions, all
// of which must hold (per Policy and MissingPolicy) for Match to
// return true.
type Matcher struct {
	conditions map[string]*regexp.Regexp
	policy     Policy
}

// Parse builds a Matcher from a comma-separated "key=regex,..."
// expression. Each key may appear at most once; "=" splits each pair
// at its first occurrence, so a regex itself may contain "=".
func Parse(expr string, policy Policy) (*Matcher, error) {
	conditions, err := parseKeyRegexList(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{conditions: conditions, policy: policy}, nil
}

func parseKeyRegexList(expr string) (map[string]*regexp.Regexp, error) {
	out := map[string]*regexp.Regexp{}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return out, nil
	}

	for _, item := range strings.Split(expr, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		eq := strings.IndexByte(item, '=')
		if eq <= 0 || eq == len(item)-1 {
			return nil, fmt.Errorf("matcher: invalid condition %q in expression %q", item, expr)
		}
		key := item[:eq]
		pattern := item[eq+1:]

		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("matcher: duplicate key %q in expression %q", key, expr)
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("matcher: key %q: %w", key, err)
		}
		out[key] = re
	}
	return out, nil
}

// Match reports whether req satisfies every condition in the matcher.
func (m *Matcher) Match(req *request.Request, missing MissingPolicy) bool {
	for keyword, re := range m.conditions {
		if !req.Has(keyword) {
			if missing != MatchOnMissing {
				return false
			}
			continue
		}
		values := req.ValuesOrEmpty(keyword)
		if !m.valuesMatch(re, values) {
			return false
		}
	}
	return true
}

func (m *Matcher) valuesMatch(re *regexp.Regexp, values []string) bool {
	if m.policy == Any {
		for _, v := range values {
			if re.MatchString(v) {
				return true
			}
		}
		return false
	}
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}
