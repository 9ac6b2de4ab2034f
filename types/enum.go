package types

import (
	"fmt"
	"strings"

	"github.com/metquery/marslang/grammar"
)

// Enum is a closed, case-insensitive value domain with alias-to-
// canonical mapping and hierarchical groups: a group name is itself a
// valid value that expands, during range expansion, to its member
// values (e.g. obstype=trmm expanding to its constituent parameter ids).
type Enum struct {
	Base

	values  []string
	aliases map[string]string   // alias (lowercase) -> canonical value
	groups  map[string][]string // group name (as found in values) -> member values
}

// NewEnum builds an Enum type from its grammar configuration.
func NewEnum(name string, cfg grammar.KeywordConfig) *Enum {
	aliases := make(map[string]string, len(cfg.ValueAliases))
	for alias, canon := range cfg.ValueAliases {
		aliases[strings.ToLower(alias)] = canon
	}
	groups := make(map[string][]string, len(cfg.Groups))
	values := append([]string(nil), []string(cfg.Values)...)
	for g, members := range cfg.Groups {
		groups[g] = append([]string(nil), []string(members)...)
		found := false
		for _, v := range values {
			if strings.EqualFold(v, g) {
				found = true
				break
			}
		}
		if !found {
			values = append(values, g)
		}
	}

	t := &Enum{
		Base:    NewBase(name, cfg, false, true, true),
		values:  values,
		aliases: aliases,
		groups:  groups,
	}
	t.BindExpandValue(t.ExpandValue)
	return t
}

// ExpandValue resolves a single token to its canonical value (not
// expanding a matched group into its members — that only happens
// inside ExpandRange, which has the full value-list context).
func (t *Enum) ExpandValue(ctx Context, value string) (string, error) {
	if len(t.values) == 0 {
		return strings.ToLower(value), nil
	}
	resolved, err := BestMatch(value, t.values, t.aliases, false, ctx.Strict())
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.Name(), err)
	}
	if resolved == "" {
		return "", fmt.Errorf("%s: value %q is not a recognised value", t.Name(), value)
	}
	return resolved, nil
}

// ExpandRange resolves each value and expands any group name into its
// member values, in declaration order, without duplicating a member
// that was already present.
func (t *Enum) ExpandRange(ctx Context, values []string) ([]string, error) {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		resolved, err := t.ExpandValue(ctx, v)
		if err != nil {
			return nil, err
		}
		if members, ok := t.groups[resolved]; ok {
			for _, m := range members {
				if !seen[m] {
					out = append(out, m)
					seen[m] = true
				}
			}
			continue
		}
		if !seen[resolved] {
			out = append(out, resolved)
			seen[resolved] = true
		}
	}
	return out, nil
}

func (t *Enum) Tidy(value string) string {
	return strings.ToLower(value)
}
