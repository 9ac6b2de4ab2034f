package types

import (
	"strings"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/paramresolver"
	"github.com/metquery/marslang/request"
)

// Param accepts a param token unchanged during ExpandValue/ExpandRange
// - table.param, a bare numeric id, or a short name - deferring actual
// resolution to Pass2, which runs once every other keyword (stream,
// type, ...) is already set so the resolver can pick the right
// dynamic rule's candidate id list.
type Param struct {
	Base

	resolver   *paramresolver.Resolver
	firstRule  bool
	expandWith map[string]string
}

// NewParam builds a Param type for the given keyword, using the
// default embedded paramresolver.Resolver. cfg's FirstRule/ExpandWith
// settings are carried through to Pass2's resolver.Resolve call, where
// they drive the fallback chain a token falls into once it fails to
// resolve against the rules that strictly match the request.
func NewParam(name string, cfg grammar.KeywordConfig) *Param {
	t := &Param{
		Base:       NewBase(name, cfg, true, true, true),
		firstRule:  cfg.FirstRule,
		expandWith: cfg.ExpandWith,
	}
	t.BindExpandValue(t.ExpandValue)
	t.resolver, _ = paramresolver.Default()
	return t
}

func (t *Param) ExpandValue(_ Context, value string) (string, error) {
	return value, nil
}

// Pass2 resolves every value currently set for this keyword to its
// canonical parameter id. A sole "all" value is kept verbatim.
func (t *Param) Pass2(ctx Context, req *request.Request) error {
	values := req.ValuesOrEmpty(t.Name())
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 && strings.EqualFold(values[0], "all") {
		return nil
	}
	if t.resolver == nil {
		var err error
		t.resolver, err = paramresolver.Default()
		if err != nil {
			return err
		}
	}

	resolved := make([]string, 0, len(values))
	for _, v := range values {
		id, err := t.resolver.Resolve(req, v, t.firstRule, t.expandWith)
		if err != nil {
			return err
		}
		resolved = append(resolved, id)
	}
	req.SetValues(t.Name(), resolved)
	return nil
}

func (t *Param) Tidy(value string) string {
	return value
}
