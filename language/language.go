// Package language implements the verb driver: one Language instance
// owns a verb's keyword type table (built once from the grammar
// document) and runs the two-pass expansion pipeline against a raw
// Request - keyword resolution, per-keyword range expansion,
// defaulting and inheritance, the param pass2 rewrite, and only/never/
// unset finalisation.
package language

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
	"github.com/metquery/marslang/types"
)

// Language owns one verb's keyword type table. Building one walks the
// verb's keyword configuration and instantiates a concrete types.Type
// per keyword, so construction cost is material; callers (see the
// expansion package) cache instances per verb rather than rebuilding
// on every request.
//
// Expand is read-mostly against the grammar but mutates the owned
// Type instances via the Reset triggered by the "off" sentinel -
// callers must serialise concurrent Expand calls against
// the same Language; mu provides that.
type Language struct {
	verb string

	// order is the axis order restricted to this verb's keywords, with
	// any keyword the axis document doesn't mention appended in
	// declaration order. It governs default/finalise walks and the
	// sort applied to a request's resolved slots.
	order []string

	keywordNames   []string
	keywordAliases map[string]string // alias (lowercase) -> canonical keyword

	types map[string]types.Type

	clock types.Clock

	mu sync.Mutex
}

type clearDefaulter interface{ ClearDefaults() }

// New builds a Language for one verb from its grammar configuration
// and the shared axis order document.
func New(verb string, vc grammar.VerbConfig, axisOrder []string) (*Language, error) {
	l := &Language{
		verb:           verb,
		keywordAliases: map[string]string{},
		types:          map[string]types.Type{},
	}

	declOrder := vc.Order()
	for _, name := range declOrder {
		cfg := vc.Keywords[name]
		t, err := types.New(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("language %s: keyword %s: %w", verb, name, err)
		}
		l.types[name] = t
		l.keywordNames = append(l.keywordNames, name)
		for _, alias := range cfg.Aliases {
			l.keywordAliases[strings.ToLower(alias)] = name
		}
	}

	l.order = buildOrder(axisOrder, declOrder)

	for _, name := range vc.ClearDefaults {
		key := strings.ToLower(name)
		t, ok := l.types[key]
		if !ok {
			continue
		}
		if cd, ok := t.(clearDefaulter); ok {
			cd.ClearDefaults()
		}
	}

	return l, nil
}

// buildOrder restricts axisOrder to the keywords declOrder actually
// names, then appends any remaining declOrder keyword the axis
// document is silent about, in declaration order.
func buildOrder(axisOrder, declOrder []string) []string {
	inDecl := make(map[string]bool, len(declOrder))
	for _, k := range declOrder {
		inDecl[k] = true
	}

	order := make([]string, 0, len(declOrder))
	seen := make(map[string]bool, len(declOrder))
	for _, k := range axisOrder {
		if inDecl[k] && !seen[k] {
			order = append(order, k)
			seen[k] = true
		}
	}
	for _, k := range declOrder {
		if !seen[k] {
			order = append(order, k)
			seen[k] = true
		}
	}
	return order
}

// Verb returns the canonical verb name this Language handles.
func (l *Language) Verb() string { return l.verb }

// SetClock overrides the clock used to build each expansion's Context;
// tests use this to pin "today" for relative date resolution.
func (l *Language) SetClock(c types.Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = c
}

// ResolveKeyword maps a user-supplied (possibly abbreviated) keyword
// name to its canonical form via best-match against the verb's
// declared keyword names and aliases.
func (l *Language) ResolveKeyword(userKey string, strict bool) (string, error) {
	got, err := types.BestMatch(userKey, l.keywordNames, l.keywordAliases, false, strict)
	if err != nil {
		return "", fmt.Errorf("language %s: keyword %q: %w", l.verb, userKey, err)
	}
	if got == "" {
		return "", fmt.Errorf("language %s: unknown keyword %q", l.verb, userKey)
	}
	return got, nil
}

type slot struct {
	key    string
	values []string
}

// Expand runs the full pipeline against req and returns a new, fully
// canonical Request. req itself is never mutated. Any error from the
// pipeline is re-raised once with the verb and the original request
// text ("request=...") attached; the partially-expanded request is not
// included.
func (l *Language) Expand(req *request.Request, inherit, strict bool) (*request.Request, error) {
	result, err := l.expand(req, inherit, strict)
	if err != nil {
		return nil, errors.Wrapf(err, "language %s: request=%s", l.verb, req.String())
	}
	return result, nil
}

func (l *Language) expand(req *request.Request, inherit, strict bool) (*request.Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := request.New(l.verb)

	slots := make([]slot, 0, len(req.Params()))
	for _, userKey := range req.Params() {
		canon, err := l.ResolveKeyword(userKey, strict)
		if err != nil {
			return nil, err
		}
		values, _ := req.Values(userKey, true)
		slots = append(slots, slot{key: canon, values: values})
	}

	rank := make(map[string]int, len(l.order))
	for i, k := range l.order {
		rank[k] = i
	}
	sort.SliceStable(slots, func(i, j int) bool {
		ri, oki := rank[slots[i].key]
		rj, okj := rank[slots[j].key]
		switch {
		case oki && okj:
			return ri < rj
		case oki && !okj:
			return true
		default:
			return false
		}
	})

	for _, s := range slots {
		t, ok := l.types[s.key]
		if !ok {
			return nil, fmt.Errorf("language %s: keyword %q has no type", l.verb, s.key)
		}

		if len(s.values) == 1 && strings.EqualFold(s.values[0], "off") {
			result.UnsetValues(s.key)
			t.Reset()
			continue
		}
		if len(s.values) == 1 && strings.EqualFold(s.values[0], "all") {
			if !t.Multiple() {
				return nil, fmt.Errorf("language %s: keyword %q: \"all\" is only permitted for multiple-valued keywords", l.verb, s.key)
			}
			result.SetValuesTyped(t, []string{"all"})
			continue
		}

		ctx := types.NewContext(result, l.clock, strict)
		expanded, err := t.ExpandRange(ctx, s.values)
		if err != nil {
			return nil, err
		}
		if err := t.Check(ctx, expanded); err != nil {
			return nil, err
		}
		result.SetValuesTyped(t, expanded)
	}

	if inherit {
		l.applyDefaults(result)
		l.applyInheritance(result)
	}

	for _, name := range result.Params() {
		t := l.types[name]
		if t == nil {
			continue
		}
		ctx := types.NewContext(result, l.clock, strict)
		if err := t.Pass2(ctx, result); err != nil {
			return nil, err
		}
	}

	for _, name := range l.order {
		t := l.types[name]
		if t == nil {
			continue
		}
		ctx := types.NewContext(result, l.clock, strict)
		if err := t.Finalise(ctx, result, strict); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// applyDefaults walks every owned type in axis order and, for any
// keyword absent from result, pushes its configured default values -
// recording the weak type back-reference, which SetDefaults itself
// cannot do since it only has a *request.Request to write into.
func (l *Language) applyDefaults(result *request.Request) {
	for _, name := range l.order {
		t := l.types[name]
		if t == nil || result.CountValues(name) != 0 {
			continue
		}
		t.SetDefaults(result)
		if result.Has(name) {
			result.SetValuesTyped(t, result.ValuesOrEmpty(name))
		}
	}
}

func (l *Language) applyInheritance(result *request.Request) {
	for _, name := range result.Params() {
		t := l.types[name]
		if t == nil {
			continue
		}
		inherited := t.SetInheritance(result.ValuesOrEmpty(name))
		result.SetValuesTyped(t, inherited)
	}
}

// Reset reverts every owned type's mutable default state back to what
// the grammar configured, undoing any ClearDefaults applied at
// construction from the verb's _clear_defaults list.
func (l *Language) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.types {
		t.Reset()
	}
}
