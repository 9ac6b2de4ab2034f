package types

import (
	"fmt"
	"strings"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
)

// ExpandValueFunc is the bound-method hook a concrete Type constructor
// installs on its embedded Base so that Base's generic ExpandRange can
// reach the concrete type's ExpandValue override. Go's embedding gives
// no virtual dispatch from a base method back into a derived one (a
// call to b.ExpandValue from inside Base.ExpandRange would always
// resolve to Base.ExpandValue); storing the bound method here is the
// idiomatic substitute.
type ExpandValueFunc func(ctx Context, value string) (string, error)

// Base carries the configuration and behaviour shared by every Type
// variant: name, arity flags, configured defaults, and the only/never/
// unset finalisation conditions.
type Base struct {
	name string

	origDefaults []string
	defaults     []string

	multiple   bool
	flatten    bool
	duplicates bool

	only  []grammar.Condition
	never []grammar.Condition
	unset []grammar.Condition

	expandValue ExpandValueFunc
}

// NewBase builds a Base from a keyword's grammar configuration. def*
// booleans are the variant's own defaults for multiple/flatten/
// duplicates, used when the document is silent.
func NewBase(name string, cfg grammar.KeywordConfig, defMultiple, defFlatten, defDuplicates bool) Base {
	return Base{
		name:         name,
		origDefaults: append([]string(nil), []string(cfg.Default)...),
		defaults:     append([]string(nil), []string(cfg.Default)...),
		multiple:     cfg.MultipleOr(defMultiple),
		flatten:      cfg.FlattenOr(defFlatten),
		duplicates:   cfg.DuplicatesOr(defDuplicates),
		only:         cfg.Only,
		never:        cfg.Never,
		unset:        cfg.Unset,
	}
}

// BindExpandValue installs the bound-method hook; every constructor
// must call this with its own ExpandValue method value.
func (b *Base) BindExpandValue(f ExpandValueFunc) { b.expandValue = f }

func (b *Base) Name() string   { return b.name }
func (b *Base) Multiple() bool { return b.multiple }
func (b *Base) Flatten() bool  { return b.flatten }

// ExpandValue is the fallback used only if a constructor forgot to
// bind one; it returns the value unchanged.
func (b *Base) ExpandValue(_ Context, value string) (string, error) {
	return value, nil
}

// ExpandRange is the default range expansion: canonicalise every value
// independently through the bound ExpandValue hook.
func (b *Base) ExpandRange(ctx Context, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	fn := b.expandValue
	if fn == nil {
		fn = b.ExpandValue
	}
	for _, v := range values {
		cv, err := fn(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		out = append(out, cv)
	}
	return out, nil
}

// SetDefaults installs the keyword's configured default values.
func (b *Base) SetDefaults(req *request.Request) {
	if len(b.defaults) == 0 {
		return
	}
	req.SetValues(b.name, append([]string(nil), b.defaults...))
}

// SetInheritance is a no-op hook by default.
func (b *Base) SetInheritance(values []string) []string { return values }

// Pass2 is a no-op for every type except param.
func (b *Base) Pass2(Context, *request.Request) error { return nil }

// Check enforces the multiple and duplicates arity rules shared by
// every variant.
func (b *Base) Check(_ Context, values []string) error {
	if !b.multiple && len(values) > 1 {
		return fmt.Errorf("%s: keyword does not accept multiple values, got %v", b.name, values)
	}
	if !b.duplicates {
		seen := make(map[string]bool, len(values))
		for _, v := range values {
			if seen[v] {
				return fmt.Errorf("%s: duplicate value %q not allowed", b.name, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// FlattenValues returns the keyword's values when eligible for
// hypercube axis construction.
func (b *Base) FlattenValues(req *request.Request) []string {
	if !b.flatten {
		return nil
	}
	return req.ValuesOrEmpty(b.name)
}

// Tidy is the identity transform by default.
func (b *Base) Tidy(value string) string { return value }

// Reset restores the configured defaults, undoing any ClearDefaults.
func (b *Base) Reset() {
	b.defaults = append([]string(nil), b.origDefaults...)
}

// ClearDefaults empties the instance's active defaults, used by a
// verb's `_clear_defaults` list.
func (b *Base) ClearDefaults() {
	b.defaults = nil
}

// Finalise applies the shared only/never/unset semantics. Concrete
// types needing extra checks call this first and add their own.
func (b *Base) Finalise(ctx Context, req *request.Request, strict bool) error {
	if !req.Has(b.name) {
		return nil
	}

	for _, cond := range b.unset {
		if conditionHolds(req, cond) {
			req.UnsetValues(b.name)
			return nil
		}
	}

	for _, cond := range b.only {
		if !onlyConditionSatisfied(req, cond) {
			return finaliseViolation(req, b.name, "only", cond, strict)
		}
	}

	for _, cond := range b.never {
		if conditionHolds(req, cond) {
			return finaliseViolation(req, b.name, "never", cond, strict)
		}
	}

	return nil
}

func finaliseViolation(req *request.Request, keyword, kind string, cond grammar.Condition, strict bool) error {
	if strict {
		return fmt.Errorf("%s: violates %s constraint %v for verb %s", keyword, kind, cond, req.Verb())
	}
	req.UnsetValues(keyword)
	return nil
}

// conditionHolds reports whether every other-key named in cond has at
// least one of its listed values present in req (an "any" match per
// key, "all" across keys) — the shape used by unset and never.
func conditionHolds(req *request.Request, cond grammar.Condition) bool {
	if len(cond) == 0 {
		return false
	}
	for key, allowed := range cond {
		if !anyValueIn(req.ValuesOrEmpty(key), allowed) {
			return false
		}
	}
	return true
}

// onlyConditionSatisfied reports whether, for every other-key named in
// cond, every value req currently holds for that key is within the
// allowed set (an absent key trivially satisfies its own constraint).
func onlyConditionSatisfied(req *request.Request, cond grammar.Condition) bool {
	for key, allowed := range cond {
		values := req.ValuesOrEmpty(key)
		if len(values) == 0 {
			continue
		}
		for _, v := range values {
			if !containsFold(allowed, v) {
				return false
			}
		}
	}
	return true
}

func anyValueIn(values []string, allowed grammar.StringList) bool {
	for _, v := range values {
		if containsFold(allowed, v) {
			return true
		}
	}
	return false
}

func containsFold(list grammar.StringList, v string) bool {
	for _, a := range list {
		if strings.EqualFold(a, v) {
			return true
		}
	}
	return false
}
