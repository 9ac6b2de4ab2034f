// Package types implements the MARS keyword type hierarchy: per-keyword
// value semantics (parse, normalise, expand ranges, default, validate,
// finalise) shared by every Type variant through an embedded Base.
package types

import "github.com/metquery/marslang/request"

// Type is the contract every keyword type variant implements. It
// satisfies request.TypeRef structurally so a *Request can hold a Type
// as its weak back-reference without this package's request import
// becoming circular.
type Type interface {
	Name() string
	Multiple() bool
	Flatten() bool

	// ExpandValue canonicalises a single value string.
	ExpandValue(ctx Context, value string) (string, error)
	// ExpandRange rewrites a whole value list: range tokens, enum
	// groups, duplicate/multiple checks. The default (Base) iterates
	// ExpandValue; to-by-list, date and mixed override it.
	ExpandRange(ctx Context, values []string) ([]string, error)
	// SetDefaults pushes the configured default values into req, as if
	// the user had specified them.
	SetDefaults(req *request.Request)
	// SetInheritance adjusts already-set values after defaulting.
	SetInheritance(values []string) []string
	// Pass2 runs the cross-keyword rewrite pass (only `param` acts here).
	Pass2(ctx Context, req *request.Request) error
	// Finalise enforces only/never/unset, erroring in strict mode or
	// silently unsetting the keyword otherwise.
	Finalise(ctx Context, req *request.Request, strict bool) error
	// Check performs post-expansion sanity checks (duplicates, arity).
	Check(ctx Context, values []string) error
	// FlattenValues returns the values eligible for hypercube axis
	// construction, honouring Flatten().
	FlattenValues(req *request.Request) []string
	// Tidy idempotently canonicalises a single already-valid value;
	// used by tests asserting tidy(tidy(v)) == tidy(v).
	Tidy(value string) string
	// Reset reverts any mutated instance state (defaults) back to what
	// the grammar originally configured.
	Reset()
}
