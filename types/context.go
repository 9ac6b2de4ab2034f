package types

import "github.com/metquery/marslang/request"

// Clock supplies "today" for date offset resolution, kept pluggable so
// tests can pin it instead of reading the wall clock.
type Clock interface {
	Today() (year, month, day int)
}

// systemClock reads the real wall clock.
type systemClock struct{}

// FixedClock always reports the same date; used by tests and by
// callers that want deterministic relative-date resolution.
type FixedClock struct {
	Year, Month, Day int
}

func (f FixedClock) Today() (int, int, int) { return f.Year, f.Month, f.Day }

// Context is the per-expansion environment passed to every Type
// method: the request under construction, the active clock, and the
// strictness flag that governs whether non-exact (prefix) matches and
// constraint violations are hard errors.
type Context interface {
	Request() *request.Request
	Clock() Clock
	Strict() bool
}

type exprContext struct {
	req    *request.Request
	clock  Clock
	strict bool
}

// NewContext builds the Context used to drive one expansion pass.
func NewContext(req *request.Request, clock Clock, strict bool) Context {
	if clock == nil {
		clock = systemClock{}
	}
	return &exprContext{req: req, clock: clock, strict: strict}
}

func (c *exprContext) Request() *request.Request { return c.req }
func (c *exprContext) Clock() Clock               { return c.clock }
func (c *exprContext) Strict() bool               { return c.strict }
