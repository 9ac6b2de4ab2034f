package types

import (
	"fmt"

	"github.com/metquery/marslang/grammar"
)

// Mixed dispatches to one of several sub-types depending on the active
// request: each configured arm's When condition is tested in order
// against the keywords already set, and the first match's type governs
// parsing, formatting and range expansion for this value. An arm with
// no When condition always matches and should be listed last.
type Mixed struct {
	Base

	arms []mixedArm
}

type mixedArm struct {
	when grammar.Condition
	typ  Type
}

// NewMixed builds a Mixed type for the given keyword from its
// subtypes configuration.
func NewMixed(name string, cfg grammar.KeywordConfig) (*Mixed, error) {
	if len(cfg.Subtypes) == 0 {
		return nil, fmt.Errorf("%s: a mixed keyword needs at least one subtype", name)
	}

	m := &Mixed{Base: NewBase(name, cfg, false, true, true)}
	for i, st := range cfg.Subtypes {
		typ, err := New(name, st.KeywordConfig)
		if err != nil {
			return nil, fmt.Errorf("%s: subtype %d: %w", name, i, err)
		}
		m.arms = append(m.arms, mixedArm{when: st.When, typ: typ})
	}
	m.BindExpandValue(m.ExpandValue)
	return m, nil
}

func (m *Mixed) selectArm(ctx Context) Type {
	if ctx != nil {
		req := ctx.Request()
		for _, arm := range m.arms {
			if len(arm.when) == 0 || mixedConditionHolds(req, arm.when) {
				return arm.typ
			}
		}
	}
	return m.arms[len(m.arms)-1].typ
}

func (m *Mixed) ExpandValue(ctx Context, value string) (string, error) {
	return m.selectArm(ctx).ExpandValue(ctx, value)
}

func (m *Mixed) ExpandRange(ctx Context, values []string) ([]string, error) {
	return m.selectArm(ctx).ExpandRange(ctx, values)
}

func (m *Mixed) Tidy(value string) string {
	return m.selectArm(nil).Tidy(value)
}

func mixedConditionHolds(req interface {
	ValuesOrEmpty(string) []string
}, cond grammar.Condition) bool {
	for key, allowed := range cond {
		values := req.ValuesOrEmpty(key)
		if !mixedAnyValueIn(values, allowed) {
			return false
		}
	}
	return true
}

func mixedAnyValueIn(values []string, allowed grammar.StringList) bool {
	for _, v := range values {
		for _, a := range allowed {
			if a == v {
				return true
			}
		}
	}
	return false
}
