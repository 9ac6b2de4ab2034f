// Package request implements the Request data model: an ordered
// keyword to value-list mapping carrying a verb, plus a weak
// back-reference to the Type that owns each active keyword.
package request

import (
	"fmt"
	"strings"
)

// TypeRef is the minimal view a Request needs of the Type that owns a
// keyword. It is satisfied structurally by types.Type so that this
// package never needs to import the types package (which itself needs
// to import request for *Request parameters) — a weak reference in the
// sense of metkit's MarsRequest/Type relationship, without a Go import
// cycle.
type TypeRef interface {
	Name() string
	Multiple() bool
	Flatten() bool
}

// Request is an ordered keyword -> values mapping for one verb.
// It is built up incrementally during expansion and is read-only once
// expansion has finished.
type Request struct {
	verb   string
	order  []string
	values map[string][]string
	types  map[string]TypeRef
}

// New creates an empty Request for the given verb.
func New(verb string) *Request {
	return &Request{
		verb:   strings.ToLower(verb),
		values: map[string][]string{},
		types:  map[string]TypeRef{},
	}
}

// Clone makes a deep copy safe for independent mutation.
func (r *Request) Clone() *Request {
	c := New(r.verb)
	c.order = append([]string(nil), r.order...)
	for k, v := range r.values {
		c.values[k] = append([]string(nil), v...)
	}
	for k, t := range r.types {
		c.types[k] = t
	}
	return c
}

// Verb returns the request's verb.
func (r *Request) Verb() string { return r.verb }

// Has reports whether keyword is present (with at least one value).
func (r *Request) Has(keyword string) bool {
	_, ok := r.values[keyword]
	return ok
}

// CountValues returns the number of values set for keyword (0 if unset).
func (r *Request) CountValues(keyword string) int {
	return len(r.values[keyword])
}

// Values returns the ordered values of keyword. If keyword is absent
// and allowMissing is false (the default), it returns an error;
// otherwise it returns a nil slice.
func (r *Request) Values(keyword string, allowMissing ...bool) ([]string, error) {
	v, ok := r.values[keyword]
	if !ok {
		if len(allowMissing) > 0 && allowMissing[0] {
			return nil, nil
		}
		return nil, fmt.Errorf("request has no values for keyword %q", keyword)
	}
	return v, nil
}

// ValuesOrEmpty is a convenience wrapper over Values(keyword, true) that
// never errors.
func (r *Request) ValuesOrEmpty(keyword string) []string {
	v, _ := r.Values(keyword, true)
	return v
}

// SetValue sets keyword to a single value, replacing any previous values.
// Any associated type is left as it was.
func (r *Request) SetValue(keyword, value string) {
	r.setValues(keyword, []string{value})
}

// SetValues sets keyword to the given ordered list of values.
func (r *Request) SetValues(keyword string, values []string) {
	r.setValues(keyword, append([]string(nil), values...))
}

// SetValuesTyped sets keyword's values and records the owning type, the
// weak back-reference described in the data model.
func (r *Request) SetValuesTyped(t TypeRef, values []string) {
	r.setValues(t.Name(), append([]string(nil), values...))
	r.types[t.Name()] = t
}

func (r *Request) setValues(keyword string, values []string) {
	if _, exists := r.values[keyword]; !exists {
		r.order = append(r.order, keyword)
	}
	r.values[keyword] = values
}

// UnsetValues removes keyword entirely.
func (r *Request) UnsetValues(keyword string) {
	if _, ok := r.values[keyword]; !ok {
		return
	}
	delete(r.values, keyword)
	delete(r.types, keyword)
	for i, k := range r.order {
		if k == keyword {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// TypeOf returns the Type associated with keyword, or nil.
func (r *Request) TypeOf(keyword string) TypeRef {
	return r.types[keyword]
}

// Params returns the keywords currently set, in insertion order.
func (r *Request) Params() []string {
	return append([]string(nil), r.order...)
}

// Merge sets, for every keyword of other, the union of this request's
// values and other's values, following the insertion order of this
// request's keywords first, then any keyword only present in other.
func (r *Request) Merge(other *Request) {
	for _, k := range other.order {
		ov := other.values[k]
		mine, ok := r.values[k]
		if !ok {
			r.setValues(k, ov)
			if t := other.types[k]; t != nil {
				r.types[k] = t
			}
			continue
		}
		seen := map[string]struct{}{}
		merged := append([]string(nil), mine...)
		for _, v := range mine {
			seen[v] = struct{}{}
		}
		for _, v := range ov {
			if _, dup := seen[v]; !dup {
				merged = append(merged, v)
				seen[v] = struct{}{}
			}
		}
		r.values[k] = merged
	}
}

// Equal reports whether r and o have the same verb, same keyword set,
// and the same value sequence per keyword.
func (r *Request) Equal(o *Request) bool {
	if o == nil || r.verb != o.verb || len(r.values) != len(o.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := o.values[k]
		if !ok || len(v) != len(ov) {
			return false
		}
		for i := range v {
			if v[i] != ov[i] {
				return false
			}
		}
	}
	return true
}

// String renders the request in MARS request text syntax:
// verb,key=value/value,key=value
func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(r.verb)
	for _, k := range r.order {
		b.WriteString(",")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(r.values[k], "/"))
	}
	return b.String()
}

// ParsedRequest is a Request together with the source line number it
// was parsed from, used purely for diagnostics.
type ParsedRequest struct {
	*Request
	Line int
}

// NewParsed wraps req with a source line number.
func NewParsed(req *Request, line int) *ParsedRequest {
	return &ParsedRequest{Request: req, Line: line}
}
