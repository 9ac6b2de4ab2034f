// Package expansion is the top-level facade: it resolves a request's
// verb to a cached language.Language instance and drives expansion of
// one or many parsed requests.
package expansion

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/language"
	"github.com/metquery/marslang/request"
)

// Expansion caches one language.Language per canonical verb, built
// lazily from a shared grammar.Document. Safe for concurrent use.
type Expansion struct {
	doc *grammar.Document

	mu        sync.Mutex
	languages map[string]*language.Language

	inherit bool
	strict  bool
}

// Option configures an Expansion at construction time.
type Option func(*Expansion)

// WithInherit sets whether Expand applies defaults/inheritance.
// Defaults to true.
func WithInherit(inherit bool) Option {
	return func(e *Expansion) { e.inherit = inherit }
}

// WithStrict sets whether Expand runs in strict mode (non-exact
// keyword/value prefix matches are rejected, and only/never violations
// become hard errors rather than silently unsetting the keyword).
// Ambiguous matches are errors in either mode. Defaults to false.
func WithStrict(strict bool) Option {
	return func(e *Expansion) { e.strict = strict }
}

// New builds an Expansion over the embedded default grammar document.
func New(opts ...Option) (*Expansion, error) {
	doc, err := grammar.Load()
	if err != nil {
		return nil, fmt.Errorf("expansion: loading grammar: %w", err)
	}
	return NewWithDocument(doc, opts...)
}

// NewWithDocument builds an Expansion over an already-loaded grammar
// document, letting callers supply a non-default one in tests.
func NewWithDocument(doc *grammar.Document, opts ...Option) (*Expansion, error) {
	e := &Expansion{
		doc:       doc,
		languages: map[string]*language.Language{},
		inherit:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// languageFor resolves verb to its canonical name and returns the
// (lazily built, cached) Language for it.
func (e *Expansion) languageFor(verb string) (*language.Language, error) {
	canon, ok := e.doc.ResolveVerb(verb)
	if !ok {
		return nil, fmt.Errorf("expansion: unknown verb %q", strings.TrimSpace(verb))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if l, ok := e.languages[canon]; ok {
		return l, nil
	}

	vc, ok := e.doc.Verbs[canon]
	if !ok {
		return nil, fmt.Errorf("expansion: verb %q resolved to %q, which has no grammar entry", verb, canon)
	}
	l, err := language.New(canon, vc, e.doc.AxisOrder)
	if err != nil {
		return nil, err
	}
	e.languages[canon] = l
	return l, nil
}

// Expand resolves req's verb and runs the full expansion pipeline,
// returning a new canonical Request.
func (e *Expansion) Expand(req *request.Request) (*request.Request, error) {
	l, err := e.languageFor(req.Verb())
	if err != nil {
		return nil, err
	}
	return l.Expand(req, e.inherit, e.strict)
}

// ExpandAll expands each of reqs in turn, stopping at the first error.
func (e *Expansion) ExpandAll(reqs []*request.ParsedRequest) ([]*request.Request, error) {
	out := make([]*request.Request, 0, len(reqs))
	for _, pr := range reqs {
		expanded, err := e.Expand(pr.Request)
		if err != nil {
			return nil, errors.Wrapf(err, "expansion: line %d", pr.Line)
		}
		out = append(out, expanded)
	}
	return out, nil
}

// Reset drops every cached Language's mutable default state, the way
// a long-lived interactive client clears accumulated keyword
// overrides between unrelated requests.
func (e *Expansion) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.languages {
		l.Reset()
	}
}
