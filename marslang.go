// Package marslang provides a MARS request-language engine: parsing,
// grammar-driven expansion, parameter resolution, hypercube projection
// and key=regex matching over textual archive/retrieval requests.
//
// Basic usage:
//
//	reqs, err := marslang.ParseAll(`retrieve,class=od,expver=0001,param=2t/t,levtype=sfc`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp, err := marslang.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range reqs {
//	    expanded, err := exp.Expand(r.Request)
//	    ...
//	    fmt.Println(marslang.String(expanded))
//	}
package marslang

import (
	"github.com/metquery/marslang/expansion"
	"github.com/metquery/marslang/format"
	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/hypercube"
	"github.com/metquery/marslang/matcher"
	"github.com/metquery/marslang/parser"
	"github.com/metquery/marslang/request"
)

// Parse parses a single request.
func Parse(text string) (*request.ParsedRequest, error) {
	p := parser.Get(text)
	req, err := p.Parse()
	parser.Put(p)
	return req, err
}

// ParseAll parses every request in text (multiple requests may be
// separated by "." terminators or newlines).
func ParseAll(text string) ([]*request.ParsedRequest, error) {
	p := parser.Get(text)
	reqs, err := p.ParseAll()
	parser.Put(p)
	return reqs, err
}

// String formats an expanded request back to MARS request syntax.
func String(req *request.Request) string {
	return format.String(req)
}

// Default builds a new Expansion from the embedded default grammar,
// with inheritance and best-match fallback enabled. Each call returns
// a separate instance with its own Language cache.
func Default() (*Expansion, error) {
	return expansion.New()
}

// NewExpansion builds an Expansion with the given options, against the
// embedded default grammar.
func NewExpansion(opts ...Option) (*Expansion, error) {
	return expansion.New(opts...)
}

// NewExpansionWithDocument builds an Expansion against an explicitly
// loaded grammar document, for callers overriding the default YAML
// (e.g. in tests, or to pick up a site-local language.yaml).
func NewExpansionWithDocument(doc *grammar.Document, opts ...Option) (*Expansion, error) {
	return expansion.NewWithDocument(doc, opts...)
}

// LoadGrammar loads the embedded default grammar document.
func LoadGrammar() (*grammar.Document, error) {
	return grammar.Load()
}

// Common type aliases for convenience.
type (
	Expansion     = expansion.Expansion
	Option        = expansion.Option
	Request       = request.Request
	ParsedRequest = request.ParsedRequest
	HyperCube     = hypercube.HyperCube
	Matcher       = matcher.Matcher
	GrammarDoc    = grammar.Document
)

// WithInherit controls whether Expand applies keyword defaults and
// cross-keyword inheritance (on by default).
func WithInherit(inherit bool) Option { return expansion.WithInherit(inherit) }

// WithStrict controls whether keyword/verb resolution requires an
// exact (non-abbreviated) match.
func WithStrict(strict bool) Option { return expansion.WithStrict(strict) }

// NewHyperCube projects an expanded request onto a dense Cartesian
// index over the grammar's axis order.
func NewHyperCube(req *request.Request, axisOrder []string) (*HyperCube, error) {
	return hypercube.New(req, axisOrder)
}

// ParseMatcher builds a key=regex[,...] Matcher under the given
// policy.
func ParseMatcher(expr string, policy matcher.Policy) (*Matcher, error) {
	return matcher.Parse(expr, policy)
}

// Matcher policies and missing-key policies.
const (
	MatchAll = matcher.All
	MatchAny = matcher.Any

	MatchOnMissing     = matcher.MatchOnMissing
	DontMatchOnMissing = matcher.DontMatchOnMissing
)
