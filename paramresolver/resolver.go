// Package paramresolver resolves a request's raw param tokens -
// table.param pairs, bare numeric ids, or short names - to MARS
// canonical parameter ids, using the grammar's paramIDs alias table
// together with the stream/type-sensitive param-rules documents.
package paramresolver

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/metquery/marslang/grammar"
	"github.com/metquery/marslang/request"
)

// Logger receives redefinition-ignored and fallback diagnostics. It
// discards output by default; callers may swap in a real logger.
var Logger log.Logger = log.NewNopLogger()

// Rule is a single [matchers -> ids] entry from param-rules.yaml or
// param-static-rules.yaml.
type Rule struct {
	Matchers map[string]grammar.StringList
	IDs      []string
}

// Resolver resolves param tokens against a loaded grammar document.
type Resolver struct {
	aliasToID   map[string]string // lowercase alias -> canonical id, first declaration wins
	idToAliases map[string][]string
	shortNames  map[string]bool
	dynamic     []Rule
	static      []Rule

	strictMode bool
	legacy     bool
	raw        bool
}

var (
	once     sync.Once
	def      *Resolver
	defErr   error
)

// Default builds (once) a Resolver from the embedded default grammar.
func Default() (*Resolver, error) {
	once.Do(func() {
		doc, err := grammar.Load()
		if err != nil {
			defErr = err
			return
		}
		def, defErr = Build(doc)
	})
	return def, defErr
}

// Build constructs a Resolver from an already-loaded grammar document,
// reading the METKIT_LANGUAGE_STRICT_MODE, METKIT_LEGACY_PARAM_CHECK
// and METKIT_RAW_PARAM environment knobs.
func Build(doc *grammar.Document) (*Resolver, error) {
	r := &Resolver{
		aliasToID:   map[string]string{},
		idToAliases: map[string][]string{},
		shortNames:  doc.ShortNames,
		strictMode:  envFlag("METKIT_LANGUAGE_STRICT_MODE"),
		legacy:      envFlag("METKIT_LEGACY_PARAM_CHECK"),
		raw:         envFlag("METKIT_RAW_PARAM"),
	}

	ids := make([]string, 0, len(doc.ParamIDs))
	for id := range doc.ParamIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, alias := range doc.ParamIDs[id] {
			key := strings.ToLower(alias)
			if existing, ok := r.aliasToID[key]; ok {
				level.Debug(Logger).Log("msg", "param alias redefinition ignored",
					"alias", alias, "existing_id", existing, "ignored_id", id)
				continue
			}
			r.aliasToID[key] = id
			r.idToAliases[id] = append(r.idToAliases[id], alias)
		}
	}

	r.dynamic = toRules(doc.ParamRules)
	r.static = toRules(doc.StaticRules)

	return r, nil
}

func toRules(docs []grammar.RuleDoc) []Rule {
	rules := make([]Rule, 0, len(docs))
	for _, d := range docs {
		rules = append(rules, Rule{Matchers: d.Matchers, IDs: append([]string(nil), d.IDs...)})
	}
	return rules
}

func envFlag(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

// candidateIDs returns the ids available in the current request
// context: the first matching dynamic rule's ids, unioned with every
// matching static rule's ids (a rule with no matchers always matches).
func (r *Resolver) candidateIDs(req *request.Request) []string {
	var out []string
	seen := map[string]bool{}
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	for _, rule := range r.dynamic {
		if ruleMatches(req, rule.Matchers) {
			add(rule.IDs)
			break
		}
	}
	for _, rule := range r.static {
		if ruleMatches(req, rule.Matchers) {
			add(rule.IDs)
		}
	}
	return out
}

func ruleMatches(req *request.Request, matchers map[string]grammar.StringList) bool {
	for key, allowed := range matchers {
		values := req.ValuesOrEmpty(key)
		if !anyMatches(values, allowed) {
			return false
		}
	}
	return true
}

// ruleMatchesPartial is ruleMatches' partial-match variant: a matcher on
// a keyword the request hasn't set at all is treated as satisfied, the
// same relaxation Rule::lookup's partial mode applies when TypeParam
// walks the rules for its firstRule_ fallback.
func ruleMatchesPartial(req *request.Request, matchers map[string]grammar.StringList) bool {
	for key, allowed := range matchers {
		values := req.ValuesOrEmpty(key)
		if len(values) == 0 {
			continue
		}
		if !anyMatches(values, allowed) {
			return false
		}
	}
	return true
}

func anyMatches(values []string, allowed grammar.StringList) bool {
	for _, v := range values {
		for _, a := range allowed {
			if strings.EqualFold(v, a) {
				return true
			}
		}
	}
	return false
}

// Resolve canonicalises one param token against req's already-set
// keywords (used to pick the active rule's candidate ids). firstRule and
// expandWith are the keyword's configured "first_rule"/"expand_with"
// fallback settings (grammar.KeywordConfig.FirstRule/ExpandWith); when
// the token doesn't resolve among the rules that strictly match req,
// they are tried in that order before giving up - mirroring
// TypeParam::pass2's firstRule_-then-expandWith_-then-error chain.
func (r *Resolver) Resolve(req *request.Request, token string, firstRule bool, expandWith map[string]string) (string, error) {
	if r.raw {
		return token, nil
	}

	v := strings.TrimSpace(token)
	if v == "" {
		return "", &ResolveError{Token: token, Reason: "empty param token"}
	}

	if id, ok := parseTableParam(v); ok {
		return id, nil
	}

	if isAllDigits(v) {
		return normalizeNumericParam(v), nil
	}

	candidates := r.candidateIDs(req)
	if id, ok := resolveAmongIDs(r.idToAliases, candidates, v); ok {
		return id, nil
	}

	if firstRule {
		if id, ok := r.resolveFirstRule(req, v); ok {
			level.Warn(Logger).Log("msg", "param resolved via first_rule fallback", "token", v, "id", id)
			return id, nil
		}
	}

	if len(expandWith) > 0 {
		if id, ok := r.resolveExpandWith(req, v, expandWith); ok {
			level.Warn(Logger).Log("msg", "param resolved via expand_with fallback", "token", v, "id", id)
			return id, nil
		}
	}

	if r.legacy {
		if id, ok := r.aliasToID[strings.ToLower(v)]; ok {
			level.Debug(Logger).Log("msg", "param resolved via legacy global alias fallback", "token", v, "id", id)
			return id, nil
		}
	}

	return "", &ResolveError{Token: token, Reason: "not a known parameter in the current context"}
}

// resolveFirstRule walks the dynamic rules in declaration order under
// partial matching (a matcher on a key req hasn't set passes
// automatically) and resolves token against the first rule whose ids
// contain it, without requiring that rule to strictly match req.
func (r *Resolver) resolveFirstRule(req *request.Request, token string) (string, bool) {
	for _, rule := range r.dynamic {
		if !ruleMatchesPartial(req, rule.Matchers) {
			continue
		}
		if id, ok := resolveAmongIDs(r.idToAliases, rule.IDs, token); ok {
			return id, true
		}
	}
	return "", false
}

// resolveExpandWith fills in expandWith's configured defaults for any
// key req doesn't already carry, then retries candidate resolution
// against that trial context - the Go equivalent of TypeParam::pass2
// cloning the request and merging expandWith_ before its retry.
func (r *Resolver) resolveExpandWith(req *request.Request, token string, expandWith map[string]string) (string, bool) {
	trial := req.Clone()
	for key, value := range expandWith {
		if !trial.Has(key) {
			trial.SetValue(key, value)
		}
	}
	return resolveAmongIDs(r.idToAliases, r.candidateIDs(trial), token)
}

func resolveAmongIDs(idToAliases map[string][]string, candidates []string, token string) (string, bool) {
	lower := strings.ToLower(token)
	for _, id := range candidates {
		for _, alias := range idToAliases[id] {
			if strings.ToLower(alias) == lower {
				return id, true
			}
		}
	}
	return "", false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseTableParam recognises "table.param" (e.g. "2.130") and
// canonicalises it the same way TypeParam::lookup does: table*1000 +
// param, folding table 128 (the default GRIB1 table) to 0.
func parseTableParam(v string) (string, bool) {
	dot := strings.IndexByte(v, '.')
	if dot <= 0 || dot == len(v)-1 {
		return "", false
	}
	table, err1 := strconv.Atoi(v[:dot])
	param, err2 := strconv.Atoi(v[dot+1:])
	if err1 != nil || err2 != nil {
		return "", false
	}
	return strconv.Itoa(foldTable(table)*1000 + param), true
}

// normalizeNumericParam applies the same table*1000+param folding to a
// bare digit string, so an already-canonical id (where the implicit
// table is 0) round-trips unchanged and a legacy "128xxx"-encoded id
// collapses to its bare param number.
func normalizeNumericParam(v string) string {
	n, _ := strconv.Atoi(v)
	table, param := n/1000, n%1000
	return strconv.Itoa(foldTable(table)*1000 + param)
}

func foldTable(table int) int {
	if table == 128 {
		return 0
	}
	return table
}

// ResolveError reports a param token that could not be canonicalised.
type ResolveError struct {
	Token  string
	Reason string
}

func (e *ResolveError) Error() string {
	return "param " + strconv.Quote(e.Token) + ": " + e.Reason
}
