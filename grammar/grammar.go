// Package grammar loads the declarative YAML documents that describe
// the MARS request language: verbs, keywords, per-keyword type
// configuration, parameter id tables and the axis order used to sort
// expansion and to build hypercube axes.
package grammar

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

// StringList decodes a YAML scalar or list uniformly into a []string.
// Several grammar fields (default, values, only/never/unset value
// sets) may be written either way in the document.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList(s)
		return nil
	case 0:
		*l = nil
		return nil
	}
	return fmt.Errorf("grammar: cannot decode %v into a string or list of strings", node.Tag)
}

// Condition is an {other-key: allowed-value(s)} set used by only/never/unset.
type Condition map[string]StringList

// KeywordConfig is one keyword's type configuration within a verb.
type KeywordConfig struct {
	Type       string            `yaml:"type"`
	Aliases    StringList        `yaml:"aliases"`
	Category   string            `yaml:"category"`
	Default    StringList        `yaml:"default"`
	Multiple   *bool             `yaml:"multiple"`
	Flatten    *bool             `yaml:"flatten"`
	Duplicates *bool             `yaml:"duplicates"`
	Only       []Condition       `yaml:"only"`
	Never      []Condition       `yaml:"never"`
	Unset      []Condition       `yaml:"unset"`
	By         string            `yaml:"by"`
	Element    string            `yaml:"element"`
	Values     StringList        `yaml:"values"`
	Uppercase  bool              `yaml:"uppercase"`
	Regex      StringList        `yaml:"regex"`
	Range      []float64         `yaml:"range"`
	ExpandWith map[string]string `yaml:"expand_with"`
	FirstRule  bool              `yaml:"first_rule"`

	// Groups and ValueAliases refine an enum's Values domain: Groups
	// maps a group name (itself usable as a value) to the set of
	// canonical members it expands to; ValueAliases maps an alternate
	// spelling to the one canonical value it stands for.
	Groups       map[string]StringList `yaml:"groups"`
	ValueAliases map[string]string     `yaml:"value_aliases"`

	// Subtypes configures a mixed keyword: each entry's When condition
	// is tested against the active Context in order, and the first
	// match's own type configuration governs the value. An entry with
	// an empty When always matches and should come last.
	Subtypes []MixedSubtype `yaml:"subtypes"`

	// Denominators lists the denominators a quantile keyword accepts.
	Denominators []int `yaml:"denominators"`
}

// MixedSubtype is one dispatch arm of a mixed keyword.
type MixedSubtype struct {
	When          Condition `yaml:"when"`
	KeywordConfig `yaml:",inline"`
}

func (k KeywordConfig) boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// MultipleOr returns the configured multiple flag, defaulting to def
// when the document doesn't set it.
func (k KeywordConfig) MultipleOr(def bool) bool { return k.boolOr(k.Multiple, def) }

// FlattenOr returns the configured flatten flag, defaulting to def.
func (k KeywordConfig) FlattenOr(def bool) bool { return k.boolOr(k.Flatten, def) }

// DuplicatesOr returns the configured duplicates flag, defaulting to def.
func (k KeywordConfig) DuplicatesOr(def bool) bool { return k.boolOr(k.Duplicates, def) }

// VerbConfig is a single verb's full keyword grammar.
type VerbConfig struct {
	Aliases       StringList
	ClearDefaults StringList
	Keywords      map[string]KeywordConfig
	// order preserves the keyword declaration order from the document,
	// used when the axis order document is silent about a keyword.
	order []string
}

// Order returns the keywords of this verb in document declaration order.
func (v VerbConfig) Order() []string {
	return append([]string(nil), v.order...)
}

// rawVerb mirrors a verb's YAML mapping before field extraction, since
// the verb's keyword names live alongside the reserved _aliases /
// _clear_defaults / _options keys in the same map.
type rawVerb struct {
	node *yaml.Node
}

// Document is the fully parsed grammar: one VerbConfig per verb plus
// the shared resolver tables and axis order.
type Document struct {
	Verbs          map[string]VerbConfig
	VerbAliases    map[string]string // alias -> canonical verb
	ParamIDs       map[string]StringList
	ParamRules     []RuleDoc
	StaticRules    []RuleDoc
	ShortNames     map[string]bool
	AxisOrder      []string
}

// RuleDoc is one [matchers, ids] pair from param-rules.yaml /
// param-static-rules.yaml, kept close to the YAML shape so the
// paramresolver package owns interpretation.
type RuleDoc struct {
	Matchers map[string]StringList
	IDs      StringList
}

var (
	once sync.Once
	doc  *Document
	err  error
)

// Load parses the embedded default grammar documents. It is safe to
// call from multiple goroutines; the work happens exactly once.
func Load() (*Document, error) {
	once.Do(func() {
		doc, err = loadFS(defaultData, "data")
	})
	return doc, err
}

// MustLoad panics if the embedded grammar documents fail to parse; it
// is meant for package-level initialisation in callers that have no
// graceful degradation path.
func MustLoad() *Document {
	d, e := Load()
	if e != nil {
		panic(e)
	}
	return d
}

func loadFS(fsys embed.FS, dir string) (*Document, error) {
	langBytes, err := fsys.ReadFile(dir + "/language.yaml")
	if err != nil {
		return nil, fmt.Errorf("grammar: reading language.yaml: %w", err)
	}
	verbs, verbAliases, err := parseLanguage(langBytes)
	if err != nil {
		return nil, fmt.Errorf("grammar: parsing language.yaml: %w", err)
	}

	paramIDsBytes, err := fsys.ReadFile(dir + "/paramIDs.yaml")
	if err != nil {
		return nil, fmt.Errorf("grammar: reading paramIDs.yaml: %w", err)
	}
	var paramIDs map[string]StringList
	if err := yaml.Unmarshal(paramIDsBytes, &paramIDs); err != nil {
		return nil, fmt.Errorf("grammar: parsing paramIDs.yaml: %w", err)
	}

	dynRules, err := loadRuleDoc(fsys, dir+"/param-rules.yaml")
	if err != nil {
		return nil, err
	}
	staticRules, err := loadRuleDoc(fsys, dir+"/param-static-rules.yaml")
	if err != nil {
		return nil, err
	}

	shortBytes, err := fsys.ReadFile(dir + "/shortnameContext.yaml")
	if err != nil {
		return nil, fmt.Errorf("grammar: reading shortnameContext.yaml: %w", err)
	}
	var shortList []string
	if err := yaml.Unmarshal(shortBytes, &shortList); err != nil {
		return nil, fmt.Errorf("grammar: parsing shortnameContext.yaml: %w", err)
	}
	shortNames := make(map[string]bool, len(shortList))
	for _, s := range shortList {
		shortNames[strings.ToLower(s)] = true
	}

	axisBytes, err := fsys.ReadFile(dir + "/axisOrder.yaml")
	if err != nil {
		return nil, fmt.Errorf("grammar: reading axisOrder.yaml: %w", err)
	}
	var axisDoc struct {
		Axes []string `yaml:"axes"`
	}
	if err := yaml.Unmarshal(axisBytes, &axisDoc); err != nil {
		return nil, fmt.Errorf("grammar: parsing axisOrder.yaml: %w", err)
	}

	return &Document{
		Verbs:       verbs,
		VerbAliases: verbAliases,
		ParamIDs:    paramIDs,
		ParamRules:  dynRules,
		StaticRules: staticRules,
		ShortNames:  shortNames,
		AxisOrder:   axisDoc.Axes,
	}, nil
}

func loadRuleDoc(fsys embed.FS, path string) ([]RuleDoc, error) {
	b, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: reading %s: %w", path, err)
	}
	var raw []struct {
		Matchers map[string]StringList `yaml:"matchers"`
		IDs      StringList            `yaml:"ids"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("grammar: parsing %s: %w", path, err)
	}
	rules := make([]RuleDoc, 0, len(raw))
	for _, r := range raw {
		rules = append(rules, RuleDoc{Matchers: r.Matchers, IDs: r.IDs})
	}
	return rules, nil
}

// reservedVerbKeys are keys within a verb's mapping that configure the
// verb itself rather than naming a keyword.
var reservedVerbKeys = map[string]bool{
	"_aliases":        true,
	"_clear_defaults": true,
	"_options":        true,
}

func parseLanguage(b []byte) (map[string]VerbConfig, map[string]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, nil, err
	}
	if len(root.Content) == 0 {
		return map[string]VerbConfig{}, map[string]string{}, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("language.yaml: expected a top-level mapping of verb -> keywords")
	}

	verbs := make(map[string]VerbConfig)
	verbAliases := make(map[string]string)

	for i := 0; i+1 < len(top.Content); i += 2 {
		verbName := strings.ToLower(top.Content[i].Value)
		verbNode := top.Content[i+1]

		vc := VerbConfig{Keywords: map[string]KeywordConfig{}}

		if verbNode.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(verbNode.Content); j += 2 {
				key := verbNode.Content[j].Value
				valNode := verbNode.Content[j+1]

				switch key {
				case "_aliases":
					var aliases StringList
					if err := valNode.Decode(&aliases); err != nil {
						return nil, nil, fmt.Errorf("verb %s: _aliases: %w", verbName, err)
					}
					vc.Aliases = aliases
					for _, a := range aliases {
						verbAliases[strings.ToLower(a)] = verbName
					}
				case "_clear_defaults":
					var clear StringList
					if err := valNode.Decode(&clear); err != nil {
						return nil, nil, fmt.Errorf("verb %s: _clear_defaults: %w", verbName, err)
					}
					vc.ClearDefaults = clear
				case "_options":
					// Per-keyword override block; merged in a later pass if a
					// concrete option set is needed. No component currently
					// distinguishes _options from the keyword block itself.
				default:
					var kc KeywordConfig
					if err := valNode.Decode(&kc); err != nil {
						return nil, nil, fmt.Errorf("verb %s, keyword %s: %w", verbName, key, err)
					}
					vc.Keywords[strings.ToLower(key)] = kc
					vc.order = append(vc.order, strings.ToLower(key))
				}
			}
		}

		_ = reservedVerbKeys
		verbs[verbName] = vc
	}

	return verbs, verbAliases, nil
}

// ResolveVerb looks up a verb by exact name or alias. Returns the
// canonical verb name and ok=true, or ok=false if unknown.
func (d *Document) ResolveVerb(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := d.Verbs[name]; ok {
		return name, true
	}
	if canon, ok := d.VerbAliases[name]; ok {
		return canon, true
	}
	return "", false
}

// SortedVerbs returns the verb names in alphabetical order, useful for
// deterministic diagnostics and tests.
func (d *Document) SortedVerbs() []string {
	names := make([]string, 0, len(d.Verbs))
	for v := range d.Verbs {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}
