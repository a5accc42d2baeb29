package events

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule maps event codes matching any of its patterns to one
// (category, subcategory) pair. Patterns are anchored at the start of the
// code, like the game's original logging convention.
type Rule struct {
	Category    Category
	Subcategory string
	patterns    []*regexp.Regexp
	sources     []string
}

// RuleTable is an ordered list of rules evaluated first-match-wins.
//
// The order is load-bearing: some patterns overlap across rules (both
// feedback subcategories share `L\dQ\dFB`), so reordering the table changes
// classification. Construct once and treat as immutable.
type RuleTable struct {
	rules []Rule
}

// RuleSpec is the serializable form of one rule, as found in a rules file.
type RuleSpec struct {
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory"`
	Patterns    []string `yaml:"patterns"`
}

var validCategories = map[Category]bool{
	CategoryRead:      true,
	CategoryExplore:   true,
	CategoryPractice:  true,
	CategoryFeedback:  true,
	CategoryReplayEnd: true,
}

// NewRuleTable compiles an ordered rule table from specs.
func NewRuleTable(specs []RuleSpec) (*RuleTable, error) {
	t := &RuleTable{rules: make([]Rule, 0, len(specs))}
	for i, spec := range specs {
		cat := Category(spec.Category)
		if !validCategories[cat] {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, spec.Category)
		}
		if spec.Subcategory == "" {
			return nil, fmt.Errorf("rule %d: empty subcategory", i)
		}
		r := Rule{Category: cat, Subcategory: spec.Subcategory}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile("^" + p)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s/%s): pattern %q: %w", i, spec.Category, spec.Subcategory, p, err)
			}
			r.patterns = append(r.patterns, re)
			r.sources = append(r.sources, p)
		}
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// LoadRuleTable reads a YAML rules file.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var doc struct {
		Rules []RuleSpec `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	return NewRuleTable(doc.Rules)
}

// Classify maps an event code to its (category, subcategory) pair.
// Total and deterministic: unmatched codes get (unknown, unclassified).
func (t *RuleTable) Classify(code string) (Category, string) {
	for _, r := range t.rules {
		for _, re := range r.patterns {
			if re.MatchString(code) {
				return r.Category, r.Subcategory
			}
		}
	}
	return CategoryUnknown, UnclassifiedSubcategory
}

// Categories returns the distinct categories in table order.
func (t *RuleTable) Categories() []Category {
	var out []Category
	seen := make(map[Category]bool)
	for _, r := range t.rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// Subcategories returns a category's subcategories in table order.
func (t *RuleTable) Subcategories(cat Category) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range t.rules {
		if r.Category == cat && !seen[r.Subcategory] {
			seen[r.Subcategory] = true
			out = append(out, r.Subcategory)
		}
	}
	return out
}

// DefaultRuleTable returns the built-in classification table for the
// password-security game, ordered exactly as the study's coding scheme
// defines it.
func DefaultRuleTable() *RuleTable {
	t, err := NewRuleTable(defaultRuleSpecs)
	if err != nil {
		panic(fmt.Sprintf("built-in rule table invalid: %v", err))
	}
	return t
}

// defaultRuleSpecs is the study's coding scheme. Do not reorder: the
// feedback positive rule must precede the negative one, which shares its
// event pattern.
var defaultRuleSpecs = []RuleSpec{
	{Category: "read", Subcategory: "knowledge", Patterns: []string{`L1I[1,6,7]`, `L2I[1,3]`, `.*read_knowledge.*`}},
	{Category: "read", Subcategory: "rules", Patterns: []string{`L1I[2-5]`, `L2I[2,4]`, `L3I1`, `L4I1`, `.*read_rules.*`}},
	{Category: "read", Subcategory: "return", Patterns: []string{`L\dRT`, `.*read_return.*`}},
	{Category: "explore", Subcategory: "move", Patterns: []string{`L\dJ\d+`, `L\dG\d+`, `.*explore_move.*`}},
	{Category: "explore", Subcategory: "positive", Patterns: []string{`PW>.*`, `L\dS\d+`, `L\dF\d+`, `.*explore_objective_positive.*`}},
	{Category: "explore", Subcategory: "negative", Patterns: []string{`BadP`, `L\dH\d+`, `.*explore_objective_negative.*`}},
	{Category: "practice", Subcategory: "choice", Patterns: []string{`L4Q[1-5][A-D]`}},
	{Category: "practice", Subcategory: "sub", Patterns: []string{`L4Q[1-5]Sub`}},
	{Category: "feedback", Subcategory: "positive", Patterns: []string{`L\dQ\dFB`, `.*feedback_positive.*`}},
	{Category: "feedback", Subcategory: "negative", Patterns: []string{`L\dQ\dFB`, `.*feedback_negative.*`}},
	{Category: "feedback", Subcategory: "sumAssessment", Patterns: []string{`L\dEP`, `L\dEnd`}},
	{Category: "replay_end", Subcategory: "part_replay", Patterns: []string{`L3Replay`}},
	{Category: "replay_end", Subcategory: "replay", Patterns: nil},
}
