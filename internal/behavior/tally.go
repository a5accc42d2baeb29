package behavior

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yulin/playlens/internal/events"
)

// Tally is a count plus an accumulated duration for one behavior bucket.
type Tally struct {
	Count    int `json:"count"`
	Duration int `json:"duration"`
}

// SubKey addresses one (category, subcategory) bucket.
type SubKey struct {
	Category    events.Category
	Subcategory string
}

// TallySet holds the per-category and per-subcategory tallies for one scope
// (round 1, or all rounds). Buckets are indexed by the category enum rather
// than assembled field-name strings.
type TallySet struct {
	ByCategory map[events.Category]Tally
	BySub      map[SubKey]Tally
}

// NewTallySet returns a TallySet with every bucket of the rule table
// initialized to zero, so absent behavior still exports as 0.
func NewTallySet(rules *events.RuleTable) TallySet {
	ts := TallySet{
		ByCategory: make(map[events.Category]Tally),
		BySub:      make(map[SubKey]Tally),
	}
	for _, cat := range rules.Categories() {
		ts.ByCategory[cat] = Tally{}
		for _, sub := range rules.Subcategories(cat) {
			ts.BySub[SubKey{cat, sub}] = Tally{}
		}
	}
	return ts
}

// Add books one event into both bucket levels.
func (ts *TallySet) Add(e events.ClassifiedEvent) {
	c := ts.ByCategory[e.Category]
	c.Count++
	c.Duration += e.Duration
	ts.ByCategory[e.Category] = c

	k := SubKey{e.Category, e.Subcategory}
	s := ts.BySub[k]
	s.Count++
	s.Duration += e.Duration
	ts.BySub[k] = s
}

// Category returns the tally for one category.
func (ts TallySet) Category(cat events.Category) Tally {
	return ts.ByCategory[cat]
}

// Sub returns the tally for one (category, subcategory) bucket.
func (ts TallySet) Sub(cat events.Category, sub string) Tally {
	return ts.BySub[SubKey{cat, sub}]
}

// jsonTallySet is the wire form: struct keys flattened to "category" and
// "category.subcategory" strings so the set survives a JSON round trip.
type jsonTallySet struct {
	Categories map[string]Tally `json:"categories"`
	Subs       map[string]Tally `json:"subcategories"`
}

func (ts TallySet) MarshalJSON() ([]byte, error) {
	out := jsonTallySet{
		Categories: make(map[string]Tally, len(ts.ByCategory)),
		Subs:       make(map[string]Tally, len(ts.BySub)),
	}
	for cat, t := range ts.ByCategory {
		out.Categories[string(cat)] = t
	}
	for k, t := range ts.BySub {
		out.Subs[fmt.Sprintf("%s.%s", k.Category, k.Subcategory)] = t
	}
	return json.Marshal(out)
}

func (ts *TallySet) UnmarshalJSON(data []byte) error {
	var in jsonTallySet
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	ts.ByCategory = make(map[events.Category]Tally, len(in.Categories))
	ts.BySub = make(map[SubKey]Tally, len(in.Subs))
	for cat, t := range in.Categories {
		ts.ByCategory[events.Category(cat)] = t
	}
	for key, t := range in.Subs {
		cat, sub, ok := strings.Cut(key, ".")
		if !ok {
			return fmt.Errorf("malformed subcategory key %q", key)
		}
		ts.BySub[SubKey{events.Category(cat), sub}] = t
	}
	return nil
}
