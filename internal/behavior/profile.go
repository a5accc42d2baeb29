package behavior

import (
	"sort"

	"github.com/yulin/playlens/internal/events"
)

// ClassProfile is the per-class mean of every numeric student field,
// column-aligned with NumericColumns.
type ClassProfile struct {
	Class    string
	Students int
	Means    []float64
}

// Profile groups records by class and averages every numeric column.
// Classes come back in lexical order for stable output.
func Profile(records []Record, rules *events.RuleTable) []ClassProfile {
	cols := len(NumericColumns(rules))

	byClass := make(map[string]*ClassProfile)
	for _, rec := range records {
		p, ok := byClass[rec.Class]
		if !ok {
			p = &ClassProfile{Class: rec.Class, Means: make([]float64, cols)}
			byClass[rec.Class] = p
		}
		p.Students++
		for i, v := range rec.NumericValues(rules) {
			p.Means[i] += v
		}
	}

	out := make([]ClassProfile, 0, len(byClass))
	for _, p := range byClass {
		for i := range p.Means {
			p.Means[i] = round2(p.Means[i] / float64(p.Students))
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}
