// Package dashboard is the interactive terminal viewer over a completed
// analysis run: class overview, filterable student list, and per-student
// behavior and mastery detail.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/events"
	"github.com/yulin/playlens/internal/knowledge"
	"github.com/yulin/playlens/internal/store"
)

// RunData is the loaded, immutable data for one run.
type RunData struct {
	Run       store.Run
	Behavior  []behavior.Record
	Knowledge []knowledge.Record

	Rules  *events.RuleTable
	Config *knowledge.Config
}

// Load reads the most recent run from the store. It returns an error when
// the store has no runs yet.
func Load(ctx context.Context, s *store.Store) (*RunData, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("no runs recorded yet; run `playlens run` first")
	}

	brecs, err := s.BehaviorRecords(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	krecs, err := s.KnowledgeRecords(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return &RunData{
		Run:       *run,
		Behavior:  brecs,
		Knowledge: krecs,
		Rules:     events.DefaultRuleTable(),
		Config:    knowledge.DefaultConfig(),
	}, nil
}

// Classes returns the distinct class names in lexical order.
func (d *RunData) Classes() []string {
	seen := map[string]bool{}
	var classes []string
	for _, rec := range d.Behavior {
		if !seen[rec.Class] {
			seen[rec.Class] = true
			classes = append(classes, rec.Class)
		}
	}
	sort.Strings(classes)
	return classes
}

// StudentsIn returns the indices of students in the given class, in stored
// order. An empty class selects everyone.
func (d *RunData) StudentsIn(class string) []int {
	var idx []int
	for i, rec := range d.Behavior {
		if class == "" || rec.Class == class {
			idx = append(idx, i)
		}
	}
	return idx
}

// KnowledgeFor returns the mastery record matching a behavior record, or nil
// when the run has none for that student.
func (d *RunData) KnowledgeFor(class, stuNum string) *knowledge.Record {
	for i := range d.Knowledge {
		if d.Knowledge[i].Class == class && d.Knowledge[i].StuNum == stuNum {
			return &d.Knowledge[i]
		}
	}
	return nil
}
