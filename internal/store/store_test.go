package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/knowledge"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func testRun(students int) (Run, []behavior.Record, []knowledge.Record) {
	run := NewRun("survey.xlsx", "gamelog.xlsx")
	run.Students = students
	run.ClusterK = 2
	run.Silhouette = 0.61

	var brecs []behavior.Record
	var krecs []knowledge.Record
	for i := 0; i < students; i++ {
		id := string(rune('1' + i))
		brecs = append(brecs, behavior.Record{Class: "6-1", StuNum: id, PreScore: float64(40 + i)})
		krecs = append(krecs, knowledge.Record{
			Class: "6-1", StuNum: id,
			Points: map[string]knowledge.PointScores{
				"passwordFunction": {Mastery: 0.5, Explore: 0.4},
			},
		})
	}
	return run, brecs, krecs
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun on empty store: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil run, got %+v", latest)
	}

	run, brecs, krecs := testRun(3)
	if err := s.SaveRun(ctx, run, brecs, krecs); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	latest, err = s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest == nil || latest.ID != run.ID || latest.Students != 3 {
		t.Fatalf("latest = %+v", latest)
	}

	gotB, err := s.BehaviorRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("BehaviorRecords: %v", err)
	}
	if len(gotB) != 3 || gotB[0].StuNum != "1" || gotB[0].PreScore != 40 {
		t.Errorf("behavior records = %+v", gotB)
	}

	gotK, err := s.KnowledgeRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("KnowledgeRecords: %v", err)
	}
	if len(gotK) != 3 {
		t.Fatalf("knowledge records = %d", len(gotK))
	}
	if got := gotK[0].Points["passwordFunction"].Mastery; got != 0.5 {
		t.Errorf("mastery round-tripped as %v", got)
	}
}

func TestRunsOrderAndPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, brecs, krecs := testRun(1)
		if err := s.SaveRun(ctx, run, brecs, krecs); err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d", len(runs))
	}

	if err := s.PruneRuns(ctx, 1); err != nil {
		t.Fatalf("PruneRuns: %v", err)
	}
	runs, err = s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs after prune: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs after prune = %d", len(runs))
	}

	// Cascade removed the pruned runs' record rows.
	for _, id := range ids[:2] {
		recs, err := s.BehaviorRecords(ctx, id)
		if err != nil {
			t.Fatalf("BehaviorRecords(%s): %v", id, err)
		}
		if len(recs) != 0 {
			t.Errorf("pruned run %s still has %d behavior records", id, len(recs))
		}
	}
}
