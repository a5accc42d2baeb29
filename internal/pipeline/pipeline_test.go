package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/config"
	"github.com/yulin/playlens/internal/ingest"
	"github.com/yulin/playlens/internal/store"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(&config.Config{
		Questionnaire: "survey.xlsx",
		GameLog:       "gamelog.xlsx",
		DateClasses:   map[string]string{"2021-11-01": "6-1"},
		OutDir:        t.TempDir(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func testRows() []ingest.StudentRow {
	row := ingest.StudentRow{
		Class: "6-1", StuNum: "7", Sex: 2,
		PreScore: 44, PostScore: 52, PPostScore: 50,
		GameCount: 1, AvgGameScore: 80,
	}
	row.Rounds[0] = ingest.Round{
		Score: 80, HasScore: true,
		Sequence:  "/L1I1:3;L1J1:10/L4I1:40;L4Q1C:45;L4Q1Sub:50;L4Q1FB:55/",
		Passwords: [ingest.LevelCount]string{"Ab1!", "", ""},
	}
	return []ingest.StudentRow{row}
}

func TestBuildRecords(t *testing.T) {
	p := testPipeline(t)
	brecs, krecs := p.BuildRecords(testRows())

	if len(brecs) != 1 || len(krecs) != 1 {
		t.Fatalf("records = %d/%d", len(brecs), len(krecs))
	}
	b, k := brecs[0], krecs[0]

	if b.Class != "6-1" || b.StuNum != "7" || b.GameCount != 1 {
		t.Errorf("behavior identity = %+v", b)
	}
	if k.Class != b.Class || k.StuNum != b.StuNum || k.GameCount != b.GameCount {
		t.Errorf("knowledge record out of step with behavior: %+v", k)
	}
	if len(k.Points) != len(p.KnowledgeConfig().Points) {
		t.Errorf("points scored = %d", len(k.Points))
	}

	// One round against the replay ceiling of 5.
	if k.OverOrReplay != 0.2 {
		t.Errorf("OverOrReplay = %v", k.OverOrReplay)
	}

	// Q1 was answered correctly (key C), so practice signal must be present
	// on the point weighting question 1.
	found := false
	for _, ps := range k.Points {
		if ps.Practice > 0 {
			found = true
		}
	}
	if !found {
		t.Error("no point picked up the correct Q1 answer")
	}
}

func TestBuildRecordsEmpty(t *testing.T) {
	p := testPipeline(t)
	brecs, krecs := p.BuildRecords(nil)
	if len(brecs) != 0 || len(krecs) != 0 {
		t.Errorf("records = %d/%d", len(brecs), len(krecs))
	}
}

func TestExportWritesTables(t *testing.T) {
	p := testPipeline(t)
	res := &Result{Rows: testRows()}
	res.Behavior, res.Knowledge = p.BuildRecords(res.Rows)
	res.Profiles = behavior.Profile(res.Behavior, p.rules)

	if err := p.Export(res); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, name := range []string{
		"behavior.xlsx", "behavior.json",
		"class_profile.xlsx", "class_profile.json",
		"knowledge.xlsx", "knowledge.json",
		"ttests.xlsx", "clusters.xlsx",
		"stats.json", "cluster.json",
	} {
		if _, err := os.Stat(filepath.Join(p.cfg.OutDir, name)); err != nil {
			t.Errorf("missing export %s: %v", name, err)
		}
	}
}

func TestPersist(t *testing.T) {
	p := testPipeline(t)
	res := &Result{Rows: testRows()}
	res.Behavior, res.Knowledge = p.BuildRecords(res.Rows)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	run, err := p.Persist(ctx, s, res)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if run.Students != 1 {
		t.Errorf("run = %+v", run)
	}

	latest, err := s.LatestRun(ctx)
	if err != nil || latest == nil || latest.ID != run.ID {
		t.Fatalf("latest = %+v, err %v", latest, err)
	}
	recs, err := s.BehaviorRecords(ctx, run.ID)
	if err != nil || len(recs) != 1 {
		t.Fatalf("behavior records = %d, err %v", len(recs), err)
	}
}

func TestNewRejectsBadOverrides(t *testing.T) {
	_, err := New(&config.Config{
		Questionnaire: "survey.xlsx",
		GameLog:       "gamelog.xlsx",
		DateClasses:   map[string]string{"2021-11-01": "6-1"},
		Rules:         filepath.Join(t.TempDir(), "missing.yaml"),
	})
	if err == nil {
		t.Fatal("expected error for missing rules file")
	}
}
