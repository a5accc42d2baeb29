package dashboard

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/knowledge"
	"github.com/yulin/playlens/internal/store"
)

func seededData(t *testing.T) *RunData {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	run := store.NewRun("survey.xlsx", "gamelog.xlsx")
	run.Students = 3
	brecs := []behavior.Record{
		{Class: "6-1", StuNum: "1", PreScore: 40, PostScore: 50, GameCount: 2},
		{Class: "6-1", StuNum: "2", PreScore: 42, PostScore: 48, GameCount: 1},
		{Class: "6-2", StuNum: "1", PreScore: 44, PostScore: 52, GameCount: 3},
	}
	krecs := []knowledge.Record{
		{Class: "6-1", StuNum: "1", Points: map[string]knowledge.PointScores{"passwordFunction": {Mastery: 0.7}}},
		{Class: "6-1", StuNum: "2", Points: map[string]knowledge.PointScores{"passwordFunction": {Mastery: 0.3}}},
		{Class: "6-2", StuNum: "1", Points: map[string]knowledge.PointScores{"passwordFunction": {Mastery: 0.9}}},
	}
	if err := s.SaveRun(context.Background(), run, brecs, krecs); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	data, err := Load(context.Background(), s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return data
}

func TestLoadEmptyStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, err := Load(context.Background(), s); err == nil {
		t.Fatal("expected error for empty store")
	}
}

func TestRunData(t *testing.T) {
	data := seededData(t)

	classes := data.Classes()
	if len(classes) != 2 || classes[0] != "6-1" || classes[1] != "6-2" {
		t.Errorf("classes = %v", classes)
	}

	if got := data.StudentsIn("6-1"); len(got) != 2 {
		t.Errorf("students in 6-1 = %v", got)
	}
	if got := data.StudentsIn(""); len(got) != 3 {
		t.Errorf("all students = %v", got)
	}

	krec := data.KnowledgeFor("6-2", "1")
	if krec == nil || krec.Points["passwordFunction"].Mastery != 0.9 {
		t.Errorf("knowledge for 6-2/1 = %+v", krec)
	}
	if data.KnowledgeFor("6-9", "1") != nil {
		t.Error("expected nil for unknown student")
	}
}

func TestOverviewView(t *testing.T) {
	data := seededData(t)
	s := newOverviewScreen(data)

	out := s.View(100, 30)
	if !strings.Contains(out, "All students") {
		t.Error("overview missing all-students entry")
	}
	if !strings.Contains(out, "Class 6-1") || !strings.Contains(out, "Class 6-2") {
		t.Errorf("overview missing class entries:\n%s", out)
	}
	if !strings.Contains(out, "Students: 3") {
		t.Error("overview missing headline numbers")
	}
}

func TestStudentsFilter(t *testing.T) {
	data := seededData(t)
	s := newStudentsScreen(data, "")

	if got := s.visible(); len(got) != 3 {
		t.Fatalf("visible = %d", len(got))
	}

	s.filter.Model.SetValue("6-2")
	if got := s.visible(); len(got) != 1 || data.Behavior[got[0]].Class != "6-2" {
		t.Errorf("filtered visible = %v", got)
	}

	out := s.View(100, 30)
	if !strings.Contains(out, "6-2") {
		t.Errorf("students view missing filtered row:\n%s", out)
	}
}

func TestDetailView(t *testing.T) {
	data := seededData(t)
	s := newDetailScreen(data, 0)

	if got := s.Title(); got != "Student 6-1 / 1" {
		t.Errorf("title = %q", got)
	}
	out := s.View(100, 40)
	for _, want := range []string{"Behavior", "First round quiz", "Mastery", "not attempted"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}
