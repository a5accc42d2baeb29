package events

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseEmptySequence(t *testing.T) {
	p := NewParser(DefaultRuleTable())
	for _, seq := range []string{"", "   ", "///", "/;;/"} {
		if got := p.Parse(seq, 1); len(got) != 0 {
			t.Errorf("Parse(%q) = %d events, want 0", seq, len(got))
		}
	}
}

func TestParseSortsAndAssignsDurations(t *testing.T) {
	p := NewParser(DefaultRuleTable())

	// Tokens deliberately out of timestamp order across levels.
	evts := p.Parse("/L1I1:5;L1J1:30/L2I1:12/", 2)
	if len(evts) != 3 {
		t.Fatalf("got %d events, want 3", len(evts))
	}

	wantCodes := []string{"L1I1", "L2I1", "L1J1"}
	wantTs := []int{5, 12, 30}
	wantDur := []int{5, 7, 18}
	for i, e := range evts {
		if e.Code != wantCodes[i] || e.Timestamp != wantTs[i] || e.Duration != wantDur[i] {
			t.Errorf("event %d = {%s %d dur=%d}, want {%s %d dur=%d}",
				i, e.Code, e.Timestamp, e.Duration, wantCodes[i], wantTs[i], wantDur[i])
		}
		if e.Round != 2 {
			t.Errorf("event %d round = %d, want 2", i, e.Round)
		}
	}
}

func TestParseDropsMalformedTokens(t *testing.T) {
	p := NewParser(DefaultRuleTable())

	evts := p.Parse("L1I1:10;nocolon;L1I2:abc;L1I3:20", 1)
	if len(evts) != 2 {
		t.Fatalf("got %d events, want 2", len(evts))
	}
	if evts[0].Code != "L1I1" || evts[1].Code != "L1I3" {
		t.Errorf("surviving codes = %s, %s", evts[0].Code, evts[1].Code)
	}
}

// A code containing an extra colon splits on the first one only, so the
// remainder fails integer parsing and the token is dropped whole.
func TestParseSplitsOnFirstColon(t *testing.T) {
	p := NewParser(DefaultRuleTable())
	if evts := p.Parse("L1I1:x:10", 1); len(evts) != 0 {
		t.Errorf("got %d events, want 0", len(evts))
	}
}

func TestParseReplayEndDurationIsOne(t *testing.T) {
	p := NewParser(DefaultRuleTable())
	evts := p.Parse("L1I1:10;L3Replay:400", 1)
	if len(evts) != 2 {
		t.Fatalf("got %d events, want 2", len(evts))
	}
	if evts[1].Category != CategoryReplayEnd || evts[1].Duration != 1 {
		t.Errorf("replay event = %s dur=%d, want replay_end dur=1", evts[1].Category, evts[1].Duration)
	}
}

func TestParseIdempotent(t *testing.T) {
	p := NewParser(DefaultRuleTable())
	seq := "/L1I1:5;L1J1:30/L4Q1A:40;L4Q1Sub:45/"
	a := p.Parse(seq, 1)
	b := p.Parse(seq, 1)
	if !reflect.DeepEqual(a, b) {
		t.Error("Parse is not deterministic for identical input")
	}
}

func TestParseNonDecreasingTimestamps(t *testing.T) {
	p := NewParser(DefaultRuleTable())
	evts := p.Parse("/L1G2:9;L1I1:3;BadP:9;L1J5:1/", 1)
	for i := 1; i < len(evts); i++ {
		if evts[i].Timestamp < evts[i-1].Timestamp {
			t.Fatalf("timestamps decrease at %d: %d < %d", i, evts[i].Timestamp, evts[i-1].Timestamp)
		}
	}
	// Ties keep insertion order (stable sort).
	if evts[2].Code != "L1G2" || evts[3].Code != "BadP" {
		t.Errorf("tie order = %s, %s; want L1G2, BadP", evts[2].Code, evts[3].Code)
	}
}

func TestLoadRuleTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `rules:
  - category: read
    subcategory: knowledge
    patterns: ["L1I1"]
  - category: explore
    subcategory: move
    patterns: ['L\dJ\d+']
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadRuleTable(path)
	if err != nil {
		t.Fatalf("LoadRuleTable: %v", err)
	}
	if cat, sub := table.Classify("L1J3"); cat != CategoryExplore || sub != "move" {
		t.Errorf("Classify(L1J3) = (%s, %s), want (explore, move)", cat, sub)
	}
	if cat, _ := table.Classify("L4Q1A"); cat != CategoryUnknown {
		t.Errorf("code outside custom table classified as %s, want unknown", cat)
	}
}

func TestLoadRuleTableErrors(t *testing.T) {
	if _, err := LoadRuleTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRuleTable(empty); err == nil {
		t.Error("empty rules file accepted")
	}
}
