package events

import "testing"

func TestClassify(t *testing.T) {
	table := DefaultRuleTable()

	tests := []struct {
		code    string
		wantCat Category
		wantSub string
	}{
		{"L1I1", CategoryRead, "knowledge"},
		{"L1I6", CategoryRead, "knowledge"},
		{"L1I7", CategoryRead, "knowledge"},
		{"L2I1", CategoryRead, "knowledge"},
		{"L2I3", CategoryRead, "knowledge"},
		{"L1I2", CategoryRead, "rules"},
		{"L1I5", CategoryRead, "rules"},
		{"L2I2", CategoryRead, "rules"},
		{"L3I1", CategoryRead, "rules"},
		{"L4I1", CategoryRead, "rules"},
		{"L2RT", CategoryRead, "return"},
		{"L1J12", CategoryExplore, "move"},
		{"L3G4", CategoryExplore, "move"},
		{"PW>abc123", CategoryExplore, "positive"},
		{"L2S3", CategoryExplore, "positive"},
		{"L1F2", CategoryExplore, "positive"},
		{"BadP", CategoryExplore, "negative"},
		{"L2H7", CategoryExplore, "negative"},
		{"L4Q1A", CategoryPractice, "choice"},
		{"L4Q5D", CategoryPractice, "choice"},
		{"L4Q3Sub", CategoryPractice, "sub"},
		{"L4Q2FB", CategoryFeedback, "positive"},
		{"L3EP", CategoryFeedback, "sumAssessment"},
		{"L4End", CategoryFeedback, "sumAssessment"},
		{"L3Replay", CategoryReplayEnd, "part_replay"},
		{"whatever", CategoryUnknown, UnclassifiedSubcategory},
		{"", CategoryUnknown, UnclassifiedSubcategory},
	}

	for _, tt := range tests {
		cat, sub := table.Classify(tt.code)
		if cat != tt.wantCat || sub != tt.wantSub {
			t.Errorf("Classify(%q) = (%s, %s), want (%s, %s)", tt.code, cat, sub, tt.wantCat, tt.wantSub)
		}
	}
}

// The feedback positive and negative rules share the L\dQ\dFB pattern; the
// positive rule wins because it comes first. Table order is behavior, so
// this case is pinned.
func TestClassifyOverlappingFeedbackOrder(t *testing.T) {
	table := DefaultRuleTable()
	cat, sub := table.Classify("L4Q1FB")
	if cat != CategoryFeedback || sub != "positive" {
		t.Errorf("Classify(L4Q1FB) = (%s, %s), want (feedback, positive)", cat, sub)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	table := DefaultRuleTable()
	for i := 0; i < 3; i++ {
		cat, sub := table.Classify("L4Q1A")
		if cat != CategoryPractice || sub != "choice" {
			t.Fatalf("run %d: Classify(L4Q1A) = (%s, %s)", i, cat, sub)
		}
	}
}

func TestRuleTableOrdering(t *testing.T) {
	table := DefaultRuleTable()

	wantCats := []Category{CategoryRead, CategoryExplore, CategoryPractice, CategoryFeedback, CategoryReplayEnd}
	cats := table.Categories()
	if len(cats) != len(wantCats) {
		t.Fatalf("Categories() = %v, want %v", cats, wantCats)
	}
	for i := range cats {
		if cats[i] != wantCats[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, cats[i], wantCats[i])
		}
	}

	wantSubs := []string{"move", "positive", "negative"}
	subs := table.Subcategories(CategoryExplore)
	if len(subs) != len(wantSubs) {
		t.Fatalf("Subcategories(explore) = %v, want %v", subs, wantSubs)
	}
	for i := range subs {
		if subs[i] != wantSubs[i] {
			t.Errorf("Subcategories(explore)[%d] = %s, want %s", i, subs[i], wantSubs[i])
		}
	}
}

func TestNewRuleTableRejectsBadSpecs(t *testing.T) {
	if _, err := NewRuleTable([]RuleSpec{{Category: "nope", Subcategory: "x"}}); err == nil {
		t.Error("unknown category accepted")
	}
	if _, err := NewRuleTable([]RuleSpec{{Category: "read", Subcategory: ""}}); err == nil {
		t.Error("empty subcategory accepted")
	}
	if _, err := NewRuleTable([]RuleSpec{{Category: "read", Subcategory: "x", Patterns: []string{"("}}}); err == nil {
		t.Error("invalid pattern accepted")
	}
}
