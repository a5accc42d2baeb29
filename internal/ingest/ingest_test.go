package ingest

import (
	"fmt"
	"testing"
)

func questionnaireHeader() []string {
	h := []string{"StuNum", "Sex", "preScore"}
	for i := 1; i <= itemCount; i++ {
		h = append(h, fmt.Sprintf("W4Q%d", i))
	}
	for i := 1; i <= itemCount; i++ {
		h = append(h, fmt.Sprintf("W5Q%d", i))
	}
	return h
}

func TestParseQuestionnaireSheet(t *testing.T) {
	rows := [][]string{questionnaireHeader()}
	student := []string{"12", "1", "55"}
	for i := 0; i < itemCount; i++ {
		student = append(student, "2") // postScore = 40
	}
	for i := 0; i < itemCount; i++ {
		student = append(student, "1") // p_postScore = 20
	}
	rows = append(rows, student, []string{"", "2", "60"}) // blank StuNum skipped

	out, err := parseQuestionnaireSheet("6-1", rows)
	if err != nil {
		t.Fatalf("parseQuestionnaireSheet: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	q := out[0]
	if q.Class != "6-1" || q.StuNum != "12" || q.Sex != 1 {
		t.Errorf("identity = %+v", q)
	}
	if q.PreScore != 55 || q.PostScore != 40 || q.PPostScore != 20 {
		t.Errorf("scores = %v/%v/%v, want 55/40/20", q.PreScore, q.PostScore, q.PPostScore)
	}
}

func TestParseQuestionnaireSheetMissingColumn(t *testing.T) {
	if _, err := parseQuestionnaireSheet("c", [][]string{{"StuNum", "Sex"}}); err == nil {
		t.Error("missing preScore column accepted")
	}
}

func gameHeader() []string {
	return []string{"insertTime", "StuNum", "TotalScore", "BehaviorSeqStr", "L1PW", "L2PW", "L3PW"}
}

func TestParseGameRowsMapsDates(t *testing.T) {
	mapping := map[string]string{"2024-04-18": "6-4", "2024-05-06": "6-2"}
	rows := [][]string{
		gameHeader(),
		{"2024/4/18 09:30:00", "5", "80", "L1I1:3", "abc", "", ""},
		{"2024/5/6", "5", "90", "L1I1:4", "", "xy", ""},
		{"2024/1/1", "9", "70", "L1I1:5", "", "", ""}, // unmapped date
	}
	records, unmapped, err := parseGameRows(rows, mapping)
	if err != nil {
		t.Fatalf("parseGameRows: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Class != "6-4" || records[1].Class != "6-2" {
		t.Errorf("classes = %q, %q", records[0].Class, records[1].Class)
	}
	if unmapped != 1 || records[2].Class != "" {
		t.Errorf("unmapped = %d, class = %q", unmapped, records[2].Class)
	}
	if records[0].Passwords[0] != "abc" || records[1].Passwords[1] != "xy" {
		t.Error("passwords not captured")
	}
}

func TestPivotNumbersRoundsInOrder(t *testing.T) {
	records := []GameRecord{
		{Class: "6-1", StuNum: "3", Score: 70, Sequence: "L1I1:1"},
		{Class: "6-1", StuNum: "4", Score: 50, Sequence: "L1I1:2"},
		{Class: "6-1", StuNum: "3", Score: 90, Sequence: "L1I1:3"},
		{Class: "6-1", StuNum: "3", Score: 60, Sequence: ""}, // played but no sequence logged
	}
	rows := Pivot(records)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	var stu3 StudentRow
	for _, r := range rows {
		if r.StuNum == "3" {
			stu3 = r
		}
	}
	if stu3.Rounds[0].Score != 70 || stu3.Rounds[1].Score != 90 || stu3.Rounds[2].Score != 60 {
		t.Errorf("round scores = %v/%v/%v", stu3.Rounds[0].Score, stu3.Rounds[1].Score, stu3.Rounds[2].Score)
	}
	// game_count counts rounds with sequence data only.
	if stu3.GameCount != 2 {
		t.Errorf("GameCount = %d, want 2", stu3.GameCount)
	}
	if want := (70.0 + 90 + 60) / 3; stu3.AvgGameScore != want {
		t.Errorf("AvgGameScore = %v, want %v", stu3.AvgGameScore, want)
	}
}

func TestPivotDropsExcessRounds(t *testing.T) {
	var records []GameRecord
	for i := 0; i < 8; i++ {
		records = append(records, GameRecord{Class: "c", StuNum: "1", Score: float64(i), Sequence: "L1I1:1"})
	}
	rows := Pivot(records)
	if len(rows) != 1 || rows[0].GameCount != 5 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestMergeLeftJoin(t *testing.T) {
	q := []QuestionnaireRow{
		{Class: "6-1", StuNum: "1", PreScore: 50, PostScore: 60},
		{Class: "6-1", StuNum: "2", PreScore: 40, PostScore: 45},
	}
	game := Pivot([]GameRecord{{Class: "6-1", StuNum: "1", Score: 80, Sequence: "L1I1:1"}})

	merged := Merge(q, game)
	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
	if merged[0].GameCount != 1 || merged[0].PreScore != 50 {
		t.Errorf("matched row = %+v", merged[0])
	}
	// Student without game data still present, with zeroed game fields.
	if merged[1].GameCount != 0 || merged[1].AvgGameScore != 0 {
		t.Errorf("unmatched row = %+v", merged[1])
	}
}

func TestClean(t *testing.T) {
	rows := []StudentRow{
		{StuNum: "1", PreScore: 50, PostScore: 60, GameCount: 1},
		{StuNum: "2", PreScore: 0, PostScore: 60, GameCount: 1},
		{StuNum: "3", PreScore: 50, PostScore: 0, GameCount: 1},
		{StuNum: "4", PreScore: 50, PostScore: 60, GameCount: 0},
	}
	out := Clean(rows)
	if len(out) != 1 || out[0].StuNum != "1" {
		t.Errorf("Clean kept %+v", out)
	}
}

func TestStudentRowPasswords(t *testing.T) {
	var row StudentRow
	row.Rounds[0].Passwords = [LevelCount]string{"a1", "", "c1"}
	row.Rounds[2].Passwords = [LevelCount]string{"a3", "b3", " "}

	got := row.Passwords()
	want := []string{"a1", "a3", "b3", "c1"}
	if len(got) != len(want) {
		t.Fatalf("Passwords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Passwords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
