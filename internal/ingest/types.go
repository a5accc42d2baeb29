// Package ingest reads the study's source workbooks and reshapes them into
// one wide row per student: questionnaire scores joined with up to five game
// rounds of scores, behavior sequences and level passwords.
package ingest

import (
	"strings"

	"github.com/yulin/playlens/internal/behavior"
)

// LevelCount is the number of password-protected game levels.
const LevelCount = 3

// Round is one game playthrough's raw data.
type Round struct {
	Score     float64
	HasScore  bool
	Sequence  string
	Passwords [LevelCount]string
}

// StudentRow is the merged wide row for one student.
type StudentRow struct {
	Class      string
	StuNum     string
	Sex        int
	PreScore   float64
	PostScore  float64
	PPostScore float64

	Rounds       [behavior.MaxRounds]Round
	GameCount    int
	AvgGameScore float64
}

// Passwords returns every non-blank level password across all rounds, in
// level-then-round order.
func (r StudentRow) Passwords() []string {
	var out []string
	for lvl := 0; lvl < LevelCount; lvl++ {
		for _, rd := range r.Rounds {
			if pw := strings.TrimSpace(rd.Passwords[lvl]); pw != "" {
				out = append(out, pw)
			}
		}
	}
	return out
}

// Student converts the row into the aggregator's input shape.
func (r StudentRow) Student() behavior.Student {
	st := behavior.Student{
		Class:        r.Class,
		StuNum:       r.StuNum,
		Sex:          r.Sex,
		PreScore:     r.PreScore,
		PostScore:    r.PostScore,
		PPostScore:   r.PPostScore,
		AvgGameScore: r.AvgGameScore,
	}
	for i, rd := range r.Rounds {
		st.GameScores[i] = rd.Score
		st.Sequences[i] = rd.Sequence
	}
	return st
}
