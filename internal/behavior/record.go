// Package behavior folds one student's game rounds into a flat behavioral
// profile: per-category and per-subcategory counts and durations, split into
// round-1 and all-round buckets, plus answer-accuracy summaries.
package behavior

import (
	"fmt"
	"math"

	"github.com/yulin/playlens/internal/answers"
	"github.com/yulin/playlens/internal/events"
)

// MaxRounds is the most game rounds a student can have on record.
const MaxRounds = 5

// Student is one student's raw input to aggregation: identity, questionnaire
// scores, and up to MaxRounds behavior-sequence strings. Empty sequence
// means the round was not played.
type Student struct {
	Class      string
	StuNum     string
	Sex        int
	PreScore   float64
	PostScore  float64
	PPostScore float64

	GameScores   [MaxRounds]float64
	AvgGameScore float64
	Sequences    [MaxRounds]string
}

// QADetail is the persisted round-1 summary for one question. Recorded is
// false when round 1 produced no quiz events for the student, which
// downstream scoring treats as "question never attempted".
type QADetail struct {
	Recorded            bool `json:"recorded"`
	Correct             bool `json:"correct"`
	Attempts            int  `json:"attempts"`
	AnswerTime          int  `json:"answer_time"`
	FeedbackProcessTime int  `json:"feedbackProcess_time"`
}

// AvgTally is a per-round average for one bucket, rounded to 2 decimals.
type AvgTally struct {
	Count    float64 `json:"count"`
	Duration float64 `json:"duration"`
}

// Record is one student's aggregated behavior profile. It is a derived,
// read-only projection: once built it holds no reference to the source data.
type Record struct {
	Class      string  `json:"Class"`
	StuNum     string  `json:"StuNum"`
	Sex        int     `json:"Sex"`
	PreScore   float64 `json:"preScore"`
	PostScore  float64 `json:"postScore"`
	PPostScore float64 `json:"p_postScore"`

	GameScores   [MaxRounds]float64 `json:"gameScores"`
	AvgGameScore float64            `json:"avg_gameScore"`
	GameCount    int                `json:"game_count"`

	Round1 TallySet `json:"round1"`
	Total  TallySet `json:"total"`

	AvgByCategory map[events.Category]AvgTally `json:"avg_categories"`
	AvgBySubJSON  map[string]AvgTally          `json:"avg_subcategories"`

	QARound1 [answers.QuestionCount]QADetail `json:"qa_details_round1"`

	InitialCorrectQ  int     `json:"initial_correct_q"`
	TotalCorrectQAvg float64 `json:"total_correct_q_avg"`
	AccuracyRateAvg  float64 `json:"accuracy_rate_avg"`
	ReplayCount      int     `json:"replay_count"`
}

// AvgSub returns the per-round average for one subcategory bucket.
func (r Record) AvgSub(cat events.Category, sub string) AvgTally {
	return r.AvgBySubJSON[subJSONKey(cat, sub)]
}

func subJSONKey(cat events.Category, sub string) string {
	return fmt.Sprintf("%s.%s", cat, sub)
}

// round2 rounds to 2 decimal places, matching the study's reporting
// convention.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
