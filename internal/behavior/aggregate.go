package behavior

import (
	"strings"

	"github.com/yulin/playlens/internal/answers"
	"github.com/yulin/playlens/internal/events"
)

// Aggregator builds student behavior records from raw round sequences. The
// rule table and answer key are fixed at construction and never mutated, so
// one Aggregator is safe to share across per-student worker goroutines.
type Aggregator struct {
	rules  *events.RuleTable
	parser *events.Parser
	key    answers.Key
}

// NewAggregator creates an aggregator over the given classification rules
// and answer key.
func NewAggregator(rules *events.RuleTable, key answers.Key) *Aggregator {
	return &Aggregator{
		rules:  rules,
		parser: events.NewParser(rules),
		key:    key,
	}
}

// Parser exposes the aggregator's sequence parser for callers that need the
// raw event stream (knowledge scoring reuses it).
func (a *Aggregator) Parser() *events.Parser {
	return a.parser
}

// Aggregate folds one student's rounds into a Record. A student with no
// playable rounds still yields a fully zeroed record; filtering invalid rows
// is a later, explicit step.
func (a *Aggregator) Aggregate(st Student) Record {
	rec := Record{
		Class:         st.Class,
		StuNum:        st.StuNum,
		Sex:           st.Sex,
		PreScore:      st.PreScore,
		PostScore:     st.PostScore,
		PPostScore:    st.PPostScore,
		GameScores:    st.GameScores,
		AvgGameScore:  st.AvgGameScore,
		Round1:        NewTallySet(a.rules),
		Total:         NewTallySet(a.rules),
		AvgByCategory: make(map[events.Category]AvgTally),
		AvgBySubJSON:  make(map[string]AvgTally),
	}

	var correctPerGame []int

	for round := 1; round <= MaxRounds; round++ {
		seq := st.Sequences[round-1]
		if strings.TrimSpace(seq) == "" {
			continue // round not played
		}
		rec.GameCount++

		evts := a.parser.Parse(seq, round)

		quizEvents := make([]events.ClassifiedEvent, 0, len(evts))
		for _, e := range evts {
			if strings.HasPrefix(e.Code, "L4") {
				quizEvents = append(quizEvents, e)
			}
		}

		correctInGame := 0
		for q := 1; q <= answers.QuestionCount; q++ {
			stQ := answers.Reconstruct(quizEvents, q, a.key)
			if round == 1 && len(quizEvents) > 0 {
				rec.QARound1[q-1] = QADetail{
					Recorded:            true,
					Correct:             stQ.Correct,
					Attempts:            stQ.Attempts,
					AnswerTime:          stQ.AnswerTime,
					FeedbackProcessTime: stQ.FeedbackProcessTime,
				}
			}
			if stQ.Correct {
				correctInGame++
			}
		}
		correctPerGame = append(correctPerGame, correctInGame)

		for _, e := range evts {
			rec.Total.Add(e)
			if e.Round == 1 {
				rec.Round1.Add(e)
			}
		}
	}

	if len(correctPerGame) > 0 {
		rec.InitialCorrectQ = correctPerGame[0]
		sum := 0
		for _, c := range correctPerGame {
			sum += c
		}
		rec.TotalCorrectQAvg = round2(float64(sum) / float64(len(correctPerGame)))
		rec.AccuracyRateAvg = round2(rec.TotalCorrectQAvg / float64(answers.QuestionCount) * 100)
	}

	a.fillAverages(&rec)

	// Rounds played doubles as the replay indicator.
	rec.ReplayCount = rec.GameCount

	return rec
}

// fillAverages derives per-round averages from the all-round totals.
// game_count == 0 leaves every average at 0 rather than dividing.
func (a *Aggregator) fillAverages(rec *Record) {
	for _, cat := range a.rules.Categories() {
		avg := AvgTally{}
		if rec.GameCount > 0 {
			t := rec.Total.Category(cat)
			avg.Count = round2(float64(t.Count) / float64(rec.GameCount))
			avg.Duration = round2(float64(t.Duration) / float64(rec.GameCount))
		}
		rec.AvgByCategory[cat] = avg

		for _, sub := range a.rules.Subcategories(cat) {
			savg := AvgTally{}
			if rec.GameCount > 0 {
				t := rec.Total.Sub(cat, sub)
				savg.Count = round2(float64(t.Count) / float64(rec.GameCount))
				savg.Duration = round2(float64(t.Duration) / float64(rec.GameCount))
			}
			rec.AvgBySubJSON[subJSONKey(cat, sub)] = savg
		}
	}
}
