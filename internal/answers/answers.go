// Package answers reconstructs per-question answering state for the level-4
// quiz from a round's classified event stream.
//
// The quiz UI uses toggle buttons, so the log only records clicks. The final
// selection for an option is recovered by click parity: an odd number of
// clicks means the option was selected at submission time.
package answers

import (
	"fmt"
	"slices"

	"github.com/yulin/playlens/internal/events"
)

// QuestionCount is the number of questions in the level-4 quiz.
const QuestionCount = 5

// options in click-code order; iteration order doubles as sort order.
var options = []string{"A", "B", "C", "D"}

// Key maps a question index (1-based) to its sorted correct option set.
// Both single- and multi-select questions are supported.
type Key map[int][]string

// DefaultKey returns the answer key for the password-security quiz.
func DefaultKey() Key {
	return Key{
		1: {"C"},
		2: {"A"},
		3: {"B", "C"},
		4: {"D"},
		5: {"A", "B", "C"},
	}
}

// State is the reconstructed interaction state for one question in one round.
// Zero values stand in for anything the event stream never showed.
type State struct {
	Attempts        int
	OptionsSelected []string
	Submitted       bool
	Correct         bool
	StartTime       *int
	SubmitTime      *int
	FeedbackTime    *int
	// AnswerTime is submit minus start, 0 if not submitted.
	AnswerTime int
	// FeedbackProcessTime is feedback minus submit, 0 if either is absent.
	FeedbackProcessTime int
}

// Reconstruct scans a round's events for everything belonging to the given
// question (1..QuestionCount) and rebuilds its answering state.
//
// Question 1 starts when the level-entry info event (L4I1) is shown; later
// questions start at the previous question's feedback event. If no start
// event exists, the first option click supplies the start time. Missing
// events never raise an error; the corresponding fields stay at defaults.
func Reconstruct(evts []events.ClassifiedEvent, question int, key Key) State {
	var st State

	startCode := "L4I1"
	if question > 1 {
		startCode = fmt.Sprintf("L4Q%dFB", question-1)
	}
	for _, e := range evts {
		if e.Code == startCode {
			ts := e.Timestamp
			st.StartTime = &ts
			break
		}
	}

	clickCode := make(map[string]string, len(options))
	for _, opt := range options {
		clickCode[fmt.Sprintf("L4Q%d%s", question, opt)] = opt
	}
	subCode := fmt.Sprintf("L4Q%dSub", question)
	fbCode := fmt.Sprintf("L4Q%dFB", question)

	clicks := make(map[string]int, len(options))
	for _, e := range evts {
		switch {
		case clickCode[e.Code] != "":
			st.Attempts++
			clicks[clickCode[e.Code]]++
			if st.StartTime == nil {
				ts := e.Timestamp
				st.StartTime = &ts
			}
		case e.Code == subCode:
			st.Submitted = true
			ts := e.Timestamp
			st.SubmitTime = &ts
		case e.Code == fbCode:
			ts := e.Timestamp
			st.FeedbackTime = &ts
		}
	}

	for _, opt := range options {
		if clicks[opt]%2 == 1 {
			st.OptionsSelected = append(st.OptionsSelected, opt)
		}
	}

	if st.Submitted && st.StartTime != nil {
		st.AnswerTime = *st.SubmitTime - *st.StartTime
	}
	if st.Submitted {
		st.Correct = slices.Equal(st.OptionsSelected, key[question])
	}
	if st.Submitted && st.FeedbackTime != nil {
		st.FeedbackProcessTime = *st.FeedbackTime - *st.SubmitTime
	}

	return st
}
