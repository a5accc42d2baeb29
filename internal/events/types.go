// Package events turns raw behavior-sequence strings from the game's event
// log into classified, time-ordered events. Event codes follow the game's
// logging grammar (e.g. "L4Q1A" = level 4, question 1, option A clicked).
package events

// Category is the top-level behavior class assigned to an event code.
type Category string

const (
	CategoryRead      Category = "read"
	CategoryExplore   Category = "explore"
	CategoryPractice  Category = "practice"
	CategoryFeedback  Category = "feedback"
	CategoryReplayEnd Category = "replay_end"
	CategoryUnknown   Category = "unknown"
)

// UnclassifiedSubcategory is the fallback subcategory for codes no rule
// matches. It is ordinary data, not an error.
const UnclassifiedSubcategory = "unclassified"

// RawEvent is one parsed token from a behavior sequence.
type RawEvent struct {
	Code      string
	Timestamp int
	Round     int
}

// ClassifiedEvent is a RawEvent with its behavior class and inferred duration.
//
// Duration is the gap to the previous event in timestamp order; the first
// event in a round carries its own timestamp as duration. Replay/end events
// are count-only signals and always carry duration 1.
type ClassifiedEvent struct {
	RawEvent
	Category    Category
	Subcategory string
	Duration    int
}
