package events

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Parser parses behavior-sequence strings against an immutable rule table.
type Parser struct {
	rules *RuleTable
}

// NewParser creates a parser over the given rule table.
func NewParser(rules *RuleTable) *Parser {
	return &Parser{rules: rules}
}

// Parse turns one round's behavior-sequence string into classified events
// sorted by timestamp, with durations assigned.
//
// The wire format is "level₁/level₂/..." where each level is
// "code:ts;code:ts;...". Malformed tokens (no colon, non-integer timestamp)
// are dropped silently: the logs are noisy and token-level damage is
// expected. An empty or blank sequence means the round was not played and
// yields an empty slice.
//
// A panic while parsing one sequence is recovered and logged; the round is
// then treated as having no events so the rest of the run continues.
func (p *Parser) Parse(sequence string, round int) (out []ClassifiedEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("behavior sequence parse failed", "round", round, "panic", r)
			out = nil
		}
	}()

	if strings.TrimSpace(sequence) == "" {
		return nil
	}

	var tokens []string
	for _, level := range strings.Split(strings.Trim(sequence, "/"), "/") {
		if strings.TrimSpace(level) == "" {
			continue
		}
		for _, tok := range strings.Split(level, ";") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}

	for _, tok := range tokens {
		code, tsStr, found := strings.Cut(tok, ":")
		if !found {
			continue
		}
		ts, err := strconv.Atoi(strings.TrimSpace(tsStr))
		if err != nil {
			continue
		}
		cat, sub := p.rules.Classify(code)
		out = append(out, ClassifiedEvent{
			RawEvent:    RawEvent{Code: code, Timestamp: ts, Round: round},
			Category:    cat,
			Subcategory: sub,
		})
	}

	// Tokens are not guaranteed to arrive time-ordered across levels.
	// Stable sort keeps insertion order for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})

	assignDurations(out)
	return out
}

// assignDurations fills in per-event durations over a timestamp-sorted slice.
// The first event's duration is its own timestamp (time since round start);
// later events get the non-negative gap to their predecessor. Replay/end
// events are count-only and always get duration 1.
func assignDurations(evts []ClassifiedEvent) {
	for i := range evts {
		switch {
		case evts[i].Category == CategoryReplayEnd:
			evts[i].Duration = 1
		case i == 0:
			evts[i].Duration = evts[i].Timestamp
		case evts[i].Timestamp >= evts[i-1].Timestamp:
			evts[i].Duration = evts[i].Timestamp - evts[i-1].Timestamp
		default:
			evts[i].Duration = 0
		}
	}
}
