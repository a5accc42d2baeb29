// Package export writes the analysis tables as spreadsheets and as JSON
// arrays for the dashboard. Column order is fixed and shared between both
// formats.
package export

import (
	"fmt"

	"github.com/yulin/playlens/internal/answers"
	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/events"
	"github.com/yulin/playlens/internal/knowledge"
)

// qaFields are the persisted per-question detail columns for round 1.
var qaFields = []string{"correct", "attempts", "answer_time", "feedbackProcess_time"}

// BehaviorHeader returns the behavior table's column names in export order:
// identity, every numeric column, then the round-1 question details.
func BehaviorHeader(rules *events.RuleTable) []string {
	header := []string{"Class", "StuNum", "Sex"}
	header = append(header, behavior.NumericColumns(rules)...)
	for q := 1; q <= answers.QuestionCount; q++ {
		for _, f := range qaFields {
			header = append(header, fmt.Sprintf("round1_Q%d_%s", q, f))
		}
	}
	return header
}

// BehaviorRow flattens one record in BehaviorHeader order.
func BehaviorRow(rec behavior.Record, rules *events.RuleTable) []any {
	row := []any{rec.Class, rec.StuNum, rec.Sex}
	for _, v := range rec.NumericValues(rules) {
		row = append(row, v)
	}
	for _, qa := range rec.QARound1 {
		row = append(row, qa.Correct, qa.Attempts, qa.AnswerTime, qa.FeedbackProcessTime)
	}
	return row
}

// ProfileHeader returns the class-profile table's columns: every numeric
// student column under a class_avg_ prefix.
func ProfileHeader(rules *events.RuleTable) []string {
	header := []string{"Class", "students"}
	for _, c := range behavior.NumericColumns(rules) {
		header = append(header, "class_avg_"+c)
	}
	return header
}

// ProfileRow flattens one class profile in ProfileHeader order.
func ProfileRow(p behavior.ClassProfile) []any {
	row := []any{p.Class, p.Students}
	for _, v := range p.Means {
		row = append(row, v)
	}
	return row
}

// knowledgeFields are the per-point score columns, suffix order fixed.
var knowledgeFields = []string{"mastery", "read", "explore", "practice", "feedbackProcess_positive", "feedbackProcess_negative"}

// KnowledgeHeader returns the mastery table's columns. Point order follows
// the scoring config.
func KnowledgeHeader(cfg *knowledge.Config) []string {
	header := []string{
		"Class", "StuNum", "Sex", "preScore", "postScore", "p_postScore",
		"game_count", "avg_game_score", "OverORReplay_score",
	}
	for _, p := range cfg.Points {
		for _, f := range knowledgeFields {
			header = append(header, fmt.Sprintf("%s_%s", p.Name, f))
		}
	}
	return header
}

// KnowledgeRow flattens one mastery record in KnowledgeHeader order.
func KnowledgeRow(rec knowledge.Record, cfg *knowledge.Config) []any {
	row := []any{
		rec.Class, rec.StuNum, rec.Sex, rec.PreScore, rec.PostScore, rec.PPostScore,
		rec.GameCount, rec.AvgGameScore, rec.OverOrReplay,
	}
	for _, p := range cfg.Points {
		ps := rec.Points[p.Name]
		row = append(row, ps.Mastery, ps.Read, ps.Explore, ps.Practice, ps.FeedbackPositive, ps.FeedbackNegative)
	}
	return row
}
