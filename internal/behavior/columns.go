package behavior

import (
	"fmt"

	"github.com/yulin/playlens/internal/events"
)

// NumericColumns returns the ordered names of every numeric field a Record
// exports. The order is fixed by the rule table and shared by the spreadsheet
// export, the class profile and the statistics module, so a name built here
// is built exactly once.
func NumericColumns(rules *events.RuleTable) []string {
	cols := []string{
		"preScore", "postScore", "p_postScore", "game_count",
	}
	for i := 1; i <= MaxRounds; i++ {
		cols = append(cols, fmt.Sprintf("gameScore_%d", i))
	}
	cols = append(cols, "avg_gameScore", "initial_correct_q", "total_correct_q_avg", "accuracy_rate_avg")

	for _, cat := range rules.Categories() {
		for _, prefix := range []string{"round1", "total"} {
			cols = append(cols,
				fmt.Sprintf("%s_%s_count", prefix, cat),
				fmt.Sprintf("%s_%s_duration", prefix, cat),
			)
		}
	}
	for _, cat := range rules.Categories() {
		for _, sub := range rules.Subcategories(cat) {
			for _, prefix := range []string{"round1", "total"} {
				cols = append(cols,
					fmt.Sprintf("%s_%s_%s_count", prefix, cat, sub),
					fmt.Sprintf("%s_%s_%s_duration", prefix, cat, sub),
				)
			}
		}
	}
	for _, cat := range rules.Categories() {
		cols = append(cols,
			fmt.Sprintf("avg_%s_count", cat),
			fmt.Sprintf("avg_%s_duration", cat),
		)
	}
	for _, cat := range rules.Categories() {
		for _, sub := range rules.Subcategories(cat) {
			cols = append(cols,
				fmt.Sprintf("avg_%s_%s_count", cat, sub),
				fmt.Sprintf("avg_%s_%s_duration", cat, sub),
			)
		}
	}
	cols = append(cols, "replay_count")
	return cols
}

// NumericValues returns the record's numeric fields in NumericColumns order.
func (r Record) NumericValues(rules *events.RuleTable) []float64 {
	vals := []float64{
		r.PreScore, r.PostScore, r.PPostScore, float64(r.GameCount),
	}
	for i := 0; i < MaxRounds; i++ {
		vals = append(vals, r.GameScores[i])
	}
	vals = append(vals, r.AvgGameScore, float64(r.InitialCorrectQ), r.TotalCorrectQAvg, r.AccuracyRateAvg)

	for _, cat := range rules.Categories() {
		for _, ts := range []TallySet{r.Round1, r.Total} {
			t := ts.Category(cat)
			vals = append(vals, float64(t.Count), float64(t.Duration))
		}
	}
	for _, cat := range rules.Categories() {
		for _, sub := range rules.Subcategories(cat) {
			for _, ts := range []TallySet{r.Round1, r.Total} {
				t := ts.Sub(cat, sub)
				vals = append(vals, float64(t.Count), float64(t.Duration))
			}
		}
	}
	for _, cat := range rules.Categories() {
		avg := r.AvgByCategory[cat]
		vals = append(vals, avg.Count, avg.Duration)
	}
	for _, cat := range rules.Categories() {
		for _, sub := range rules.Subcategories(cat) {
			avg := r.AvgSub(cat, sub)
			vals = append(vals, avg.Count, avg.Duration)
		}
	}
	vals = append(vals, float64(r.ReplayCount))
	return vals
}
