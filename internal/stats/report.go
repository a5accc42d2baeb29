package stats

import (
	"log/slog"

	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/events"
)

// Report is the output of one statistics pass over the behavior table.
type Report struct {
	Descriptives []Descriptive `json:"descriptives"`
	SexTests     []TTestResult `json:"sex_tests"`
	TercileTests []TTestResult `json:"tercile_tests"`
}

// sexLabel maps the questionnaire coding to a readable group name.
func sexLabel(sex int) string {
	switch sex {
	case 1:
		return "male"
	case 2:
		return "female"
	default:
		return "unknown"
	}
}

// Analyze computes per-group descriptives and between-group Welch t-tests for
// every numeric behavior feature. Groups are sex (male vs female) and
// postScore terciles (low vs high).
func Analyze(records []behavior.Record, rules *events.RuleTable) Report {
	var rep Report
	if len(records) == 0 {
		return rep
	}

	cols := behavior.NumericColumns(rules)
	matrix := make([][]float64, len(records))
	post := make([]float64, len(records))
	for i, rec := range records {
		matrix[i] = rec.NumericValues(rules)
		post[i] = rec.PostScore
	}

	bySex := map[string][]int{}
	for i, rec := range records {
		label := sexLabel(rec.Sex)
		bySex[label] = append(bySex[label], i)
	}
	terciles := SplitTerciles(post)

	column := func(rows []int, col int) []float64 {
		out := make([]float64, 0, len(rows))
		for _, r := range rows {
			out = append(out, matrix[r][col])
		}
		return out
	}

	for c, name := range cols {
		for _, label := range []string{"male", "female"} {
			rep.Descriptives = append(rep.Descriptives, Describe(name, label, column(bySex[label], c)))
		}
		for _, label := range []string{TercileLow, TercileMid, TercileHigh} {
			rep.Descriptives = append(rep.Descriptives, Describe(name, label, column(terciles[label], c)))
		}

		rep.SexTests = append(rep.SexTests,
			WelchT(name, "male", "female", column(bySex["male"], c), column(bySex["female"], c)))
		rep.TercileTests = append(rep.TercileTests,
			WelchT(name, TercileLow, TercileHigh, column(terciles[TercileLow], c), column(terciles[TercileHigh], c)))
	}

	slog.Info("statistics computed",
		"features", len(cols),
		"students", len(records),
		"significant_sex", countSignificant(rep.SexTests),
		"significant_tercile", countSignificant(rep.TercileTests))
	return rep
}

func countSignificant(tests []TTestResult) int {
	n := 0
	for _, t := range tests {
		if t.Significant {
			n++
		}
	}
	return n
}
