package ingest

import "log/slog"

// Merge left-joins questionnaire rows with the pivoted game data on
// (Class, StuNum). Every student with questionnaire data comes back, with
// zeroed game fields when no game rows matched.
func Merge(questionnaire []QuestionnaireRow, game []StudentRow) []StudentRow {
	type key struct{ class, stuNum string }

	byKey := make(map[key]StudentRow, len(game))
	for _, g := range game {
		byKey[key{g.Class, g.StuNum}] = g
	}

	out := make([]StudentRow, 0, len(questionnaire))
	matched := 0
	for _, q := range questionnaire {
		row := StudentRow{
			Class:      q.Class,
			StuNum:     q.StuNum,
			Sex:        q.Sex,
			PreScore:   q.PreScore,
			PostScore:  q.PostScore,
			PPostScore: q.PPostScore,
		}
		if g, ok := byKey[key{q.Class, q.StuNum}]; ok {
			row.Rounds = g.Rounds
			row.GameCount = g.GameCount
			row.AvgGameScore = g.AvgGameScore
			matched++
		}
		out = append(out, row)
	}
	slog.Info("questionnaire and game data merged", "students", len(out), "with_game_data", matched)
	return out
}

// Clean drops rows unusable for analysis: zero or missing pre/post score,
// or no recorded rounds. This is deliberately a separate step after Merge;
// the core always produces records for every student first.
func Clean(rows []StudentRow) []StudentRow {
	out := make([]StudentRow, 0, len(rows))
	for _, r := range rows {
		if r.PreScore == 0 || r.PostScore == 0 || r.GameCount == 0 {
			continue
		}
		out = append(out, r)
	}
	slog.Info("invalid rows removed", "kept", len(out), "removed", len(rows)-len(out))
	return out
}
