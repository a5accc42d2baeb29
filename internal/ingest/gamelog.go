package ingest

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yulin/playlens/internal/behavior"
)

// GameRecord is one row of the game log: one playthrough by one student.
type GameRecord struct {
	Date      string // yyyy-mm-dd session date
	Class     string // resolved via the date→class mapping
	StuNum    string
	Score     float64
	Sequence  string
	Passwords [LevelCount]string
}

// dateLayouts accepted for the insertTime column. The export tool has
// changed format between study waves.
var dateLayouts = []string{
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
}

// ReadGameLog loads the game workbook's first sheet. Sessions ran one class
// per day, so dateToClass maps session date (yyyy-mm-dd) to the class name;
// rows with unmapped dates are kept with an empty Class and counted in the
// returned warning total.
func ReadGameLog(path string, dateToClass map[string]string) ([]GameRecord, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open game workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("game workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("sheet %s: %w", sheets[0], err)
	}

	records, unmapped, err := parseGameRows(rows, dateToClass)
	if err != nil {
		return nil, 0, err
	}
	if unmapped > 0 {
		slog.Warn("game rows with unmapped session dates", "count", unmapped)
	}
	slog.Info("game log loaded", "path", path, "rows", len(records))
	return records, unmapped, nil
}

func parseGameRows(rows [][]string, dateToClass map[string]string) ([]GameRecord, int, error) {
	if len(rows) == 0 {
		return nil, 0, nil
	}

	col := make(map[string]int)
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"insertTime", "StuNum", "TotalScore", "BehaviorSeqStr"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("game log missing column %q", required)
		}
	}
	pwCols := [LevelCount]int{-1, -1, -1}
	for lvl := 0; lvl < LevelCount; lvl++ {
		if idx, ok := col[fmt.Sprintf("L%dPW", lvl+1)]; ok {
			pwCols[lvl] = idx
		}
	}

	var out []GameRecord
	unmapped := 0
	for _, row := range rows[1:] {
		stuNum := cell(row, col["StuNum"])
		if stuNum == "" {
			continue
		}
		rec := GameRecord{
			StuNum:   stuNum,
			Score:    cellFloat(row, col["TotalScore"]),
			Sequence: cell(row, col["BehaviorSeqStr"]),
		}
		for lvl, idx := range pwCols {
			if idx >= 0 {
				rec.Passwords[lvl] = cell(row, idx)
			}
		}
		if d, ok := parseDate(cell(row, col["insertTime"])); ok {
			rec.Date = d
			rec.Class = dateToClass[d]
		}
		if rec.Class == "" {
			unmapped++
		}
		out = append(out, rec)
	}
	return out, unmapped, nil
}

func parseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Pivot reshapes the per-playthrough records into one wide row per
// (Class, StuNum), numbering each student's rounds in encounter order.
// Rounds past the fifth are dropped. Rows with an empty Class are skipped:
// they cannot be joined to a questionnaire row.
func Pivot(records []GameRecord) []StudentRow {
	type key struct{ class, stuNum string }

	index := make(map[key]int)
	var out []StudentRow
	for _, rec := range records {
		if rec.Class == "" {
			continue
		}
		k := key{rec.Class, rec.StuNum}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, StudentRow{Class: rec.Class, StuNum: rec.StuNum})
		}

		row := &out[i]
		round := nextRound(row)
		if round >= behavior.MaxRounds {
			continue
		}
		row.Rounds[round] = Round{
			Score:     rec.Score,
			HasScore:  true,
			Sequence:  rec.Sequence,
			Passwords: rec.Passwords,
		}
	}

	for i := range out {
		finishRow(&out[i])
	}
	return out
}

// nextRound returns the first unused round slot.
func nextRound(row *StudentRow) int {
	for i, r := range row.Rounds {
		if !r.HasScore && r.Sequence == "" {
			return i
		}
	}
	return behavior.MaxRounds
}

// finishRow derives game_count (rounds with sequence data) and the mean
// game score over recorded rounds.
func finishRow(row *StudentRow) {
	sum, scored := 0.0, 0
	for _, r := range row.Rounds {
		if strings.TrimSpace(r.Sequence) != "" {
			row.GameCount++
		}
		if r.HasScore {
			sum += r.Score
			scored++
		}
	}
	if scored > 0 {
		row.AvgGameScore = sum / float64(scored)
	}
}
