package ingest

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// QuestionnaireRow is one student's questionnaire scores. Class is the name
// of the sheet the row came from.
type QuestionnaireRow struct {
	Class      string
	StuNum     string
	Sex        int
	PreScore   float64
	PostScore  float64
	PPostScore float64
}

// Post-test and delayed post-test items; the scores are row sums over these
// column ranges.
const (
	postItemPrefix  = "W4Q"
	pPostItemPrefix = "W5Q"
	itemCount       = 20
)

// ReadQuestionnaire loads every sheet of the questionnaire workbook. Each
// sheet holds one class; the sheet name becomes the Class key.
func ReadQuestionnaire(path string) ([]QuestionnaireRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open questionnaire workbook: %w", err)
	}
	defer f.Close()

	var out []QuestionnaireRow
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		parsed, err := parseQuestionnaireSheet(sheet, rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		out = append(out, parsed...)
	}
	slog.Info("questionnaire loaded", "path", path, "students", len(out))
	return out, nil
}

// parseQuestionnaireSheet reads one class sheet: a header row followed by
// one row per student.
func parseQuestionnaireSheet(class string, rows [][]string) ([]QuestionnaireRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int)
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"StuNum", "Sex", "preScore"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []QuestionnaireRow
	for _, row := range rows[1:] {
		stuNum := cell(row, col["StuNum"])
		if stuNum == "" {
			continue
		}
		q := QuestionnaireRow{
			Class:      class,
			StuNum:     stuNum,
			Sex:        int(cellFloat(row, col["Sex"])),
			PreScore:   cellFloat(row, col["preScore"]),
			PostScore:  sumItems(row, col, postItemPrefix),
			PPostScore: sumItems(row, col, pPostItemPrefix),
		}
		out = append(out, q)
	}
	return out, nil
}

// sumItems adds up the item columns with the given prefix (e.g. W4Q1..W4Q20).
// Absent or blank items contribute 0.
func sumItems(row []string, col map[string]int, prefix string) float64 {
	sum := 0.0
	for i := 1; i <= itemCount; i++ {
		if idx, ok := col[fmt.Sprintf("%s%d", prefix, i)]; ok {
			sum += cellFloat(row, idx)
		}
	}
	return sum
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellFloat(row []string, idx int) float64 {
	v, err := strconv.ParseFloat(cell(row, idx), 64)
	if err != nil {
		return 0
	}
	return v
}
