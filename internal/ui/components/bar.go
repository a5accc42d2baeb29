package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/yulin/playlens/internal/ui/theme"
)

// ScoreBar displays a horizontal bar for a normalized score in [0,1],
// colored by how good the score is.
type ScoreBar struct {
	Label     string
	Score     float64
	ShowValue bool
	Width     int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score float64, showValue bool, width int) ScoreBar {
	return ScoreBar{
		Label:     label,
		Score:     score,
		ShowValue: showValue,
		Width:     width,
	}
}

// View renders the bar.
func (b ScoreBar) View() string {
	var result string

	if b.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	valueWidth := 0
	if b.ShowValue {
		valueWidth = 7 // "  0.00"
	}

	barWidth := b.Width - labelWidth - valueWidth
	if barWidth < 4 {
		barWidth = 4
	}

	score := b.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	filled := int(float64(barWidth) * score)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(theme.ScoreColor(score)).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if b.ShowValue {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %.2f", b.Score))
	}

	return result
}
