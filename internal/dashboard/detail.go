package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yulin/playlens/internal/screen"
	"github.com/yulin/playlens/internal/ui/components"
	"github.com/yulin/playlens/internal/ui/layout"
	"github.com/yulin/playlens/internal/ui/theme"
)

// detailScreen shows one student's behavior tallies, round-1 quiz detail,
// and knowledge-point mastery bars.
type detailScreen struct {
	data *RunData
	idx  int
}

var _ screen.Screen = (*detailScreen)(nil)
var _ screen.KeyHintProvider = (*detailScreen)(nil)

func newDetailScreen(data *RunData, idx int) *detailScreen {
	return &detailScreen{data: data, idx: idx}
}

func (s *detailScreen) Init() tea.Cmd {
	return nil
}

func (s *detailScreen) Title() string {
	rec := s.data.Behavior[s.idx]
	return fmt.Sprintf("Student %s / %s", rec.Class, rec.StuNum)
}

func (s *detailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *detailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *detailScreen) View(width, height int) string {
	rec := s.data.Behavior[s.idx]
	var b strings.Builder
	b.WriteString("\n")

	scores := fmt.Sprintf("Pre: %.1f    Post: %.1f    Games: %d    Avg game score: %.1f",
		rec.PreScore, rec.PostScore, rec.GameCount, rec.AvgGameScore)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(scores)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Behavior")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	for _, cat := range s.data.Rules.Categories() {
		tally := rec.Total.Category(cat)
		line := fmt.Sprintf("  %-12s %4d events   %6d s", cat, tally.Count, tally.Duration)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("First round quiz")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	for q, qa := range rec.QARound1 {
		var verdict string
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case !qa.Recorded:
			verdict = "not attempted"
		case qa.Correct:
			verdict = "correct"
			style = theme.Good
		default:
			verdict = "incorrect"
			style = theme.Poor
		}
		line := fmt.Sprintf("  Q%d  %-13s %2d tries   %3d s", q+1, verdict, qa.Attempts, qa.AnswerTime)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if krec := s.data.KnowledgeFor(rec.Class, rec.StuNum); krec != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Mastery")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")

		barWidth := min(width-8, 60)
		for _, p := range s.data.Config.Points {
			ps := krec.Points[p.Name]
			bar := components.NewScoreBar(fmt.Sprintf("%-24s", p.Name), ps.Mastery, true, barWidth)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
			b.WriteString("\n")
		}
	}

	return b.String()
}
