package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yulin/playlens/internal/router"
	"github.com/yulin/playlens/internal/screen"
	"github.com/yulin/playlens/internal/ui/components"
	"github.com/yulin/playlens/internal/ui/theme"
)

// overviewScreen is the entry screen: per-class summary cards and a menu
// into the student list.
type overviewScreen struct {
	data *RunData
	menu components.Menu
}

var _ screen.Screen = (*overviewScreen)(nil)

func newOverviewScreen(data *RunData) *overviewScreen {
	items := []components.MenuItem{
		{
			Label:  "All students",
			Detail: fmt.Sprintf("%d", len(data.Behavior)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: newStudentsScreen(data, "")}
				}
			},
		},
	}
	for _, class := range data.Classes() {
		class := class
		items = append(items, components.MenuItem{
			Label:  "Class " + class,
			Detail: fmt.Sprintf("%d", len(data.StudentsIn(class))),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: newStudentsScreen(data, class)}
				}
			},
		})
	}

	return &overviewScreen{data: data, menu: components.NewMenu(items)}
}

func (s *overviewScreen) Init() tea.Cmd {
	return nil
}

func (s *overviewScreen) Title() string {
	return "Overview"
}

func (s *overviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *overviewScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Title.Render("Gameplay Analysis")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Subtitle.Render(fmt.Sprintf("run %s", shortID(s.data.Run.ID)))))
	b.WriteString("\n\n")

	stats := s.summaryLine()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(stats)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

// summaryLine condenses the run into one line of headline numbers.
func (s *overviewScreen) summaryLine() string {
	var pre, post, mastery float64
	n := len(s.data.Behavior)
	if n == 0 {
		return "No students in this run"
	}
	for _, rec := range s.data.Behavior {
		pre += rec.PreScore
		post += rec.PostScore
	}
	var masteryN int
	for _, rec := range s.data.Knowledge {
		for _, ps := range rec.Points {
			mastery += ps.Mastery
			masteryN++
		}
	}
	avgMastery := 0.0
	if masteryN > 0 {
		avgMastery = mastery / float64(masteryN)
	}
	return fmt.Sprintf("Students: %d        Pre: %.1f        Post: %.1f        Mastery: %.2f",
		n, pre/float64(n), post/float64(n), avgMastery)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
