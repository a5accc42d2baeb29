package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yulin/playlens/internal/router"
	"github.com/yulin/playlens/internal/screen"
	"github.com/yulin/playlens/internal/ui/components"
	"github.com/yulin/playlens/internal/ui/layout"
	"github.com/yulin/playlens/internal/ui/theme"
)

// studentsScreen lists students of one class (or all), filterable by
// typing.
type studentsScreen struct {
	data     *RunData
	class    string
	filter   components.Filter
	selected int
}

var _ screen.Screen = (*studentsScreen)(nil)
var _ screen.KeyHintProvider = (*studentsScreen)(nil)

func newStudentsScreen(data *RunData, class string) *studentsScreen {
	return &studentsScreen{
		data:   data,
		class:  class,
		filter: components.NewFilter("class or number"),
	}
}

func (s *studentsScreen) Init() tea.Cmd {
	return s.filter.Init()
}

func (s *studentsScreen) Title() string {
	if s.class == "" {
		return "Students"
	}
	return "Class " + s.class
}

func (s *studentsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Type", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Detail"},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the behavior indices passing the filter.
func (s *studentsScreen) visible() []int {
	var out []int
	for _, i := range s.data.StudentsIn(s.class) {
		rec := s.data.Behavior[i]
		if s.filter.Matches(rec.Class + " " + rec.StuNum) {
			out = append(out, i)
		}
	}
	return out
}

func (s *studentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			vis := s.visible()
			if s.selected < len(vis) {
				idx := vis[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: newDetailScreen(s.data, idx)}
				}
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	vis := s.visible()
	if s.selected >= len(vis) {
		s.selected = len(vis) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	return s, cmd
}

func (s *studentsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.filter.View())
	b.WriteString("\n\n")

	vis := s.visible()
	if len(vis) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("No students match")))
		return b.String()
	}

	headerLine := fmt.Sprintf("    %-8s %-8s %8s %8s %8s %8s", "Class", "StuNum", "Pre", "Post", "Games", "Correct")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(headerLine))
	b.WriteString("\n")

	// Keep the selection on screen when the list outgrows the viewport.
	rows := height - 5
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	for vi := start; vi < len(vis) && vi < start+rows; vi++ {
		rec := s.data.Behavior[vis[vi]]
		line := fmt.Sprintf("%-8s %-8s %8.1f %8.1f %8d %8d",
			rec.Class, rec.StuNum, rec.PreScore, rec.PostScore, rec.GameCount, rec.InitialCorrectQ)

		if vi == s.selected {
			b.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("    " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
