package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yulin/playlens/internal/ui/theme"
)

// Filter wraps bubbles/textinput as an incremental list filter.
type Filter struct {
	Model textinput.Model
}

// NewFilter creates a filter input with the given placeholder.
func NewFilter(placeholder string) Filter {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 32
	ti.Focus()
	return Filter{Model: ti}
}

// Init returns the initial command.
func (f Filter) Init() tea.Cmd {
	return f.Model.Focus()
}

// Update handles messages.
func (f Filter) Update(msg tea.Msg) (Filter, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter line.
func (f Filter) View() string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  / ") + f.Model.View()
}

// Matches reports whether s contains the filter text, case-insensitively.
// An empty filter matches everything.
func (f Filter) Matches(s string) bool {
	q := strings.TrimSpace(f.Model.Value())
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}

// Value returns the current filter text.
func (f Filter) Value() string {
	return f.Model.Value()
}
