// Package themepicker provides the theme selection overlay. Choosing a theme
// applies it immediately and persists the choice to the config file.
package themepicker

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/config"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// ClosedMsg is sent when the picker is dismissed.
type ClosedMsg struct{}

// AppliedMsg is sent after a theme has been applied, so views can drop
// cached styling.
type AppliedMsg struct {
	Name string
}

// Model is the theme picker overlay.
type Model struct {
	manager *styles.Manager
	cfg     *config.Config
	names   []string
	cursor  int

	width  int
	height int
}

// New creates the picker over the given theme manager.
func New(manager *styles.Manager, cfg *config.Config) *Model {
	m := &Model{manager: manager, cfg: cfg}
	m.reload()
	return m
}

func (m *Model) reload() {
	m.names = m.manager.Names()
	current := m.manager.Current().Name
	for i, n := range m.names {
		if n == current {
			m.cursor = i
			break
		}
	}
}

// Open refreshes the picker for display.
func (m *Model) Open() {
	m.reload()
}

// SetSize sets the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles picker input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, util.CmdHandler(ClosedMsg{})

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}

	case "enter":
		name := m.names[m.cursor]
		if err := m.manager.SetTheme(name); err != nil {
			return m, util.ReportError(err)
		}
		if err := m.cfg.SetConfigField("theme", name); err != nil {
			debug.Error("themepicker", "persisting theme", err)
		}
		return m, tea.Batch(
			util.CmdHandler(AppliedMsg{Name: name}),
			util.CmdHandler(ClosedMsg{}),
		)
	}

	return m, nil
}

// View renders the picker centered on the screen.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	rows := make([]string, 0, len(m.names)+3)
	rows = append(rows, t.S().Title.Render(" Theme "), "")

	current := m.manager.Current().Name
	for i, name := range m.names {
		label := name
		if name == current {
			label += " (active)"
		}
		if i == m.cursor {
			rows = append(rows, t.S().Primary.Bold(true).Render(styles.Selected+" "+label))
		} else {
			rows = append(rows, t.S().Text.Render("  "+label))
		}
	}

	rows = append(rows, "", t.S().Muted.Render("enter apply · esc close"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
