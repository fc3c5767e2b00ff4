// Package history provides the conversation history overlay: a searchable,
// filterable list of saved conversations.
package history

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// Modal is the history overlay: a bordered panel holding the list and an
// optional search box.
type Modal struct {
	list       *List
	search     textinput.Model
	searchMode bool

	width  int
	height int
}

// NewModal creates the history overlay.
func NewModal(svc *conversation.Service) *Modal {
	ti := textinput.New()
	ti.Placeholder = "Type to search titles and text..."
	ti.CharLimit = 100

	return &Modal{
		list:   NewList(svc),
		search: ti,
	}
}

// Open refreshes the list for display.
func (m *Modal) Open() {
	m.searchMode = false
	m.search.SetValue("")
	m.list.Search("")
}

// SetSize sets the overlay dimensions.
func (m *Modal) SetSize(width, height int) {
	m.width = width
	m.height = height

	listWidth := m.panelWidth() - 4
	listHeight := m.panelHeight() - 6
	m.list.SetSize(listWidth, listHeight)
	m.search.SetWidth(listWidth - 4)
}

func (m *Modal) panelWidth() int {
	w := m.width * 3 / 4
	if w < 40 {
		w = min(40, m.width)
	}
	return w
}

func (m *Modal) panelHeight() int {
	h := m.height * 3 / 4
	if h < 10 {
		h = min(10, m.height)
	}
	return h
}

// Update handles overlay input.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searchMode {
		switch keyMsg.String() {
		case "esc":
			m.searchMode = false
			m.search.SetValue("")
			m.list.Search("")
			return m, nil
		case "enter":
			m.searchMode = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.list.Search(m.search.Value())
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "esc":
		return m, util.CmdHandler(ClosedMsg{})
	case "/":
		m.searchMode = true
		return m, m.search.Focus()
	case "F":
		m.list.ToggleFavoritesFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the overlay centered on the screen.
func (m *Modal) View() string {
	t := styles.CurrentTheme()

	title := " Conversations "
	if m.list.FavoritesOnly() {
		title = " Conversations · favorites "
	}

	var header string
	if m.searchMode {
		header = m.search.View()
	} else {
		count := t.S().Muted.Render(fmt.Sprintf("%d conversation(s)", m.list.Count()))
		header = count
	}

	help := t.S().Muted.Render("enter open · n new · f favorite · F filter · d delete · / search · esc close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		t.S().Title.Render(title),
		header,
		"",
		m.list.View(),
		"",
		help,
	)

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(m.panelWidth()).
		Height(m.panelHeight()).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// Cursor returns the search cursor while searching.
func (m *Modal) Cursor() *tea.Cursor {
	if m.searchMode {
		return m.search.Cursor()
	}
	return nil
}
