// Package edit provides the image editing page: the session's base image,
// its edit history, the edit prompt, and on-demand image analysis.
package edit

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/bridge"
	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/orchestrator"
	"github.com/rbarros/gemsuite/internal/pubsub"
	"github.com/rbarros/gemsuite/internal/tui/components/imageview"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// Model is the editing page model.
type Model struct {
	orc   *orchestrator.Orchestrator
	input textinput.Model

	busy     bool
	lastErr  string
	analysis bool // analysis in flight

	width  int
	height int
}

// New creates the editing page.
func New(orc *orchestrator.Orchestrator) *Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the edit to apply..."
	ti.CharLimit = 2048
	ti.Focus()

	return &Model{orc: orc, input: ti}
}

// Init initializes the page.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// ApplyFailedMsg reports an edit command failure that produced no edit
// event, such as a persistence error after the API call succeeded.
type ApplyFailedMsg struct{ Err error }

// AnalyzeFailedMsg is the analysis counterpart of ApplyFailedMsg.
type AnalyzeFailedMsg struct{ Err error }

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case bridge.EditEventMsg:
		return m.handleEditEvent(msg.Event)

	case ApplyFailedMsg:
		m.busy = false
		m.lastErr = msg.Err.Error()
		return m, nil

	case AnalyzeFailedMsg:
		m.analysis = false
		m.lastErr = msg.Err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.applyEdit()

	case "ctrl+d":
		return m, m.analyze()

	case "ctrl+v":
		if imgs := m.sessionImages(); len(imgs) > 0 {
			// Open on the current (latest) image.
			return m, util.CmdHandler(imageview.OpenMsg{Images: imgs, Index: len(imgs) - 1})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sessionImages returns the base image followed by each edit in order.
func (m *Model) sessionImages() []conversation.Image {
	sess := m.orc.EditSession()
	if sess == nil {
		return nil
	}
	imgs := []conversation.Image{sess.BaseImage}
	for _, ev := range sess.History {
		imgs = append(imgs, ev.EditedImage)
	}
	return imgs
}

func (m *Model) applyEdit() tea.Cmd {
	if m.busy {
		return nil
	}
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" {
		return nil
	}

	m.busy = true
	m.lastErr = ""
	return func() tea.Msg {
		// Completion lands via the edit event stream; the error return also
		// covers failures that publish no event, like a failed persist.
		if err := m.orc.ApplyEdit(context.Background(), prompt); err != nil {
			return ApplyFailedMsg{Err: err}
		}
		return nil
	}
}

func (m *Model) analyze() tea.Cmd {
	if m.busy || m.analysis {
		return nil
	}
	m.analysis = true
	return func() tea.Msg {
		if err := m.orc.Analyze(context.Background()); err != nil {
			return AnalyzeFailedMsg{Err: err}
		}
		return nil
	}
}

func (m *Model) handleEditEvent(event pubsub.Event[events.EditEvent]) (util.Model, tea.Cmd) {
	switch event.Payload.Type {
	case events.EditEventSessionStarted:
		m.busy = false
		m.lastErr = ""
		m.input.SetValue("")

	case events.EditEventApplied:
		m.busy = false
		m.lastErr = ""
		m.input.SetValue("")

	case events.EditEventFailed:
		m.busy = false
		m.analysis = false
		m.lastErr = event.Payload.Error

	case events.EditEventAnalyzed:
		m.analysis = false
	}
	return m, nil
}

// View renders the editing page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	sess := m.orc.EditSession()
	if sess == nil {
		empty := t.S().Muted.Render("No editing session. Attach an image in chat (ctrl+o) and submit it without text.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	title := t.S().Title.Render("Image Editing")
	strip := m.renderHistoryStrip(sess)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(m.width - 4)
	m.input.SetWidth(m.width - 8)

	var statusLine string
	switch {
	case m.busy:
		statusLine = t.S().Info.Render("Applying edit...")
	case m.analysis:
		statusLine = t.S().Info.Render("Analyzing image...")
	case m.lastErr != "":
		statusLine = t.S().Error.Render(m.lastErr)
	default:
		statusLine = t.S().Muted.Render("enter apply edit · ctrl+d describe · ctrl+v view")
	}

	parts := []string{title, strip, inputStyle.Render(m.input.View()), statusLine}

	if sess.AnalysisResult != "" {
		analysisWidth := m.width - 4
		parts = append(parts, "",
			t.S().Subtitle.Render("Analysis"),
			t.S().Text.Width(analysisWidth).Render(sess.AnalysisResult))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHistoryStrip shows the base image and each applied edit in order,
// with the current image marked.
func (m *Model) renderHistoryStrip(sess *conversation.EditingSession) string {
	t := styles.CurrentTheme()

	var rows []string
	current := len(sess.History) // index into base+history of the current image

	label := "base image"
	if current == 0 {
		rows = append(rows, t.S().Primary.Bold(true).Render(styles.Selected+" "+label+" (current)"))
	} else {
		rows = append(rows, t.S().Text.Render("  "+label))
	}

	for i, ev := range sess.History {
		prompt := ev.Prompt
		maxLen := m.width - 20
		if maxLen > 10 && len(prompt) > maxLen {
			prompt = prompt[:maxLen-3] + "..."
		}
		line := fmt.Sprintf("edit %d: %q", i+1, prompt)
		if i+1 == current {
			rows = append(rows, t.S().Primary.Bold(true).Render(styles.Selected+" "+line+" (current)"))
		} else {
			rows = append(rows, t.S().Text.Render("  "+line))
		}
	}

	return strings.Join(rows, "\n")
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the text cursor.
func (m *Model) Cursor() *tea.Cursor {
	return m.input.Cursor()
}
