// Package generate provides the image generation page: prompt entry,
// generation parameters, and the session's results, newest first.
package generate

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

// Parameter choices cycled through with the parameter keys.
var (
	modelChoices = []string{
		"imagen-4.0-generate-001",
		"imagen-4.0-fast-generate-001",
		"imagen-4.0-ultra-generate-001",
	}
	aspectChoices = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}
	mimeChoices   = []string{"image/png", "image/jpeg"}
	maxCount      = 4
)

// Model is the generation page model.
type Model struct {
	orc    *orchestrator.Orchestrator
	input  textinput.Model
	cursor int // selected result

	width  int
	height int
}

// New creates the generation page.
func New(orc *orchestrator.Orchestrator) *Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the image to generate..."
	ti.CharLimit = 2048
	ti.Focus()

	return &Model{orc: orc, input: ti}
}

// Init initializes the page.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case bridge.GenerationEventMsg:
		return m.handleGenerationEvent(msg.Event)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	panel := m.orc.Panel()

	switch msg.String() {
	case "enter":
		if panel.Busy() {
			return m, nil
		}
		panel.SetPrompt(m.input.Value())
		if err := m.orc.Generate(context.Background()); err != nil {
			return m, nil // empty prompt or already busy; the panel shows state
		}
		return m, nil

	case "ctrl+p":
		m.cycleParam(func(p *conversation.GenerationParams) {
			p.Model = next(modelChoices, p.Model)
		})
		return m, nil

	case "ctrl+a":
		m.cycleParam(func(p *conversation.GenerationParams) {
			p.AspectRatio = next(aspectChoices, p.AspectRatio)
		})
		return m, nil

	case "ctrl+x":
		m.cycleParam(func(p *conversation.GenerationParams) {
			p.Count++
			if p.Count > maxCount {
				p.Count = 1
			}
		})
		return m, nil

	case "ctrl+f":
		m.cycleParam(func(p *conversation.GenerationParams) {
			p.OutputMIME = next(mimeChoices, p.OutputMIME)
		})
		return m, nil

	case "ctrl+r":
		results := panel.Results()
		if m.cursor < len(results) {
			panel.Recall(results[m.cursor])
			m.input.SetValue(panel.Prompt())
		}
		return m, nil

	case "ctrl+v":
		results := panel.Results()
		if m.cursor < len(results) && len(results[m.cursor].Images) > 0 {
			return m, util.CmdHandler(imageview.OpenMsg{Images: results[m.cursor].Images})
		}
		return m, nil

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down":
		if m.cursor < len(panel.Results())-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) cycleParam(apply func(*conversation.GenerationParams)) {
	panel := m.orc.Panel()
	params := panel.Params()
	apply(&params)
	panel.SetParams(params)
}

func (m *Model) handleGenerationEvent(event pubsub.Event[events.GenerationEvent]) (util.Model, tea.Cmd) {
	switch event.Payload.Type {
	case events.GenerationEventStarted:
		// The panel already tracks busy state; nothing to mirror here.
	case events.GenerationEventCompleted:
		// A fresh result landed at the top of the list.
		m.cursor = 0
		m.input.SetValue(m.orc.Panel().Prompt())
	case events.GenerationEventFailed:
		// The panel keeps the prompt and exposes the failure text.
	}
	return m, nil
}

// View renders the generation page.
func (m *Model) View() string {
	t := styles.CurrentTheme()
	panel := m.orc.Panel()

	title := t.S().Title.Render("Image Generation")
	params := m.renderParams(panel.Params())

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(m.width - 4)
	m.input.SetWidth(m.width - 8)

	var statusLine string
	switch {
	case panel.Busy():
		statusLine = t.S().Info.Render("Generating...")
	case panel.LastError() != "":
		statusLine = t.S().Error.Render(panel.LastError())
	default:
		statusLine = t.S().Muted.Render("enter generate · ctrl+p model · ctrl+a aspect · ctrl+x count · ctrl+f format · ctrl+v view · ctrl+r recall")
	}

	results := m.renderResults(panel.Results())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		params,
		inputStyle.Render(m.input.View()),
		statusLine,
		"",
		results,
	)
}

func (m *Model) renderParams(p conversation.GenerationParams) string {
	t := styles.CurrentTheme()

	format := strings.TrimPrefix(p.OutputMIME, "image/")
	return t.S().Muted.Render(fmt.Sprintf("model %s · aspect %s · count %d · format %s",
		t.S().Text.Render(p.Model),
		t.S().Text.Render(p.AspectRatio),
		p.Count,
		t.S().Text.Render(format),
	))
}

func (m *Model) renderResults(results []conversation.GenerationResult) string {
	t := styles.CurrentTheme()

	if len(results) == 0 {
		return t.S().Muted.Render("No results yet this session. Generated images appear here, newest first.")
	}

	if m.cursor >= len(results) {
		m.cursor = len(results) - 1
	}

	var rows []string
	for i, r := range results {
		prompt := r.Prompt
		maxLen := m.width - 30
		if maxLen > 10 && len(prompt) > maxLen {
			prompt = prompt[:maxLen-3] + "..."
		}
		line := fmt.Sprintf("%d image(s) · %s · %q", len(r.Images), r.Params.AspectRatio, prompt)

		if i == m.cursor {
			rows = append(rows, t.S().Primary.Bold(true).Render(styles.Selected+" "+line))
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

// next returns the element after current in choices, wrapping around.
func next(choices []string, current string) string {
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}
