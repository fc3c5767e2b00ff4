package chat

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/tui/components/logo"
	"github.com/rbarros/gemsuite/internal/tui/styles"
)

// MessageList displays the conversation transcript.
type MessageList struct {
	messages []conversation.Message
	markdown *MarkdownRenderer

	// In-flight model response, rendered after the persisted messages until
	// the turn completes.
	pendingID   string
	pendingText string

	width  int
	height int
	offset int // scroll offset in lines, measured from the bottom
}

// NewMessageList creates a message list.
func NewMessageList() *MessageList {
	return &MessageList{markdown: NewMarkdownRenderer()}
}

// SetMessages replaces the transcript.
func (m *MessageList) SetMessages(messages []conversation.Message) {
	m.messages = messages
	m.offset = 0
}

// Messages returns the current transcript.
func (m *MessageList) Messages() []conversation.Message {
	return m.messages
}

// BeginPending starts an in-flight model response.
func (m *MessageList) BeginPending(messageID string) {
	m.pendingID = messageID
	m.pendingText = ""
	m.offset = 0
}

// AppendPending adds streamed text to the in-flight response.
func (m *MessageList) AppendPending(messageID, delta string) {
	if messageID != m.pendingID {
		return
	}
	m.pendingText += delta
	m.offset = 0
}

// ClearPending drops the in-flight response, typically after the persisted
// transcript has been reloaded.
func (m *MessageList) ClearPending() {
	m.pendingID = ""
	m.pendingText = ""
}

// SetSize sets the viewport dimensions.
func (m *MessageList) SetSize(width, height int) {
	if width != m.width {
		m.markdown.Invalidate()
	}
	m.width = width
	m.height = height
}

// InvalidateStyles drops cached rendering state after a theme change.
func (m *MessageList) InvalidateStyles() {
	m.markdown.Invalidate()
}

// LastImages returns the images of the most recent message carrying any,
// searching backwards through the transcript.
func (m *MessageList) LastImages() []conversation.Image {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if imgs := m.messages[i].Images(); len(imgs) > 0 {
			return imgs
		}
	}
	return nil
}

// Update handles scrolling.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		if msg.Button == tea.MouseWheelUp {
			m.scrollUp(3)
		} else if msg.Button == tea.MouseWheelDown {
			m.scrollDown(3)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup":
			m.scrollUp(m.height / 2)
		case "pgdown":
			m.scrollDown(m.height / 2)
		case "k":
			m.scrollUp(1)
		case "j":
			m.scrollDown(1)
		case "G":
			m.offset = 0
		}
	}
	return m, nil
}

func (m *MessageList) scrollUp(n int) {
	m.offset += n
}

func (m *MessageList) scrollDown(n int) {
	m.offset -= n
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the transcript window.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if len(m.messages) == 0 && m.pendingID == "" {
		hint := t.S().Muted.Render("Type something to start chatting · ctrl+o attach · ctrl+g generate · ctrl+h history")
		empty := lipgloss.JoinVertical(lipgloss.Center, logo.Render(), "", hint)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	var rendered []string
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg))
	}
	if m.pendingID != "" {
		rendered = append(rendered, m.renderPending())
	}

	content := strings.Join(rendered, "\n\n")
	lines := strings.Split(content, "\n")

	// Window the lines: offset counts up from the bottom.
	maxOffset := len(lines) - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	end := len(lines) - m.offset
	start := end - m.height
	if start < 0 {
		start = 0
	}
	window := strings.Join(lines[start:end], "\n")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Render(window)
}

func (m *MessageList) renderMessage(msg conversation.Message) string {
	t := styles.CurrentTheme()
	contentWidth := m.contentWidth()

	var header string
	switch msg.Author {
	case conversation.AuthorUser:
		header = t.S().Text.Bold(true).Render("You")
	case conversation.AuthorModel:
		header = t.S().Primary.Bold(true).Render("Gemini")
	default:
		header = t.S().Muted.Render(string(msg.Author))
	}

	parts := []string{header}
	for _, p := range msg.Parts {
		if rendered := m.renderPart(msg.Author, p, contentWidth); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	if msg.Usage != nil {
		usage := t.S().Subtle.Render(fmt.Sprintf("%d tokens", msg.Usage.TotalTokens))
		parts = append(parts, usage)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MessageList) renderPart(author conversation.Author, p conversation.Part, width int) string {
	t := styles.CurrentTheme()

	switch p.Type {
	case conversation.PartTypeText:
		if author == conversation.AuthorModel {
			rendered, err := m.markdown.Render(p.Text, width)
			if err == nil {
				return strings.TrimRight(rendered, "\n")
			}
		}
		return t.S().Text.Width(width).Render(p.Text)

	case conversation.PartTypeImage:
		if p.Image == nil {
			return ""
		}
		return renderImageTag(*p.Image, width)

	case conversation.PartTypeGenerationResult:
		if p.Generation == nil {
			return ""
		}
		return m.renderGenerationResult(*p.Generation, width)
	}

	return ""
}

func (m *MessageList) renderPending() string {
	t := styles.CurrentTheme()

	header := t.S().Primary.Bold(true).Render("Gemini")
	if m.pendingText == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.S().Muted.Render("Thinking..."))
	}

	// Streamed text stays plain until the turn completes; rendering partial
	// markdown flickers badly on code fences.
	body := t.S().Text.Width(m.contentWidth()).Render(m.pendingText)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m *MessageList) renderGenerationResult(gr conversation.GenerationResult, width int) string {
	t := styles.CurrentTheme()

	header := t.S().Subtitle.Render(fmt.Sprintf("Generated %d image(s)", len(gr.Images)))
	prompt := t.S().Muted.Width(width).Render("Prompt: " + gr.Prompt)

	parts := []string{header, prompt}
	for _, img := range gr.Images {
		parts = append(parts, renderImageTag(img, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MessageList) contentWidth() int {
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	return w
}

// renderImageTag renders an inline marker for an image part. Full rendering
// happens in the viewer overlay.
func renderImageTag(img conversation.Image, width int) string {
	t := styles.CurrentTheme()

	label := img.MIMEType
	if label == "" {
		label = "image"
	}
	size := approxSize(img)
	if size != "" {
		label += " · " + size
	}

	return t.S().Info.Width(width).Render(fmt.Sprintf("▦ %s — ctrl+v to view", label))
}

// approxSize estimates the decoded byte size of a base64 payload.
func approxSize(img conversation.Image) string {
	if img.Base64 == "" {
		return ""
	}
	bytes := len(img.Base64) * 3 / 4
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%d KB", bytes/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
