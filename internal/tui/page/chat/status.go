package chat

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/tui/styles"
)

// Status represents the current chat status.
type Status int

// Status values.
const (
	StatusReady Status = iota
	StatusStreaming
	StatusError
)

// StatusBar displays the chat state, model name, and last turn's token usage.
type StatusBar struct {
	status      Status
	errorMsg    string
	infoMsg     string
	modelName   string
	totalTokens int
	width       int
}

// NewStatusBar creates a status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{status: StatusReady}
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
	if status == StatusReady {
		s.errorMsg = ""
	}
	s.infoMsg = ""
}

// SetError sets an error message.
func (s *StatusBar) SetError(msg string) {
	s.status = StatusError
	s.errorMsg = msg
}

// SetInfo sets a transient info message shown in place of the status text.
func (s *StatusBar) SetInfo(msg string) {
	s.infoMsg = msg
}

// SetModelName sets the model shown on the right.
func (s *StatusBar) SetModelName(name string) {
	s.modelName = name
}

// SetUsage records the last completed turn's token total.
func (s *StatusBar) SetUsage(totalTokens int) {
	s.totalTokens = totalTokens
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusText string
	var statusStyle lipgloss.Style

	switch {
	case s.infoMsg != "":
		statusText = s.infoMsg
		statusStyle = t.S().Info
	case s.status == StatusStreaming:
		statusText = "Streaming..."
		statusStyle = t.S().Info
	case s.status == StatusError:
		statusText = "Error: " + s.errorMsg
		statusStyle = t.S().Error
	default:
		statusText = "Ready"
		statusStyle = t.S().Success
	}

	right := s.modelName
	if s.totalTokens > 0 {
		right = fmt.Sprintf("%s · %d tokens", right, s.totalTokens)
	}

	barStyle := lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle)

	left := statusStyle.Render(statusText)
	rightRendered := t.S().Muted.Render(right)

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(rightRendered) - 4
	if gap < 1 {
		gap = 1
	}

	return barStyle.Render(left + lipgloss.NewStyle().Width(gap).Render("") + rightRendered)
}
