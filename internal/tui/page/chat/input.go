package chat

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/tui/styles"
)

// Input is the chat input. It has two modes: drafting a message and entering
// a file path to attach an image.
type Input struct {
	textInput  textinput.Model
	attached   *conversation.Image
	width      int
	enabled    bool
	attachMode bool
	draft      string // saved while attach mode borrows the input
}

// NewInput creates the chat input.
func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 8192
	ti.Focus()

	return &Input{
		textInput: ti,
		enabled:   true,
	}
}

// Init initializes the input.
func (i *Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if !i.enabled {
		return i, nil
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// View renders the input.
func (i *Input) View() string {
	t := styles.CurrentTheme()

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(i.width - 4)

	if !i.enabled {
		inputStyle = inputStyle.BorderForeground(t.Border)
	}

	var header string
	if i.attachMode {
		header = t.S().Warning.Render("Attach image — enter a file path, esc to cancel")
	} else if i.attached != nil {
		header = t.S().Info.Render(fmt.Sprintf("▦ attached: %s (submit empty to edit it)", i.attached.MIMEType))
	}

	box := inputStyle.Render(i.textInput.View())
	if header == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, box)
}

// SetWidth sets the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.SetWidth(width - 8)
}

// Height returns the rendered height in lines.
func (i *Input) Height() int {
	h := 3 // bordered single-line input
	if i.attachMode || i.attached != nil {
		h++
	}
	return h
}

// Value returns the current draft.
func (i *Input) Value() string {
	return i.textInput.Value()
}

// SetValue sets the draft text.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Clear clears the draft and any attachment.
func (i *Input) Clear() {
	i.textInput.SetValue("")
	i.attached = nil
}

// Attached returns the attached image, if any.
func (i *Input) Attached() *conversation.Image {
	return i.attached
}

// InAttachMode reports whether the input is capturing a file path.
func (i *Input) InAttachMode() bool {
	return i.attachMode
}

// StartAttach switches the input to file path entry.
func (i *Input) StartAttach() {
	if i.attachMode {
		return
	}
	i.attachMode = true
	i.draft = i.textInput.Value()
	i.textInput.SetValue("")
	i.textInput.Placeholder = "~/path/to/image.png"
}

// CancelAttach returns to drafting without attaching.
func (i *Input) CancelAttach() {
	i.exitAttachMode()
}

// CompleteAttach loads the entered path as the attached image.
func (i *Input) CompleteAttach() error {
	path := strings.TrimSpace(i.textInput.Value())
	i.exitAttachMode()

	if path == "" {
		return nil
	}

	img, err := loadImageFile(path)
	if err != nil {
		return err
	}
	i.attached = &img
	return nil
}

func (i *Input) exitAttachMode() {
	i.attachMode = false
	i.textInput.SetValue(i.draft)
	i.draft = ""
	i.textInput.Placeholder = "Type a message..."
}

// Enable enables the input.
func (i *Input) Enable() {
	i.enabled = true
	i.textInput.Focus()
}

// Disable disables the input.
func (i *Input) Disable() {
	i.enabled = false
	i.textInput.Blur()
}

// IsEnabled reports whether the input accepts typing.
func (i *Input) IsEnabled() bool {
	return i.enabled
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus.
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Cursor returns the text cursor.
func (i *Input) Cursor() *tea.Cursor {
	return i.textInput.Cursor()
}

// loadImageFile reads an image from disk into an inline attachment.
func loadImageFile(path string) (conversation.Image, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	//nolint:gosec // G304: the user chose this path interactively.
	data, err := os.ReadFile(path)
	if err != nil {
		return conversation.Image{}, fmt.Errorf("reading image file: %w", err)
	}

	mime := mimeForExtension(filepath.Ext(path))
	if mime == "" {
		return conversation.Image{}, fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}

	return conversation.Image{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: mime,
	}, nil
}

func mimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return ""
}
