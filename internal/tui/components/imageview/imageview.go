// Package imageview renders images in the terminal as an overlay with pan,
// zoom, and navigation between the images of a set. Each character cell shows
// two vertically stacked pixels using the upper half block.
package imageview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	// Register the decoders for inline image payloads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/viewer"
)

// OpenMsg asks the root model to open the viewer on a set of images.
type OpenMsg struct {
	Images []conversation.Image
	Index  int
}

// CloseMsg asks the root model to dismiss the viewer.
type CloseMsg struct{}

// Model is the image viewer overlay.
type Model struct {
	images  []conversation.Image
	decoded map[int]image.Image
	failed  map[int]string
	view    *viewer.Viewer

	width   int
	height  int
	canvasW int // cells
	canvasH int // cells; each cell is two pixel rows
}

// New creates an empty viewer overlay.
func New() *Model {
	return &Model{
		decoded: make(map[int]image.Image),
		failed:  make(map[int]string),
	}
}

// Open loads a set of images and shows the one at index.
func (m *Model) Open(images []conversation.Image, index int) {
	m.images = images
	m.decoded = make(map[int]image.Image)
	m.failed = make(map[int]string)
	m.view = viewer.New(len(images), index, float64(m.canvasW), float64(m.canvasH*2))
}

// SetSize sets the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.canvasW = width - 6
	if m.canvasW < 10 {
		m.canvasW = 10
	}
	m.canvasH = height - 7
	if m.canvasH < 4 {
		m.canvasH = 4
	}
	m.applyCanvasSize()
}

func (m *Model) applyCanvasSize() {
	if m.view == nil {
		return
	}
	// Horizontal units are cells, vertical units are pixel rows.
	m.view.ContainerWidth = float64(m.canvasW)
	m.view.ContainerHeight = float64(m.canvasH * 2)
}

const (
	zoomStep = 0.25
	panStep  = 4
)

// Update handles viewer keys and mouse input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case tea.MouseWheelMsg:
		// Zoom toward the cursor so the hovered point stays put.
		cx := float64(msg.X - 3) // canvas left margin
		cy := float64((msg.Y - 3) * 2)
		if msg.Button == tea.MouseWheelUp {
			m.view.Zoom(cx, cy, zoomStep)
		} else if msg.Button == tea.MouseWheelDown {
			m.view.Zoom(cx, cy, -zoomStep)
		}
	}

	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "esc", "q", "v":
		return func() tea.Msg { return CloseMsg{} }
	case "+", "=":
		m.zoomCenter(zoomStep)
	case "-", "_":
		m.zoomCenter(-zoomStep)
	case "0":
		m.zoomCenter(viewer.MinScale - m.view.Scale())
	case "up", "k":
		m.view.Pan(0, panStep)
	case "down", "j":
		m.view.Pan(0, -panStep)
	// At fit scale the horizontal arrows flip between images; panning
	// takes them over once zoomed in.
	case "left", "h":
		if m.view.Scale() <= viewer.MinScale {
			m.view.Prev()
		} else {
			m.view.Pan(panStep, 0)
		}
	case "right", "l":
		if m.view.Scale() <= viewer.MinScale {
			m.view.Next()
		} else {
			m.view.Pan(-panStep, 0)
		}
	case "n", "]":
		m.view.Next()
	case "p", "[":
		m.view.Prev()
	}
	return nil
}

func (m *Model) zoomCenter(delta float64) {
	m.view.Zoom(m.view.ContainerWidth/2, m.view.ContainerHeight/2, delta)
}

// View renders the overlay.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	if m.view == nil || len(m.images) == 0 {
		return ""
	}

	title := fmt.Sprintf(" Image %d/%d · %.0f%% ", m.view.Index()+1, m.view.Count(), m.view.Scale()*100)
	canvas := m.renderCanvas(m.view.Index())
	help := t.S().Muted.Render("+/- zoom · ←/→ switch, pan when zoomed · 0 reset · esc close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Center, t.S().Title.Render(title), canvas, help))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderCanvas draws the image through the current transform.
func (m *Model) renderCanvas(index int) string {
	t := styles.CurrentTheme()

	img := m.imageAt(index)
	if img == nil {
		reason := m.failed[index]
		if reason == "" {
			reason = "no image data"
		}
		return t.S().Error.
			Width(m.canvasW).
			Height(m.canvasH).
			Align(lipgloss.Center, lipgloss.Center).
			Render("cannot display image: " + reason)
	}

	bounds := img.Bounds()
	imgW := float64(bounds.Dx())
	imgH := float64(bounds.Dy())

	scale := m.view.Scale()
	offX, offY := m.view.Offset()
	pixW := float64(m.canvasW)
	pixH := float64(m.canvasH * 2)

	// Fit the image inside the canvas preserving aspect ratio. Terminal
	// cells are roughly twice as tall as wide, which the two-pixel rows
	// already compensate for.
	fit := pixW / imgW
	if h := pixH / imgH; h < fit {
		fit = h
	}
	drawW := imgW * fit
	drawH := imgH * fit

	sample := func(sx, sy float64) color.Color {
		// Undo the zoom/pan transform, then the fit transform.
		ux := (sx-pixW/2-offX)/scale + pixW/2
		uy := (sy-pixH/2-offY)/scale + pixH/2
		ix := (ux - (pixW-drawW)/2) / fit
		iy := (uy - (pixH-drawH)/2) / fit
		if ix < 0 || iy < 0 || ix >= imgW || iy >= imgH {
			return nil
		}
		return img.At(bounds.Min.X+int(ix), bounds.Min.Y+int(iy))
	}

	var b strings.Builder
	for cy := 0; cy < m.canvasH; cy++ {
		for cx := 0; cx < m.canvasW; cx++ {
			top := sample(float64(cx)+0.5, float64(cy*2)+0.5)
			bottom := sample(float64(cx)+0.5, float64(cy*2+1)+0.5)

			switch {
			case top == nil && bottom == nil:
				b.WriteByte(' ')
			case bottom == nil:
				b.WriteString(lipgloss.NewStyle().Foreground(top).Render("▀"))
			case top == nil:
				b.WriteString(lipgloss.NewStyle().Foreground(bottom).Render("▄"))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
			}
		}
		if cy < m.canvasH-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// imageAt decodes and caches the image at index. Failures are remembered so
// a bad payload is not re-parsed every frame.
func (m *Model) imageAt(index int) image.Image {
	if img, ok := m.decoded[index]; ok {
		return img
	}
	if _, ok := m.failed[index]; ok {
		return nil
	}
	if index < 0 || index >= len(m.images) {
		return nil
	}

	payload := m.images[index].Base64
	if payload == "" {
		m.failed[index] = "no inline data"
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		m.failed[index] = "invalid base64"
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		m.failed[index] = err.Error()
		return nil
	}

	m.decoded[index] = img
	return img
}
