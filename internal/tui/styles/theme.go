// Package styles provides the theme system for the TUI: named color themes,
// derived lipgloss styles, and a process-wide manager.
package styles

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Selected is the cursor marker used in selection lists.
const Selected = "❯"

// Theme holds the color palette for the application.
//
//nolint:govet // fieldalignment: preserving logical field order
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	once   sync.Once
	styles *Styles
}

// Styles are the pre-built lipgloss styles derived from a theme.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	Primary   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	TextInput lipgloss.Style
}

// S returns the styles for this theme, building them on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		t.styles = &Styles{
			Title:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Subtitle:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
			Text:      lipgloss.NewStyle().Foreground(t.FgBase),
			Muted:     lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:    lipgloss.NewStyle().Foreground(t.FgSubtle),
			Primary:   lipgloss.NewStyle().Foreground(t.Primary),
			Success:   lipgloss.NewStyle().Foreground(t.Success),
			Error:     lipgloss.NewStyle().Foreground(t.Error),
			Warning:   lipgloss.NewStyle().Foreground(t.Warning),
			Info:      lipgloss.NewStyle().Foreground(t.Info),
			TextInput: lipgloss.NewStyle().Foreground(t.FgBase),
		}
	})
	return t.styles
}

// ParseHex parses a hex color string like "#61afef". Invalid input yields
// black rather than an error; theme definitions are compile-time constants
// and custom themes are validated before they reach here.
func ParseHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}

// ValidHex reports whether s is a parseable hex color.
func ValidHex(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

// Lighten blends a color toward white by amount in [0, 1].
func Lighten(c color.Color, amount float64) color.Color {
	cc, _ := colorful.MakeColor(c)
	white := colorful.Color{R: 1, G: 1, B: 1}
	return cc.BlendLab(white, amount).Clamped()
}

// Darken blends a color toward black by amount in [0, 1].
func Darken(c color.Color, amount float64) color.Color {
	cc, _ := colorful.MakeColor(c)
	black := colorful.Color{}
	return cc.BlendLab(black, amount).Clamped()
}

// isDarkColor reports whether a color reads as dark (low luminance).
func isDarkColor(c color.Color) bool {
	cc, _ := colorful.MakeColor(c)
	_, _, l := cc.Hsl()
	return l < 0.5
}

// ApplyForegroundGrad renders each line of input with a left-to-right color
// gradient from one color to the other. Used for the logo.
func ApplyForegroundGrad(input string, from, to color.Color) string {
	f, _ := colorful.MakeColor(from)
	g, _ := colorful.MakeColor(to)

	lines := strings.Split(input, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		runes := []rune(line)
		if len(runes) == 0 {
			continue
		}

		var b strings.Builder
		for j, r := range runes {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			pos := 0.0
			if len(runes) > 1 {
				pos = float64(j) / float64(len(runes)-1)
			}
			c := f.BlendLuv(g, pos).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
		}
		out[i] = b.String()
	}

	return strings.Join(out, "\n")
}
