// Package logo renders the gemsuite wordmark.
package logo

import (
	"charm.land/lipgloss/v2"

	"github.com/rbarros/gemsuite/internal/tui/styles"
)

const mark = `
  ___ ___ _ __ ___  ___ _   _(_) |_ ___
 / _ \ -_) '  \(_-</ -_) || | |  _/ -_)
 \___\___|_|_|_/__/\___|\_,_|_|\__\___|`

const tagline = "chat · generate · edit"

// Render returns the wordmark with a themed gradient and tagline.
func Render() string {
	t := styles.CurrentTheme()

	wordmark := styles.ApplyForegroundGrad(mark, t.Primary, t.Accent)
	sub := t.S().Muted.Render(tagline)

	return lipgloss.JoinVertical(lipgloss.Center, wordmark, "", sub)
}

// Width returns the rendered width of the wordmark.
func Width() int {
	return lipgloss.Width(mark)
}
