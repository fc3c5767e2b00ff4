// Package page defines the page identifiers used by the root TUI model.
package page

// ID identifies a top-level page.
type ID string

// Available pages.
const (
	Chat     ID = "chat"
	Generate ID = "generate"
	Edit     ID = "edit"
)

// ChangeMsg requests a switch to another page.
type ChangeMsg struct {
	Page ID
}
