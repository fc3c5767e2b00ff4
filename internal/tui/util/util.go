// Package util provides shared helpers for TUI components.
package util

import (
	tea "charm.land/bubbletea/v2"
)

// Model is the interface implemented by page models. It mirrors tea.Model but
// returns the concrete page type so pages can be composed.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
}

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// InfoMsg carries a transient status line for the status bar.
type InfoMsg struct {
	Msg string
}

// ReportInfo returns a command that surfaces an info message.
func ReportInfo(format string) tea.Cmd {
	return CmdHandler(InfoMsg{Msg: format})
}

// ErrMsg carries an error for the status bar.
type ErrMsg struct {
	Err error
}

// ReportError returns a command that surfaces an error.
func ReportError(err error) tea.Cmd {
	return CmdHandler(ErrMsg{Err: err})
}
