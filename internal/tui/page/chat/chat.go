// Package chat provides the chat page: the conversation transcript, the
// draft input with image attachment, and the status bar.
package chat

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/rbarros/gemsuite/internal/bridge"
	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/orchestrator"
	"github.com/rbarros/gemsuite/internal/pubsub"
	"github.com/rbarros/gemsuite/internal/tui/components/imageview"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// Model is the chat page model.
type Model struct {
	orc      *orchestrator.Orchestrator
	messages *MessageList
	input    *Input
	status   *StatusBar

	// streamingConvID names the conversation whose response is in flight,
	// so its terminal event is honored even after the user switches away.
	isStreaming     bool
	streamingConvID string

	width  int
	height int
}

// New creates the chat page.
func New(orc *orchestrator.Orchestrator) *Model {
	m := &Model{
		orc:      orc,
		messages: NewMessageList(),
		input:    NewInput(),
		status:   NewStatusBar(),
	}
	m.status.SetModelName(orc.Conversations().Model())
	return m
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	m.Reload()
	return m.input.Init()
}

// Reload refreshes the transcript from the active conversation.
func (m *Model) Reload() {
	active := m.orc.Conversations().Active()
	if active == nil {
		m.messages.SetMessages(nil)
		m.status.SetModelName(m.orc.Conversations().Model())
		return
	}
	m.messages.SetMessages(active.Messages)
	if active.ModelUsed != "" {
		m.status.SetModelName(active.ModelUsed)
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd

	case bridge.ChatEventMsg:
		return m.handleChatEvent(msg.Event)

	case bridge.ConversationEventMsg:
		return m.handleConversationEvent(msg.Event)

	case util.InfoMsg:
		m.status.SetInfo(msg.Msg)
		return m, nil

	case util.ErrMsg:
		m.status.SetError(msg.Err.Error())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

//nolint:gocyclo // Key routing is a straight dispatch over the page's bindings.
func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.input.InAttachMode() {
			if err := m.input.CompleteAttach(); err != nil {
				m.status.SetError(err.Error())
			}
			return m, nil
		}
		return m, m.submit()

	case "esc":
		if m.input.InAttachMode() {
			m.input.CancelAttach()
			return m, nil
		}
		if m.isStreaming {
			m.orc.CancelActive()
			return m, nil
		}

	case "ctrl+o":
		if !m.isStreaming {
			m.input.StartAttach()
		}
		return m, nil

	case "ctrl+y":
		return m, m.copyLastResponse()

	case "ctrl+n":
		if !m.isStreaming {
			m.orc.Conversations().StartNew()
			m.Reload()
		}
		return m, nil

	case "ctrl+v":
		if imgs := m.messages.LastImages(); len(imgs) > 0 {
			return m, util.CmdHandler(imageview.OpenMsg{Images: imgs})
		}
		m.status.SetInfo("No images in this conversation yet")
		return m, nil
	}

	var cmds []tea.Cmd

	// Scroll keys only reach the transcript while the input is blurred, so
	// j/k keep working as letters when typing.
	if !m.input.IsEnabled() {
		var msgCmd tea.Cmd
		m.messages, msgCmd = m.messages.Update(msg)
		if msgCmd != nil {
			cmds = append(cmds, msgCmd)
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) submit() tea.Cmd {
	if m.isStreaming {
		return nil
	}

	draft := m.input.Value()
	attached := m.input.Attached()

	err := m.orc.Submit(context.Background(), draft, attached)
	switch {
	case errors.Is(err, orchestrator.ErrEmptySubmit):
		return nil
	case errors.Is(err, orchestrator.ErrBusy):
		m.status.SetError("a response is already streaming")
		return nil
	case err != nil:
		m.status.SetError(err.Error())
		return nil
	}

	m.input.Clear()

	// An attached image with no text opens an editing session instead of a
	// chat turn; the edit page takes over via the published event.
	if draft == "" && attached != nil {
		return nil
	}

	m.Reload()
	return nil
}

func (m *Model) copyLastResponse() tea.Cmd {
	msgs := m.messages.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Author != conversation.AuthorModel {
			continue
		}
		text := msgs[i].TextContent()
		if text == "" {
			continue
		}
		if err := clipboard.WriteAll(text); err != nil {
			return util.ReportError(fmt.Errorf("copying to clipboard: %w", err))
		}
		return util.ReportInfo("Response copied to clipboard")
	}
	return util.ReportInfo("Nothing to copy yet")
}

// handleChatEvent applies streaming progress from the bridge.
func (m *Model) handleChatEvent(event pubsub.Event[events.ChatEvent]) (util.Model, tea.Cmd) {
	convID := event.Payload.ConversationID
	active := convID == m.orc.Conversations().ActiveID()

	switch event.Payload.Type {
	case events.ChatEventStarted:
		if !active {
			return m, nil
		}
		m.isStreaming = true
		m.streamingConvID = convID
		m.status.SetStatus(StatusStreaming)
		m.input.Disable()
		m.messages.BeginPending(event.Payload.MessageID)

	case events.ChatEventTextDelta:
		// Stale fragments for conversations no longer on screen are dropped;
		// their final messages are persisted by the orchestrator regardless.
		if !active {
			return m, nil
		}
		m.messages.AppendPending(event.Payload.MessageID, event.Payload.TextDelta)

	case events.ChatEventCompleted, events.ChatEventCancelled:
		// Terminal events count for the conversation that started the stream
		// even when it is no longer active, so the page never stays locked.
		if !active && convID != m.streamingConvID {
			return m, nil
		}
		if convID == m.streamingConvID {
			m.streamingConvID = ""
		}
		m.isStreaming = false
		m.messages.ClearPending()
		m.Reload()
		m.status.SetStatus(StatusReady)
		if active && event.Payload.Usage != nil {
			m.status.SetUsage(int(event.Payload.Usage.TotalTokens))
		}
		m.input.Enable()
		return m, m.input.Focus()
	}

	return m, nil
}

// handleConversationEvent reloads the transcript when the active conversation
// changes under us.
func (m *Model) handleConversationEvent(event pubsub.Event[events.ConversationEvent]) (util.Model, tea.Cmd) {
	switch event.Payload.Type {
	case events.ConversationEventSwitched, events.ConversationEventDeleted:
		debug.Event("chat", "conversation", string(event.Payload.Type))
		m.Reload()
		// The previous conversation may keep streaming in the background;
		// the page unlocks so the one now on screen is usable immediately.
		if m.isStreaming {
			m.isStreaming = false
			m.messages.ClearPending()
			m.status.SetStatus(StatusReady)
			m.input.Enable()
			return m, m.input.Focus()
		}
	case events.ConversationEventCreated, events.ConversationEventUpdated:
		// Transcript state already reflects these; titles live in the
		// history overlay.
	}
	return m, nil
}

// View renders the chat page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	m.messages.SetSize(m.width, m.messagesAreaHeight())
	m.input.SetWidth(m.width)
	m.status.SetWidth(m.width)

	separator := lipgloss.NewStyle().
		Width(m.width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render("")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.messages.View(),
		separator,
		m.input.View(),
		m.status.View(),
	)
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InvalidateStyles drops cached rendering after a theme change.
func (m *Model) InvalidateStyles() {
	m.messages.InvalidateStyles()
}

// Cursor returns the text cursor when the input is active.
func (m *Model) Cursor() *tea.Cursor {
	if !m.isStreaming {
		return m.input.Cursor()
	}
	return nil
}

func (m *Model) messagesAreaHeight() int {
	h := m.height - 1 - 1 - m.input.Height() // status + separator + input
	if h < 1 {
		h = 1
	}
	return h
}
