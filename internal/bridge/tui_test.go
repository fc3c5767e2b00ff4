package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// mockSender captures messages sent through the bridge.
type mockSender struct {
	mu       sync.Mutex
	messages []tea.Msg
}

func (m *mockSender) Send(msg tea.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockSender) Messages() []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tea.Msg(nil), m.messages...)
}

func (m *mockSender) waitFor(t *testing.T, match func(tea.Msg) bool) tea.Msg {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		for _, msg := range m.Messages() {
			if match(msg) {
				return msg
			}
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for forwarded message")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func setupBridge(t *testing.T) (*pubsub.Hub, *mockSender, *TUIBridge) {
	t.Helper()

	hub := pubsub.NewHub()
	t.Cleanup(hub.Shutdown)

	sender := &mockSender{}
	bridge := NewTUIBridge(hub, sender)
	bridge.Start(context.Background())
	t.Cleanup(bridge.Stop)

	// Give the subscriber goroutines time to attach before publishing.
	time.Sleep(20 * time.Millisecond)

	return hub, sender, bridge
}

func TestTUIBridgeForwardsChatEvents(t *testing.T) {
	hub, sender, _ := setupBridge(t)

	hub.Chat.Publish(pubsub.EventProgress,
		events.NewChatTextDeltaEvent("conv-1", "msg-1", "Hello"))

	msg := sender.waitFor(t, func(m tea.Msg) bool {
		_, ok := m.(ChatEventMsg)
		return ok
	})

	chat := msg.(ChatEventMsg)
	if chat.Event.Type != pubsub.EventProgress {
		t.Errorf("Event.Type = %q, want %q", chat.Event.Type, pubsub.EventProgress)
	}
	if chat.Event.Payload.TextDelta != "Hello" {
		t.Errorf("TextDelta = %q, want %q", chat.Event.Payload.TextDelta, "Hello")
	}
	if chat.Event.Payload.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want %q", chat.Event.Payload.ConversationID, "conv-1")
	}
}

func TestTUIBridgeForwardsConversationEvents(t *testing.T) {
	hub, sender, _ := setupBridge(t)

	hub.Conversation.Publish(pubsub.EventCreated,
		events.NewConversationCreatedEvent("conv-1", "Trip planning"))

	msg := sender.waitFor(t, func(m tea.Msg) bool {
		_, ok := m.(ConversationEventMsg)
		return ok
	})

	conv := msg.(ConversationEventMsg)
	if conv.Event.Payload.Title != "Trip planning" {
		t.Errorf("Title = %q, want %q", conv.Event.Payload.Title, "Trip planning")
	}
}

func TestTUIBridgeForwardsGenerationEvents(t *testing.T) {
	hub, sender, _ := setupBridge(t)

	hub.Generation.Publish(pubsub.EventCompleted,
		events.NewGenerationCompletedEvent("a red fox", 2))

	msg := sender.waitFor(t, func(m tea.Msg) bool {
		_, ok := m.(GenerationEventMsg)
		return ok
	})

	gen := msg.(GenerationEventMsg)
	if gen.Event.Payload.ImageCount != 2 {
		t.Errorf("ImageCount = %d, want 2", gen.Event.Payload.ImageCount)
	}
}

func TestTUIBridgeForwardsEditEvents(t *testing.T) {
	hub, sender, _ := setupBridge(t)

	hub.Edit.Publish(pubsub.EventCompleted,
		events.NewEditAppliedEvent("conv-1", "sess-1", "make it blue"))

	msg := sender.waitFor(t, func(m tea.Msg) bool {
		_, ok := m.(EditEventMsg)
		return ok
	})

	edit := msg.(EditEventMsg)
	if edit.Event.Payload.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", edit.Event.Payload.SessionID, "sess-1")
	}
}

func TestTUIBridgeStopTerminates(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	sender := &mockSender{}
	bridge := NewTUIBridge(hub, sender)

	ctx, cancel := context.WithCancel(context.Background())
	bridge.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		bridge.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() hung after context cancellation")
	}

	// Stopping again is safe.
	bridge.Stop()
}

func TestTUIBridgeStopWithoutStart(t *testing.T) {
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	bridge := NewTUIBridge(hub, &mockSender{})
	bridge.Stop()
}
