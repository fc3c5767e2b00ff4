// Package bridge connects the pub/sub hub to Bubble Tea, converting domain
// events into messages the TUI can consume.
package bridge

import (
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// ChatEventMsg wraps a chat streaming event for the TUI.
type ChatEventMsg struct {
	Event pubsub.Event[events.ChatEvent]
}

// ConversationEventMsg wraps a conversation lifecycle event for the TUI.
type ConversationEventMsg struct {
	Event pubsub.Event[events.ConversationEvent]
}

// GenerationEventMsg wraps an image generation event for the TUI.
type GenerationEventMsg struct {
	Event pubsub.Event[events.GenerationEvent]
}

// EditEventMsg wraps an image editing event for the TUI.
type EditEventMsg struct {
	Event pubsub.Event[events.EditEvent]
}

// ErrorMsg indicates an error in the bridge.
type ErrorMsg struct { //nolint:govet // fieldalignment: preserving logical field order
	Source string
	Error  error
}
