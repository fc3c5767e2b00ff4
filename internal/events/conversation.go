// Package events defines typed domain events published on the hub.
package events

import "time"

// ConversationEventType represents conversation-specific event types.
type ConversationEventType string

// Conversation event type constants.
const (
	ConversationEventCreated  ConversationEventType = "created"
	ConversationEventUpdated  ConversationEventType = "updated"
	ConversationEventDeleted  ConversationEventType = "deleted"
	ConversationEventSwitched ConversationEventType = "switched"
)

// ConversationEvent represents a conversation lifecycle event.
type ConversationEvent struct {
	ConversationID string
	Title          string
	Type           ConversationEventType
	Timestamp      time.Time
}

// NewConversationCreatedEvent creates a conversation created event.
func NewConversationCreatedEvent(id, title string) ConversationEvent {
	return ConversationEvent{
		ConversationID: id,
		Title:          title,
		Type:           ConversationEventCreated,
		Timestamp:      time.Now(),
	}
}

// NewConversationUpdatedEvent creates a conversation updated event.
func NewConversationUpdatedEvent(id, title string) ConversationEvent {
	return ConversationEvent{
		ConversationID: id,
		Title:          title,
		Type:           ConversationEventUpdated,
		Timestamp:      time.Now(),
	}
}

// NewConversationDeletedEvent creates a conversation deleted event.
func NewConversationDeletedEvent(id string) ConversationEvent {
	return ConversationEvent{
		ConversationID: id,
		Type:           ConversationEventDeleted,
		Timestamp:      time.Now(),
	}
}

// NewConversationSwitchedEvent creates a conversation switched event.
func NewConversationSwitchedEvent(id, title string) ConversationEvent {
	return ConversationEvent{
		ConversationID: id,
		Title:          title,
		Type:           ConversationEventSwitched,
		Timestamp:      time.Now(),
	}
}
