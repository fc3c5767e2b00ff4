package events

import "time"

// ChatEventType represents chat streaming event types.
type ChatEventType string

// Chat event type constants.
const (
	ChatEventStarted   ChatEventType = "started"
	ChatEventTextDelta ChatEventType = "text_delta"
	ChatEventCompleted ChatEventType = "completed"
	ChatEventCancelled ChatEventType = "cancelled"
)

// UsageInfo mirrors the token accounting attached to a completed response.
type UsageInfo struct {
	PromptTokens   int64
	ResponseTokens int64
	TotalTokens    int64
}

// ChatEvent represents progress of a streaming chat response. Every event
// names the conversation it belongs to so consumers can discard fragments
// for conversations that are no longer on screen.
type ChatEvent struct {
	ConversationID string
	MessageID      string
	Type           ChatEventType
	Timestamp      time.Time

	TextDelta string     // For TextDelta
	Usage     *UsageInfo // For Completed
}

// NewChatStartedEvent creates a chat started event.
func NewChatStartedEvent(conversationID, messageID string) ChatEvent {
	return ChatEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
		Type:           ChatEventStarted,
		Timestamp:      time.Now(),
	}
}

// NewChatTextDeltaEvent creates a text delta event.
func NewChatTextDeltaEvent(conversationID, messageID, delta string) ChatEvent {
	return ChatEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
		Type:           ChatEventTextDelta,
		TextDelta:      delta,
		Timestamp:      time.Now(),
	}
}

// NewChatCompletedEvent creates a chat completed event.
func NewChatCompletedEvent(conversationID, messageID string, usage *UsageInfo) ChatEvent {
	return ChatEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
		Type:           ChatEventCompleted,
		Usage:          usage,
		Timestamp:      time.Now(),
	}
}

// NewChatCancelledEvent creates a chat cancelled event.
func NewChatCancelledEvent(conversationID, messageID string) ChatEvent {
	return ChatEvent{
		ConversationID: conversationID,
		MessageID:      messageID,
		Type:           ChatEventCancelled,
		Timestamp:      time.Now(),
	}
}
