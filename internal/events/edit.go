package events

import "time"

// EditEventType represents image editing event types.
type EditEventType string

// Edit event type constants.
const (
	EditEventSessionStarted EditEventType = "session_started"
	EditEventApplied        EditEventType = "applied"
	EditEventFailed         EditEventType = "failed"
	EditEventAnalyzed       EditEventType = "analyzed"
)

// EditEvent represents progress of an image editing session.
type EditEvent struct {
	ConversationID string
	SessionID      string
	Prompt         string
	Error          string
	Type           EditEventType
	Timestamp      time.Time
}

// NewEditSessionStartedEvent creates a session started event.
func NewEditSessionStartedEvent(conversationID, sessionID string) EditEvent {
	return EditEvent{
		ConversationID: conversationID,
		SessionID:      sessionID,
		Type:           EditEventSessionStarted,
		Timestamp:      time.Now(),
	}
}

// NewEditAppliedEvent creates an edit applied event.
func NewEditAppliedEvent(conversationID, sessionID, prompt string) EditEvent {
	return EditEvent{
		ConversationID: conversationID,
		SessionID:      sessionID,
		Prompt:         prompt,
		Type:           EditEventApplied,
		Timestamp:      time.Now(),
	}
}

// NewEditFailedEvent creates an edit failed event.
func NewEditFailedEvent(conversationID, sessionID, prompt, errText string) EditEvent {
	return EditEvent{
		ConversationID: conversationID,
		SessionID:      sessionID,
		Prompt:         prompt,
		Error:          errText,
		Type:           EditEventFailed,
		Timestamp:      time.Now(),
	}
}

// NewEditAnalyzedEvent creates an analysis completed event.
func NewEditAnalyzedEvent(conversationID, sessionID string) EditEvent {
	return EditEvent{
		ConversationID: conversationID,
		SessionID:      sessionID,
		Type:           EditEventAnalyzed,
		Timestamp:      time.Now(),
	}
}
