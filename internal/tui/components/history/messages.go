package history

// ClosedMsg is sent when the history overlay is dismissed.
type ClosedMsg struct{}

// SelectedMsg is sent when a conversation is chosen from the list.
type SelectedMsg struct {
	ConversationID string
}

// DeletedMsg is sent after a conversation is deleted.
type DeletedMsg struct {
	ConversationID string
}

// NewConversationMsg is sent to start a fresh conversation.
type NewConversationMsg struct{}
