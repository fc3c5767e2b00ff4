package conversation

import "context"

// Store defines the interface for conversation persistence. Records are
// written and replaced wholesale; ordering is the caller's concern.
type Store interface {
	// Get retrieves a conversation by ID.
	Get(ctx context.Context, id string) (*Conversation, error)

	// List returns all conversations.
	List(ctx context.Context) ([]*Conversation, error)

	// Search returns conversations whose title matches the keyword.
	Search(ctx context.Context, keyword string) ([]*Conversation, error)

	// Upsert inserts the conversation or replaces the stored record.
	Upsert(ctx context.Context, conv *Conversation) error

	// Delete removes a conversation by ID.
	Delete(ctx context.Context, id string) error
}
