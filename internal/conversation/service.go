package conversation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// Service manages conversations with pub/sub event publishing. It tracks the
// active conversation and keeps an in-memory copy of it so appends during a
// streaming response merge against the same record they started from.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.ConversationEvent]

	mu     sync.Mutex
	active string
	cached *Conversation
	model  string
}

// NewService creates a new conversation service. The model is snapshotted
// onto each conversation at creation time.
func NewService(store Store, broker *pubsub.Broker[events.ConversationEvent], model string) *Service {
	return &Service{
		store:  store,
		broker: broker,
		model:  model,
	}
}

// SetModel sets the chat model used for conversations created from now on.
// Existing conversations keep the model they were created with.
func (s *Service) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// Model returns the chat model for new conversations.
func (s *Service) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// ActiveID returns the active conversation ID, or "" for a fresh session.
func (s *Service) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Active returns the in-memory copy of the active conversation, or nil.
func (s *Service) Active() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached
}

// Select loads a conversation from the store and makes it active.
func (s *Service) Select(ctx context.Context, id string) (*Conversation, error) {
	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active = conv.ID
	s.cached = conv
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewConversationSwitchedEvent(conv.ID, conv.Title))

	return conv, nil
}

// StartNew clears the active pointer so the next appended message lazily
// creates a fresh conversation. Nothing is persisted until then.
func (s *Service) StartNew() {
	s.mu.Lock()
	s.active = ""
	s.cached = nil
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewConversationSwitchedEvent("", ""))
}

// AppendMessage appends a message to the active conversation, creating and
// persisting the conversation first if none is active. It returns the
// conversation ID and whether a new conversation was created.
func (s *Service) AppendMessage(ctx context.Context, msg Message) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		conv := &Conversation{
			ID:        NewID(),
			Title:     DeriveTitle(msg.TextContent()),
			ModelUsed: s.model,
			Messages:  []Message{msg},
			CreatedAt: time.Now(),
		}
		if conv.Title == "" {
			conv.Title = "New Conversation"
		}

		if err := s.store.Upsert(ctx, conv); err != nil {
			return "", false, fmt.Errorf("creating conversation: %w", err)
		}

		s.active = conv.ID
		s.cached = conv

		s.publish(pubsub.EventCreated, events.NewConversationCreatedEvent(conv.ID, conv.Title))

		return conv.ID, true, nil
	}

	conv, err := s.activeLocked(ctx)
	if err != nil {
		return "", false, err
	}

	conv.Messages = append(conv.Messages, msg)

	if err := s.store.Upsert(ctx, conv); err != nil {
		return "", false, fmt.Errorf("appending message: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return conv.ID, false, nil
}

// AppendMessageTo appends a message to a specific conversation, regardless
// of which one is active. A streamed response is saved through this so it
// lands on the conversation that originated it even after the user switches.
func (s *Service) AppendMessageTo(ctx context.Context, id string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.getLocked(ctx, id)
	if err != nil {
		return err
	}

	conv.Messages = append(conv.Messages, msg)

	if err := s.store.Upsert(ctx, conv); err != nil {
		return fmt.Errorf("appending message: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return nil
}

// ToggleFavorite flips the favorite flag of a conversation.
func (s *Service) ToggleFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.getLocked(ctx, id)
	if err != nil {
		return err
	}

	conv.IsFavorite = !conv.IsFavorite

	if err := s.store.Upsert(ctx, conv); err != nil {
		return fmt.Errorf("toggling favorite: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return nil
}

// Delete removes a conversation. Deleting the active conversation clears the
// active pointer.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.active == id {
		s.active = ""
		s.cached = nil
	}
	s.mu.Unlock()

	s.publish(pubsub.EventDeleted, events.NewConversationDeletedEvent(id))

	return nil
}

// EnsureEditingSession returns the editing session rooted at the given base
// image, creating and persisting it if none exists. Matching is an exact
// comparison of the base64 payloads. When no conversation is active, one is
// created around the session. Reports whether a new session was created.
func (s *Service) EnsureEditingSession(ctx context.Context, img Image) (*EditingSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		conv := &Conversation{
			ID:        NewID(),
			Title:     "Image Editing Session",
			ModelUsed: s.model,
			CreatedAt: time.Now(),
		}
		if err := s.store.Upsert(ctx, conv); err != nil {
			return nil, false, fmt.Errorf("creating conversation: %w", err)
		}
		s.active = conv.ID
		s.cached = conv
		s.publish(pubsub.EventCreated, events.NewConversationCreatedEvent(conv.ID, conv.Title))
	}

	conv, err := s.activeLocked(ctx)
	if err != nil {
		return nil, false, err
	}

	if existing := conv.FindEditingSession(img.Base64); existing != nil {
		return existing, false, nil
	}

	session := EditingSession{
		ID:        uuid.New().String(),
		BaseImage: img,
	}
	conv.EditingSessions = append(conv.EditingSessions, session)

	if err := s.store.Upsert(ctx, conv); err != nil {
		return nil, false, fmt.Errorf("creating editing session: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return &conv.EditingSessions[len(conv.EditingSessions)-1], true, nil
}

// AppendEditEvent appends an edit to a session's history and persists the
// conversation.
func (s *Service) AppendEditEvent(ctx context.Context, sessionID string, event EditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, session, err := s.sessionLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	session.History = append(session.History, event)

	if err := s.store.Upsert(ctx, conv); err != nil {
		return fmt.Errorf("appending edit event: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return nil
}

// SetAnalysis stores an image analysis result on a session.
func (s *Service) SetAnalysis(ctx context.Context, sessionID, result string, usage *Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, session, err := s.sessionLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	session.AnalysisResult = result
	session.AnalysisUsage = usage

	if err := s.store.Upsert(ctx, conv); err != nil {
		return fmt.Errorf("setting analysis: %w", err)
	}

	s.publish(pubsub.EventUpdated, events.NewConversationUpdatedEvent(conv.ID, conv.Title))

	return nil
}

// Get retrieves a conversation by ID.
func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	return s.store.Get(ctx, id)
}

// List returns all conversations, most recently created first.
func (s *Service) List(ctx context.Context) ([]*Conversation, error) {
	conversations, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByRecency(conversations)
	return conversations, nil
}

// Favorites returns favorite conversations, most recently created first.
func (s *Service) Favorites(ctx context.Context) ([]*Conversation, error) {
	conversations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	favorites := conversations[:0]
	for _, conv := range conversations {
		if conv.IsFavorite {
			favorites = append(favorites, conv)
		}
	}
	return favorites, nil
}

// Search returns conversations matching the title keyword, most recently
// created first.
func (s *Service) Search(ctx context.Context, keyword string) ([]*Conversation, error) {
	conversations, err := s.store.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	sortByRecency(conversations)
	return conversations, nil
}

// activeLocked returns the cached active conversation, reloading it from the
// store when the cache is missing or points at a different record. The
// caller must hold s.mu.
func (s *Service) activeLocked(ctx context.Context) (*Conversation, error) {
	if s.cached != nil && s.cached.ID == s.active {
		return s.cached, nil
	}

	conv, err := s.store.Get(ctx, s.active)
	if err != nil {
		return nil, err
	}
	s.cached = conv
	return conv, nil
}

// getLocked returns the cached copy when id is active, otherwise loads from
// the store. The caller must hold s.mu.
func (s *Service) getLocked(ctx context.Context, id string) (*Conversation, error) {
	if id == s.active && s.active != "" {
		return s.activeLocked(ctx)
	}
	return s.store.Get(ctx, id)
}

// sessionLocked finds an editing session by ID in the active conversation.
// The caller must hold s.mu.
func (s *Service) sessionLocked(ctx context.Context, sessionID string) (*Conversation, *EditingSession, error) {
	if s.active == "" {
		return nil, nil, ErrNotFound
	}

	conv, err := s.activeLocked(ctx)
	if err != nil {
		return nil, nil, err
	}

	for i := range conv.EditingSessions {
		if conv.EditingSessions[i].ID == sessionID {
			return conv, &conv.EditingSessions[i], nil
		}
	}

	return nil, nil, ErrNotFound
}

func (s *Service) publish(eventType pubsub.EventType, event events.ConversationEvent) {
	if s.broker != nil {
		s.broker.Publish(eventType, event)
	}
}

func sortByRecency(conversations []*Conversation) {
	sort.Slice(conversations, func(i, j int) bool {
		// Creation times have millisecond resolution, so ties are possible;
		// the time-based IDs break them.
		if conversations[i].CreatedAt.Equal(conversations[j].CreatedAt) {
			return conversations[i].ID > conversations[j].ID
		}
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
}
