package pubsub

import (
	"sync"

	"github.com/rbarros/gemsuite/internal/events"
)

// Hub is the central container for all domain brokers.
type Hub struct {
	Chat         *Broker[events.ChatEvent]
	Conversation *Broker[events.ConversationEvent]
	Generation   *Broker[events.GenerationEvent]
	Edit         *Broker[events.EditEvent]

	done chan struct{}
}

// NewHub creates a new Hub with all domain brokers initialized.
func NewHub() *Hub {
	return &Hub{
		Chat:         NewBroker[events.ChatEvent]("chat"),
		Conversation: NewBroker[events.ConversationEvent]("conversation"),
		Generation:   NewBroker[events.GenerationEvent]("generation"),
		Edit:         NewBroker[events.EditEvent]("edit"),
		done:         make(chan struct{}),
	}
}

// Shutdown gracefully shuts down all brokers.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
		return // Already shut down
	default:
		close(h.done)
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() { defer wg.Done(); h.Chat.Shutdown() }()
	go func() { defer wg.Done(); h.Conversation.Shutdown() }()
	go func() { defer wg.Done(); h.Generation.Shutdown() }()
	go func() { defer wg.Done(); h.Edit.Shutdown() }()

	wg.Wait()
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// AllMetrics returns metrics for all brokers.
func (h *Hub) AllMetrics() []BrokerMetrics {
	return []BrokerMetrics{
		h.Chat.Metrics(),
		h.Conversation.Metrics(),
		h.Generation.Metrics(),
		h.Edit.Metrics(),
	}
}
