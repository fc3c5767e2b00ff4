package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the default channel buffer for subscribers.
const DefaultBufferSize = 64

// BrokerOption configures a Broker.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize sets the subscriber channel buffer size.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.bufferSize = size
	}
}

// Broker is a type-safe pub/sub broker. Publishing never blocks: events for
// slow subscribers are dropped, and the drop count is tracked for debugging.
type Broker[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	name       string
	subs       map[chan Event[T]]struct{}
	mu         sync.RWMutex
	done       chan struct{}
	bufferSize int

	publishCount atomic.Int64
	dropCount    atomic.Int64
}

// NewBroker creates a new typed broker with optional configuration.
func NewBroker[T any](name string, opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		name:       name,
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: DefaultBufferSize,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the broker's name for debugging.
func (b *Broker[T]) Name() string {
	return b.name
}

// Subscribe creates a new subscription that receives events until the context
// is cancelled. The returned channel is closed when the context is done or
// the broker shuts down.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		// Shutdown may have removed and closed the channel already.
		if _, ok := b.subs[sub]; !ok {
			return
		}

		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish sends an event to all subscribers, dropping it for any subscriber
// whose buffer is full.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()

	select {
	case <-b.done:
		b.mu.RUnlock()
		return
	default:
	}

	subscribers := make([]chan Event[T], 0, len(b.subs))
	for sub := range b.subs {
		subscribers = append(subscribers, sub)
	}
	b.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.publishCount.Add(1)

	for _, sub := range subscribers {
		select {
		case sub <- event:
		default:
			b.dropCount.Add(1)
		}
	}
}

// Shutdown closes all subscriber channels and stops the broker.
func (b *Broker[T]) Shutdown() {
	select {
	case <-b.done:
		return // Already shut down
	default:
		close(b.done)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// IsShutdown returns true if the broker has been shut down.
func (b *Broker[T]) IsShutdown() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Metrics returns the broker's counters for debugging.
func (b *Broker[T]) Metrics() BrokerMetrics {
	return BrokerMetrics{
		Name:            b.name,
		PublishCount:    b.publishCount.Load(),
		DropCount:       b.dropCount.Load(),
		SubscriberCount: b.SubscriberCount(),
	}
}

// BrokerMetrics contains broker statistics for debugging.
type BrokerMetrics struct {
	Name            string
	PublishCount    int64
	DropCount       int64
	SubscriberCount int
}
