package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBrokerSubscribePublish(t *testing.T) {
	t.Run("single subscriber receives events", func(t *testing.T) {
		broker := NewBroker[string]("test")
		defer broker.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := broker.Subscribe(ctx)

		broker.Publish(EventCreated, "hello")

		select {
		case event := <-events:
			if event.Type != EventCreated || event.Payload != "hello" {
				t.Errorf("unexpected event: %+v", event)
			}
		case <-time.After(100 * time.Millisecond):
			t.Error("timeout waiting for event")
		}
	})

	t.Run("multiple subscribers receive same event", func(t *testing.T) {
		broker := NewBroker[int]("test")
		defer broker.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub1 := broker.Subscribe(ctx)
		sub2 := broker.Subscribe(ctx)

		broker.Publish(EventUpdated, 42)

		for i, sub := range []<-chan Event[int]{sub1, sub2} {
			select {
			case event := <-sub:
				if event.Payload != 42 {
					t.Errorf("subscriber %d: expected 42, got %d", i, event.Payload)
				}
			case <-time.After(100 * time.Millisecond):
				t.Errorf("subscriber %d: timeout", i)
			}
		}
	})

	t.Run("cancelled context unsubscribes", func(t *testing.T) {
		broker := NewBroker[string]("test")
		defer broker.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())

		events := broker.Subscribe(ctx)

		if broker.SubscriberCount() != 1 {
			t.Errorf("expected 1 subscriber, got %d", broker.SubscriberCount())
		}

		cancel()
		time.Sleep(50 * time.Millisecond) // Allow cleanup goroutine to run

		if broker.SubscriberCount() != 0 {
			t.Errorf("expected 0 subscribers after cancel, got %d", broker.SubscriberCount())
		}

		if _, ok := <-events; ok {
			t.Error("expected channel to be closed")
		}
	})

	t.Run("shutdown closes all subscribers", func(t *testing.T) {
		broker := NewBroker[string]("test")

		ctx := context.Background()
		sub1 := broker.Subscribe(ctx)
		sub2 := broker.Subscribe(ctx)

		broker.Shutdown()

		if _, ok := <-sub1; ok {
			t.Error("sub1 should be closed")
		}
		if _, ok := <-sub2; ok {
			t.Error("sub2 should be closed")
		}
	})

	t.Run("publish after shutdown is no-op", func(t *testing.T) {
		broker := NewBroker[string]("test")
		broker.Shutdown()

		// Should not panic
		broker.Publish(EventCreated, "test")
	})

	t.Run("subscribe after shutdown returns closed channel", func(t *testing.T) {
		broker := NewBroker[string]("test")
		broker.Shutdown()

		ch := broker.Subscribe(context.Background())

		if _, ok := <-ch; ok {
			t.Error("channel should be closed")
		}
	})
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	broker := NewBroker[int]("test", WithBufferSize[int](2))
	defer broker.Shutdown()

	ch := broker.Subscribe(context.Background())

	// Fill buffer, then publish one more with no receiver draining.
	broker.Publish(EventCreated, 1)
	broker.Publish(EventCreated, 2)
	broker.Publish(EventCreated, 3)

	metrics := broker.Metrics()
	if metrics.DropCount != 1 {
		t.Errorf("expected 1 dropped event, got %d", metrics.DropCount)
	}

	if e := <-ch; e.Payload != 1 {
		t.Errorf("expected 1, got %d", e.Payload)
	}
	if e := <-ch; e.Payload != 2 {
		t.Errorf("expected 2, got %d", e.Payload)
	}
}

func TestBrokerConcurrency(t *testing.T) {
	broker := NewBroker[int]("test", WithBufferSize[int](256))
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())

	const numSubscribers = 10
	const numPublishes = 100

	var wg sync.WaitGroup
	received := make([]int, numSubscribers)

	for i := 0; i < numSubscribers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			events := broker.Subscribe(ctx)
			for range events {
				received[idx]++
			}
		}(i)
	}

	// Wait for subscriptions
	time.Sleep(50 * time.Millisecond)

	var pubWg sync.WaitGroup
	for i := 0; i < numPublishes; i++ {
		pubWg.Add(1)
		go func(n int) {
			defer pubWg.Done()
			broker.Publish(EventCreated, n)
		}(i)
	}
	pubWg.Wait()

	cancel()
	wg.Wait()

	for i, count := range received {
		if count < numPublishes/2 { // Allow some drops due to timing
			t.Errorf("subscriber %d received too few events: %d", i, count)
		}
	}
}

func TestBrokerMetrics(t *testing.T) {
	broker := NewBroker[string]("test")
	defer broker.Shutdown()

	ctx := context.Background()
	_ = broker.Subscribe(ctx)
	_ = broker.Subscribe(ctx)

	broker.Publish(EventCreated, "1")
	broker.Publish(EventCreated, "2")

	metrics := broker.Metrics()

	if metrics.Name != "test" {
		t.Errorf("expected name 'test', got %q", metrics.Name)
	}
	if metrics.SubscriberCount != 2 {
		t.Errorf("expected 2 subscribers, got %d", metrics.SubscriberCount)
	}
	if metrics.PublishCount != 2 {
		t.Errorf("expected 2 publishes, got %d", metrics.PublishCount)
	}
}

func TestBrokerIsShutdown(t *testing.T) {
	broker := NewBroker[string]("test")

	if broker.IsShutdown() {
		t.Error("broker should not be shut down initially")
	}

	broker.Shutdown()

	if !broker.IsShutdown() {
		t.Error("broker should be shut down after Shutdown()")
	}

	// Double shutdown should be safe
	broker.Shutdown()
	if !broker.IsShutdown() {
		t.Error("broker should still be shut down")
	}
}
