package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// Sender is the slice of tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIBridge subscribes to the hub brokers and forwards their events to the
// running Bubble Tea program.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub    *pubsub.Hub
	sender Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIBridge creates a bridge between the hub and the program.
func NewTUIBridge(hub *pubsub.Hub, sender Sender) *TUIBridge {
	return &TUIBridge{hub: hub, sender: sender}
}

// Start begins forwarding events. Call Stop to shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(4)
	go b.subscribeChat()
	go b.subscribeConversation()
	go b.subscribeGeneration()
	go b.subscribeEdit()

	debug.Event("bridge", "start", "event forwarding started")
}

// Stop shuts down the forwarding goroutines and waits for them to exit.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "event forwarding stopped")
}

func (b *TUIBridge) subscribeChat() {
	defer b.wg.Done()

	ch := b.hub.Chat.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.sender.Send(ChatEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeConversation() {
	defer b.wg.Done()

	ch := b.hub.Conversation.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.sender.Send(ConversationEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeGeneration() {
	defer b.wg.Done()

	ch := b.hub.Generation.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.sender.Send(GenerationEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeEdit() {
	defer b.wg.Done()

	ch := b.hub.Edit.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.sender.Send(EditEventMsg{Event: event})
		}
	}
}
