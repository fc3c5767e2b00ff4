// Package orchestrator coordinates chat turns, image generation, and image
// editing between the conversation service and the Gemini gateway, publishing
// progress on the hub.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/gemini"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// Orchestrator errors.
var (
	// ErrBusy is returned when a submit races an in-flight response for the
	// same conversation.
	ErrBusy = errors.New("a response is already streaming for this conversation")

	// ErrEmptySubmit is returned when a submit carries neither text nor image.
	ErrEmptySubmit = errors.New("nothing to submit")

	// ErrNoEditingSession is returned when an edit operation runs without an
	// active editing session.
	ErrNoEditingSession = errors.New("no active editing session")
)

// Gateway is the slice of the Gemini client the orchestrator needs.
type Gateway interface {
	StreamChatCompletion(ctx context.Context, history []conversation.Message, model string) <-chan gemini.StreamChunk
	GenerateImages(ctx context.Context, prompt string, params conversation.GenerationParams) ([]conversation.Image, error)
	EditImage(ctx context.Context, img conversation.Image, prompt string) (conversation.Image, *conversation.Usage, error)
	AnalyzeImage(ctx context.Context, img conversation.Image, prompt string) (string, *conversation.Usage, error)
}

// Orchestrator drives the per-conversation Idle/AwaitingResponse state
// machine. Each conversation has at most one in-flight request, tracked by
// its cancel func.
type Orchestrator struct {
	gateway       Gateway
	conversations *conversation.Service
	hub           *pubsub.Hub
	panel         *GenerationPanel

	mu             sync.RWMutex
	activeRequests map[string]context.CancelFunc
	editSessionID  string
}

// New creates an orchestrator.
func New(gateway Gateway, conversations *conversation.Service, hub *pubsub.Hub) *Orchestrator {
	return &Orchestrator{
		gateway:        gateway,
		conversations:  conversations,
		hub:            hub,
		panel:          NewGenerationPanel(),
		activeRequests: make(map[string]context.CancelFunc),
	}
}

// Conversations returns the underlying conversation service.
func (o *Orchestrator) Conversations() *conversation.Service {
	return o.conversations
}

// Submit handles a chat submit: it persists the user message, then streams
// the model response in the background. Attaching an image with an empty
// draft routes to the editing flow instead of chat. Returns ErrBusy when the
// active conversation is already awaiting a response.
func (o *Orchestrator) Submit(ctx context.Context, draft string, attached *conversation.Image) error {
	draft = strings.TrimSpace(draft)

	if draft == "" && attached == nil {
		return ErrEmptySubmit
	}

	// An image with no text means the user wants to edit it, not chat.
	if draft == "" && attached != nil {
		return o.StartEditing(ctx, *attached)
	}

	if convID := o.conversations.ActiveID(); convID != "" && o.IsBusy(convID) {
		return ErrBusy
	}

	var parts []conversation.Part
	if attached != nil {
		parts = append(parts, conversation.NewImagePart(*attached))
	}
	parts = append(parts, conversation.NewTextPart(draft))

	userMsg := conversation.Message{
		ID:     conversation.NewID(),
		Author: conversation.AuthorUser,
		Parts:  parts,
		SentAt: time.Now(),
	}

	// Optimistic append: the user message is persisted before the request
	// goes out, so a failed stream never loses it.
	convID, _, err := o.conversations.AppendMessage(ctx, userMsg)
	if err != nil {
		return err
	}

	history := append([]conversation.Message(nil), o.conversations.Active().Messages...)
	model := o.conversations.Active().ModelUsed

	streamCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	if _, busy := o.activeRequests[convID]; busy {
		o.mu.Unlock()
		cancel()
		return ErrBusy
	}
	o.activeRequests[convID] = cancel
	o.mu.Unlock()

	messageID := conversation.NewID()
	o.hub.Chat.Publish(pubsub.EventStarted, events.NewChatStartedEvent(convID, messageID))

	go o.streamResponse(streamCtx, cancel, convID, messageID, history, model)

	return nil
}

// streamResponse consumes the stream and persists the final model message on
// the conversation that originated it, whether or not it is still active.
func (o *Orchestrator) streamResponse(ctx context.Context, cancel context.CancelFunc, convID, messageID string, history []conversation.Message, model string) {
	defer cancel()

	var text strings.Builder
	var usage *conversation.Usage
	var streamErr error

	chunks := o.gateway.StreamChatCompletion(ctx, history, model)
	for chunk := range chunks {
		if chunk.Text != "" {
			text.WriteString(chunk.Text)
			o.hub.Chat.Publish(pubsub.EventProgress,
				events.NewChatTextDeltaEvent(convID, messageID, chunk.Text))
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		if chunk.Err != nil {
			streamErr = chunk.Err
		}
	}

	if ctx.Err() != nil {
		// Cancelled: keep whatever arrived, marked as such.
		if text.Len() > 0 {
			if err := o.saveModelMessage(convID, messageID, text.String(), usage); err != nil {
				debug.Error("orchestrator", "persisting cancelled response", err)
			}
		}
		o.clearActiveRequest(convID)
		o.hub.Chat.Publish(pubsub.EventCompleted, events.NewChatCancelledEvent(convID, messageID))
		return
	}

	// Errors were already folded into the text as a visible apology chunk;
	// the turn completes either way and the conversation returns to idle.
	saveErr := o.saveModelMessage(convID, messageID, text.String(), usage)
	o.clearActiveRequest(convID)

	if saveErr != nil {
		// The transcript on screen now diverges from the store; surface the
		// turn as failed rather than pretending the save landed.
		debug.Error("orchestrator", "persisting model response", saveErr)
		o.hub.Chat.Publish(pubsub.EventFailed, events.NewChatCompletedEvent(convID, messageID, usageInfo(usage)))
		return
	}
	if streamErr != nil {
		o.hub.Chat.Publish(pubsub.EventFailed, events.NewChatCompletedEvent(convID, messageID, usageInfo(usage)))
		return
	}
	o.hub.Chat.Publish(pubsub.EventCompleted, events.NewChatCompletedEvent(convID, messageID, usageInfo(usage)))
}

func (o *Orchestrator) saveModelMessage(convID, messageID, text string, usage *conversation.Usage) error {
	msg := conversation.Message{
		ID:     messageID,
		Author: conversation.AuthorModel,
		Parts:  []conversation.Part{conversation.NewTextPart(text)},
		Usage:  usage,
		SentAt: time.Now(),
	}

	// The stream context is done by now; the save gets its own deadline.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return o.conversations.AppendMessageTo(saveCtx, convID, msg)
}

// Cancel aborts the in-flight response for a conversation, if any.
func (o *Orchestrator) Cancel(convID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cancel, ok := o.activeRequests[convID]; ok {
		cancel()
		delete(o.activeRequests, convID)
		return true
	}
	return false
}

// CancelActive aborts the in-flight response for the active conversation.
func (o *Orchestrator) CancelActive() bool {
	return o.Cancel(o.conversations.ActiveID())
}

// IsBusy reports whether a conversation is awaiting a response.
func (o *Orchestrator) IsBusy(convID string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.activeRequests[convID]
	return ok
}

func (o *Orchestrator) clearActiveRequest(convID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeRequests, convID)
}

func usageInfo(u *conversation.Usage) *events.UsageInfo {
	if u == nil {
		return nil
	}
	return &events.UsageInfo{
		PromptTokens:   u.PromptTokens,
		ResponseTokens: u.ResponseTokens,
		TotalTokens:    u.TotalTokens,
	}
}
