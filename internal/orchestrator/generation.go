package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/gemini"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// DefaultGenerationParams are the panel's initial settings.
var DefaultGenerationParams = conversation.GenerationParams{
	Model:       "imagen-4.0-generate-001",
	AspectRatio: "1:1",
	Count:       1,
	OutputMIME:  "image/png",
}

// GenerationPanel holds the image generation workspace: the editable prompt
// and parameters, and the results of past requests, most recent first.
// Results live only on the panel; they are not persisted to conversations.
type GenerationPanel struct {
	mu        sync.RWMutex
	prompt    string
	params    conversation.GenerationParams
	results   []conversation.GenerationResult
	lastError string
	busy      bool
}

// NewGenerationPanel creates a panel with default parameters.
func NewGenerationPanel() *GenerationPanel {
	return &GenerationPanel{params: DefaultGenerationParams}
}

// Prompt returns the current prompt text.
func (p *GenerationPanel) Prompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompt
}

// SetPrompt replaces the prompt text.
func (p *GenerationPanel) SetPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompt = prompt
}

// Params returns the current generation parameters.
func (p *GenerationPanel) Params() conversation.GenerationParams {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.params
}

// SetParams replaces the generation parameters.
func (p *GenerationPanel) SetParams(params conversation.GenerationParams) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = params
}

// Results returns the accumulated results, most recent first.
func (p *GenerationPanel) Results() []conversation.GenerationResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]conversation.GenerationResult(nil), p.results...)
}

// LastError returns the panel-local failure text from the latest request,
// or "" after a success.
func (p *GenerationPanel) LastError() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

// Busy reports whether a generation request is in flight.
func (p *GenerationPanel) Busy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.busy
}

// Recall reopens the panel pre-filled with the prompt and parameters of a
// past result.
func (p *GenerationPanel) Recall(result conversation.GenerationResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompt = result.Prompt
	p.params = result.Params
}

func (p *GenerationPanel) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return false
	}
	p.busy = true
	return true
}

func (p *GenerationPanel) finish(result *conversation.GenerationResult, failure string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
	p.lastError = failure
	if result != nil {
		p.results = append([]conversation.GenerationResult{*result}, p.results...)
		// A success clears the prompt for the next request; failures keep it
		// so the user can tweak and retry.
		p.prompt = ""
	}
}

// Panel returns the generation panel.
func (o *Orchestrator) Panel() *GenerationPanel {
	return o.panel
}

// Generate runs an image generation request with the panel's prompt and
// parameters. The request runs in the background; progress and outcome are
// published on the Generation broker. A zero-image result or transport
// failure surfaces as panel-local error text with the prompt preserved.
func (o *Orchestrator) Generate(ctx context.Context) error {
	prompt := o.panel.Prompt()
	if prompt == "" {
		return ErrEmptySubmit
	}
	if !o.panel.begin() {
		return ErrBusy
	}

	params := o.panel.Params()
	o.hub.Generation.Publish(pubsub.EventStarted, events.NewGenerationStartedEvent(prompt))

	go func() {
		images, err := o.gateway.GenerateImages(ctx, prompt, params)
		if err != nil {
			o.panel.finish(nil, generationFailureText(err))
			o.hub.Generation.Publish(pubsub.EventFailed,
				events.NewGenerationFailedEvent(prompt, generationFailureText(err)))
			return
		}

		result := conversation.GenerationResult{
			Images: images,
			Prompt: prompt,
			Params: params,
		}
		o.panel.finish(&result, "")
		o.hub.Generation.Publish(pubsub.EventCompleted,
			events.NewGenerationCompletedEvent(prompt, len(images)))
	}()

	return nil
}

func generationFailureText(err error) string {
	if errors.Is(err, gemini.ErrGenerationFailed) {
		return "No images were generated. Try rephrasing your prompt."
	}
	return "Image generation failed: " + err.Error()
}
