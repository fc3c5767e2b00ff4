package events

import "time"

// GenerationEventType represents image generation event types.
type GenerationEventType string

// Generation event type constants.
const (
	GenerationEventStarted   GenerationEventType = "started"
	GenerationEventCompleted GenerationEventType = "completed"
	GenerationEventFailed    GenerationEventType = "failed"
)

// GenerationEvent represents progress of an image generation request. The
// images themselves stay on the generation panel; events carry only the
// prompt and outcome.
type GenerationEvent struct {
	Prompt     string
	ImageCount int
	Error      string
	Type       GenerationEventType
	Timestamp  time.Time
}

// NewGenerationStartedEvent creates a generation started event.
func NewGenerationStartedEvent(prompt string) GenerationEvent {
	return GenerationEvent{
		Prompt:    prompt,
		Type:      GenerationEventStarted,
		Timestamp: time.Now(),
	}
}

// NewGenerationCompletedEvent creates a generation completed event.
func NewGenerationCompletedEvent(prompt string, imageCount int) GenerationEvent {
	return GenerationEvent{
		Prompt:     prompt,
		ImageCount: imageCount,
		Type:       GenerationEventCompleted,
		Timestamp:  time.Now(),
	}
}

// NewGenerationFailedEvent creates a generation failed event.
func NewGenerationFailedEvent(prompt, errText string) GenerationEvent {
	return GenerationEvent{
		Prompt:    prompt,
		Error:     errText,
		Type:      GenerationEventFailed,
		Timestamp: time.Now(),
	}
}
