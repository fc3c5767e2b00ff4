package orchestrator

import (
	"context"
	"time"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/pubsub"
)

// StartEditing opens (or resumes) the editing session rooted at the given
// image and makes it the active one. Resuming happens when the same image
// was edited before in the active conversation.
func (o *Orchestrator) StartEditing(ctx context.Context, img conversation.Image) error {
	session, created, err := o.conversations.EnsureEditingSession(ctx, img)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.editSessionID = session.ID
	o.mu.Unlock()

	convID := o.conversations.ActiveID()
	if created {
		o.hub.Edit.Publish(pubsub.EventCreated,
			events.NewEditSessionStartedEvent(convID, session.ID))
	} else {
		o.hub.Edit.Publish(pubsub.EventUpdated,
			events.NewEditSessionStartedEvent(convID, session.ID))
	}

	return nil
}

// CloseEditing clears the active editing session pointer. The session itself
// stays persisted and can be resumed by attaching the same image again.
func (o *Orchestrator) CloseEditing() {
	o.mu.Lock()
	o.editSessionID = ""
	o.mu.Unlock()
}

// EditSession returns the active editing session, or nil.
func (o *Orchestrator) EditSession() *conversation.EditingSession {
	o.mu.RLock()
	id := o.editSessionID
	o.mu.RUnlock()

	if id == "" {
		return nil
	}

	conv := o.conversations.Active()
	if conv == nil {
		return nil
	}
	for i := range conv.EditingSessions {
		if conv.EditingSessions[i].ID == id {
			return &conv.EditingSessions[i]
		}
	}
	return nil
}

// ApplyEdit applies a prompt to the active session's latest image. On
// success the edit is appended to the session history, advancing the image
// the next edit starts from. On failure nothing changes and the outcome is
// published as a panel-local error; the prompt is the caller's to keep.
func (o *Orchestrator) ApplyEdit(ctx context.Context, prompt string) error {
	session := o.EditSession()
	if session == nil {
		return ErrNoEditingSession
	}

	convID := o.conversations.ActiveID()
	source := session.CurrentImage()

	edited, usage, err := o.gateway.EditImage(ctx, source, prompt)
	if err != nil {
		o.hub.Edit.Publish(pubsub.EventFailed,
			events.NewEditFailedEvent(convID, session.ID, prompt, err.Error()))
		return err
	}

	event := conversation.EditEvent{
		Prompt:      prompt,
		EditedImage: edited,
		Timestamp:   time.Now(),
		Usage:       usage,
	}
	if err := o.conversations.AppendEditEvent(ctx, session.ID, event); err != nil {
		return err
	}

	o.hub.Edit.Publish(pubsub.EventUpdated,
		events.NewEditAppliedEvent(convID, session.ID, prompt))

	return nil
}

// Analyze runs image analysis on the active session's base image and stores
// the result on the session.
func (o *Orchestrator) Analyze(ctx context.Context) error {
	session := o.EditSession()
	if session == nil {
		return ErrNoEditingSession
	}

	convID := o.conversations.ActiveID()

	text, usage, err := o.gateway.AnalyzeImage(ctx, session.BaseImage, "")
	if err != nil {
		o.hub.Edit.Publish(pubsub.EventFailed,
			events.NewEditFailedEvent(convID, session.ID, "", err.Error()))
		return err
	}

	if err := o.conversations.SetAnalysis(ctx, session.ID, text, usage); err != nil {
		return err
	}

	o.hub.Edit.Publish(pubsub.EventUpdated,
		events.NewEditAnalyzedEvent(convID, session.ID))

	return nil
}
