// Package conversation provides conversation management with persistence.
package conversation

import (
	"strconv"
	"sync"
	"time"

	"github.com/rivo/uniseg"
)

// Author represents the author of a message.
type Author string

// Author constants.
const (
	AuthorUser  Author = "user"
	AuthorModel Author = "model"
)

// Conversation represents a persisted chat session, including any image
// editing sessions that were started inside it.
type Conversation struct {
	ID              string
	Title           string
	IsFavorite      bool
	ModelUsed       string
	Messages        []Message
	EditingSessions []EditingSession
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Message represents a single conversation message.
type Message struct {
	ID     string    `json:"id"`
	Author Author    `json:"author"`
	Parts  []Part    `json:"parts"`
	Usage  *Usage    `json:"usage,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// PartType represents the type of a message part.
type PartType string

// Part type constants.
const (
	PartTypeText             PartType = "text"
	PartTypeImage            PartType = "image"
	PartTypeGenerationResult PartType = "generation_result"
)

// Part represents a content part of a message. Exactly one of the payload
// fields is set, selected by Type.
type Part struct {
	Type       PartType          `json:"type"`
	Text       string            `json:"text,omitempty"`
	Image      *Image            `json:"image,omitempty"`
	Generation *GenerationResult `json:"generation,omitempty"`
}

// Image represents an image payload. URL is a display handle; Base64 and
// MIMEType carry the raw data sent to or received from the API.
type Image struct {
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64"`
	MIMEType string `json:"mime_type"`
}

// GenerationResult represents the outcome of an image generation request,
// kept with the prompt and parameters so it can be recalled later.
type GenerationResult struct {
	Images []Image          `json:"images"`
	Prompt string           `json:"prompt"`
	Params GenerationParams `json:"params"`
}

// GenerationParams are the user-tunable image generation parameters.
type GenerationParams struct {
	Model       string `json:"model"`
	AspectRatio string `json:"aspect_ratio"`
	Count       int    `json:"count"`
	OutputMIME  string `json:"output_mime,omitempty"`
}

// Usage holds token accounting for a model response.
type Usage struct {
	PromptTokens   int64 `json:"prompt_tokens"`
	ResponseTokens int64 `json:"response_tokens"`
	TotalTokens    int64 `json:"total_tokens"`
}

// EditingSession represents an iterative image editing session rooted at a
// base image. History grows by one EditEvent per successful edit.
type EditingSession struct {
	ID             string      `json:"id"`
	BaseImage      Image       `json:"base_image"`
	History        []EditEvent `json:"history"`
	AnalysisResult string      `json:"analysis_result,omitempty"`
	AnalysisUsage  *Usage      `json:"analysis_usage,omitempty"`
}

// EditEvent represents one applied edit within an editing session.
type EditEvent struct {
	Prompt      string    `json:"prompt"`
	EditedImage Image     `json:"edited_image"`
	Timestamp   time.Time `json:"timestamp"`
	Usage       *Usage    `json:"usage,omitempty"`
}

// TextContent returns the text of the first text part.
func (m *Message) TextContent() string {
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			return p.Text
		}
	}
	return ""
}

// Images returns all image payloads attached directly to the message.
func (m *Message) Images() []Image {
	var images []Image
	for _, p := range m.Parts {
		if p.Type == PartTypeImage && p.Image != nil {
			images = append(images, *p.Image)
		}
	}
	return images
}

// CurrentImage returns the most recently edited image, or the base image
// when no edit has been applied yet.
func (s *EditingSession) CurrentImage() Image {
	if len(s.History) > 0 {
		return s.History[len(s.History)-1].EditedImage
	}
	return s.BaseImage
}

// FindEditingSession returns the editing session whose base image matches
// the given base64 payload exactly, or nil.
func (c *Conversation) FindEditingSession(base64 string) *EditingSession {
	for i := range c.EditingSessions {
		if c.EditingSessions[i].BaseImage.Base64 == base64 {
			return &c.EditingSessions[i]
		}
	}
	return nil
}

// NewTextPart creates a new text part.
func NewTextPart(text string) Part {
	return Part{
		Type: PartTypeText,
		Text: text,
	}
}

// NewImagePart creates a new image part.
func NewImagePart(img Image) Part {
	return Part{
		Type:  PartTypeImage,
		Image: &img,
	}
}

// NewGenerationResultPart creates a new generation result part.
func NewGenerationResultPart(result GenerationResult) Part {
	return Part{
		Type:       PartTypeGenerationResult,
		Generation: &result,
	}
}

// titleMaxGraphemes is the display length a derived title is truncated to.
const titleMaxGraphemes = 40

// DeriveTitle builds a conversation title from the first user message text,
// truncated to a fixed number of grapheme clusters.
func DeriveTitle(text string) string {
	if uniseg.GraphemeClusterCount(text) <= titleMaxGraphemes {
		return text
	}

	g := uniseg.NewGraphemes(text)
	var end, n int
	for g.Next() {
		n++
		if n > titleMaxGraphemes {
			break
		}
		_, end = g.Positions()
	}
	return text[:end] + "..."
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a time-based identifier. IDs issued by the same process are
// strictly increasing even when the clock has not advanced.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id

	return strconv.FormatInt(id, 10)
}
