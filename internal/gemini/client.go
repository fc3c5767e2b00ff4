// Package gemini provides a REST client for the Gemini API: streaming chat,
// image generation and editing, image analysis, and model metadata lookups.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rbarros/gemsuite/internal/conversation"
)

// DefaultBaseURL is the production Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// systemInstruction is sent with every chat request.
const systemInstruction = "You are a helpful and creative AI assistant. Your name is Gemini."

// Client is a Gemini API client. The zero value is not usable; construct it
// with NewClient.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Gemini API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		// No overall timeout: streaming responses stay open for as long as
		// the model keeps talking. Cancellation comes from the context.
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Wire types for the generativelanguage REST surface.

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type wireUsage struct {
	PromptTokenCount     int64 `json:"promptTokenCount"`
	CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	TotalTokenCount      int64 `json:"totalTokenCount"`
}

type generateRequest struct {
	Contents          []wireContent         `json:"contents"`
	SystemInstruction *wireContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *wireGenerationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata *wireUsage `json:"usageMetadata"`
}

// contentsFromHistory converts conversation messages to wire contents.
// Generation results stay panel-local and are not replayed to the model.
func contentsFromHistory(history []conversation.Message) []wireContent {
	contents := make([]wireContent, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Author == conversation.AuthorModel {
			role = "model"
		}

		var parts []wirePart
		for _, p := range msg.Parts {
			switch p.Type {
			case conversation.PartTypeText:
				if p.Text != "" {
					parts = append(parts, wirePart{Text: p.Text})
				}
			case conversation.PartTypeImage:
				if p.Image != nil {
					parts = append(parts, wirePart{InlineData: &wireInlineData{
						MIMEType: p.Image.MIMEType,
						Data:     p.Image.Base64,
					}})
				}
			case conversation.PartTypeGenerationResult:
				// Skipped: generated images are not part of the chat context.
			}
		}

		if len(parts) == 0 {
			continue
		}
		contents = append(contents, wireContent{Role: role, Parts: parts})
	}
	return contents
}

func usageFromWire(w *wireUsage) *conversation.Usage {
	if w == nil {
		return nil
	}
	return &conversation.Usage{
		PromptTokens:   w.PromptTokenCount,
		ResponseTokens: w.CandidatesTokenCount,
		TotalTokens:    w.TotalTokenCount,
	}
}

// postJSON sends a JSON request and decodes the JSON response into out.
// Non-OK statuses are reported as a NetworkError with the API message.
func (c *Client) postJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
}

// errorFromResponse builds a NetworkError from a non-OK API response,
// extracting the error message when the body is the standard error envelope.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message
	}

	return &NetworkError{Status: resp.StatusCode, Message: message}
}
