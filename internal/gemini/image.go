package gemini

import (
	"context"
	"fmt"

	"github.com/rbarros/gemsuite/internal/conversation"
)

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	OutputMIMEType string `json:"outputMimeType,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MIMEType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImages generates images with an Imagen model. A request that
// succeeds at the transport level but yields zero images returns
// ErrGenerationFailed; the caller keeps the prompt so the user can retry.
func (c *Client) GenerateImages(ctx context.Context, prompt string, params conversation.GenerationParams) ([]conversation.Image, error) {
	if !c.IsConfigured() {
		return nil, ErrNoAPIKey
	}

	count := params.Count
	if count < 1 {
		count = 1
	}
	mime := params.OutputMIME
	if mime == "" {
		mime = "image/png"
	}

	reqBody := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount:    count,
			AspectRatio:    params.AspectRatio,
			OutputMIMEType: mime,
		},
	}

	url := fmt.Sprintf("%s/models/%s:predict", c.baseURL, params.Model)

	var resp predictResponse
	if err := c.postJSON(ctx, url, reqBody, &resp); err != nil {
		return nil, err
	}

	if len(resp.Predictions) == 0 {
		return nil, ErrGenerationFailed
	}

	images := make([]conversation.Image, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predMIME := p.MIMEType
		if predMIME == "" {
			predMIME = mime
		}
		images = append(images, conversation.Image{
			Base64:   p.BytesBase64Encoded,
			MIMEType: predMIME,
		})
	}

	return images, nil
}

// editModel handles image editing and supports image response modalities.
const editModel = "gemini-2.5-flash-image"

// EditImage applies a prompt to an image and returns the edited image. A
// reply without an inline image returns ErrEditFailed.
func (c *Client) EditImage(ctx context.Context, img conversation.Image, prompt string) (conversation.Image, *conversation.Usage, error) {
	if !c.IsConfigured() {
		return conversation.Image{}, nil, ErrNoAPIKey
	}

	reqBody := generateRequest{
		Contents: []wireContent{{
			Role: "user",
			Parts: []wirePart{
				{InlineData: &wireInlineData{MIMEType: img.MIMEType, Data: img.Base64}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &wireGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, editModel)

	var resp generateResponse
	if err := c.postJSON(ctx, url, reqBody, &resp); err != nil {
		return conversation.Image{}, nil, err
	}

	usage := usageFromWire(resp.UsageMetadata)
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				edited := conversation.Image{
					Base64:   part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}
				return edited, usage, nil
			}
		}
	}

	return conversation.Image{}, usage, ErrEditFailed
}

// analyzeModel handles image analysis requests.
const analyzeModel = "gemini-2.5-flash"

// AnalyzeImage asks the model to describe an image and returns the text.
func (c *Client) AnalyzeImage(ctx context.Context, img conversation.Image, prompt string) (string, *conversation.Usage, error) {
	if !c.IsConfigured() {
		return "", nil, ErrNoAPIKey
	}

	if prompt == "" {
		prompt = "Describe this image in detail."
	}

	reqBody := generateRequest{
		Contents: []wireContent{{
			Role: "user",
			Parts: []wirePart{
				{InlineData: &wireInlineData{MIMEType: img.MIMEType, Data: img.Base64}},
				{Text: prompt},
			},
		}},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, analyzeModel)

	var resp generateResponse
	if err := c.postJSON(ctx, url, reqBody, &resp); err != nil {
		return "", nil, err
	}

	var text string
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			text += part.Text
		}
	}

	return text, usageFromWire(resp.UsageMetadata), nil
}
