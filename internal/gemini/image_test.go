package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rbarros/gemsuite/internal/conversation"
)

func TestGenerateImages(t *testing.T) {
	params := conversation.GenerationParams{
		Model:       "imagen-4.0-generate-001",
		AspectRatio: "1:1",
		Count:       2,
	}

	t.Run("returns generated images", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, ":predict") {
				t.Errorf("path = %q, want :predict suffix", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"sampleCount":2`) {
				t.Errorf("request missing sample count: %s", body)
			}
			_, _ = io.WriteString(w, `{"predictions":[{"bytesBase64Encoded":"aW1nMQ==","mimeType":"image/png"},{"bytesBase64Encoded":"aW1nMg==","mimeType":"image/png"}]}`)
		}))
		defer server.Close()

		client := NewClient("test-key", WithBaseURL(server.URL))
		images, err := client.GenerateImages(context.Background(), "a cat", params)
		if err != nil {
			t.Fatalf("GenerateImages() error = %v", err)
		}
		if len(images) != 2 {
			t.Fatalf("got %d images, want 2", len(images))
		}
		if images[0].Base64 != "aW1nMQ==" || images[0].MIMEType != "image/png" {
			t.Errorf("first image = %+v", images[0])
		}
	})

	t.Run("zero predictions is a content failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"predictions":[]}`)
		}))
		defer server.Close()

		client := NewClient("test-key", WithBaseURL(server.URL))
		_, err := client.GenerateImages(context.Background(), "a cat", params)
		if !errors.Is(err, ErrGenerationFailed) {
			t.Errorf("GenerateImages() error = %v, want ErrGenerationFailed", err)
		}
	})

	t.Run("non-OK status is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"invalid aspect ratio"}}`)
		}))
		defer server.Close()

		client := NewClient("test-key", WithBaseURL(server.URL))
		_, err := client.GenerateImages(context.Background(), "a cat", params)

		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("GenerateImages() error = %v, want NetworkError", err)
		}
		if netErr.Status != http.StatusBadRequest || netErr.Message != "invalid aspect ratio" {
			t.Errorf("NetworkError = %+v", netErr)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		client := NewClient("")
		if _, err := client.GenerateImages(context.Background(), "a cat", params); !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("GenerateImages() error = %v, want ErrNoAPIKey", err)
		}
	})
}

func TestEditImage(t *testing.T) {
	base := conversation.Image{Base64: "YmFzZQ==", MIMEType: "image/png"}

	t.Run("returns the edited image and usage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"responseModalities":["IMAGE"]`) {
				t.Errorf("request missing image response modality: %s", body)
			}
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"ZWRpdGVk"}}]}}],"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5,"totalTokenCount":15}}`)
		}))
		defer server.Close()

		client := NewClient("test-key", WithBaseURL(server.URL))
		edited, usage, err := client.EditImage(context.Background(), base, "add a hat")
		if err != nil {
			t.Fatalf("EditImage() error = %v", err)
		}
		if edited.Base64 != "ZWRpdGVk" {
			t.Errorf("edited image = %+v", edited)
		}
		if usage == nil || usage.TotalTokens != 15 {
			t.Errorf("usage = %v, want total 15", usage)
		}
	})

	t.Run("text-only reply is a content failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"I cannot edit that."}]}}]}`)
		}))
		defer server.Close()

		client := NewClient("test-key", WithBaseURL(server.URL))
		_, _, err := client.EditImage(context.Background(), base, "add a hat")
		if !errors.Is(err, ErrEditFailed) {
			t.Errorf("EditImage() error = %v, want ErrEditFailed", err)
		}
	})
}

func TestAnalyzeImage(t *testing.T) {
	base := conversation.Image{Base64: "YmFzZQ==", MIMEType: "image/png"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"A cat "},{"text":"wearing a hat."}]}}],"usageMetadata":{"promptTokenCount":20,"candidatesTokenCount":8,"totalTokenCount":28}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	text, usage, err := client.AnalyzeImage(context.Background(), base, "")
	if err != nil {
		t.Fatalf("AnalyzeImage() error = %v", err)
	}
	if text != "A cat wearing a hat." {
		t.Errorf("text = %q", text)
	}
	if usage == nil || usage.TotalTokens != 28 {
		t.Errorf("usage = %v, want total 28", usage)
	}
}
