package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestModelInfoCache(t *testing.T) {
	t.Run("fetches once and serves from cache", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			_, _ = io.WriteString(w, `{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash","inputTokenLimit":1048576,"outputTokenLimit":65536,"supportedGenerationMethods":["generateContent","streamGenerateContent"]}`)
		}))
		defer server.Close()

		cache := NewModelInfoCache(NewClient("test-key", WithBaseURL(server.URL)))
		ctx := context.Background()

		first, err := cache.Get(ctx, "gemini-2.5-flash")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if first.DisplayName != "Gemini 2.5 Flash" {
			t.Errorf("DisplayName = %q", first.DisplayName)
		}

		second, err := cache.Get(ctx, "gemini-2.5-flash")
		if err != nil {
			t.Fatalf("second Get() error = %v", err)
		}
		if second != first {
			t.Error("second lookup did not return the cached entry")
		}
		if requests.Load() != 1 {
			t.Errorf("server saw %d requests, want 1", requests.Load())
		}
		if cache.Size() != 1 {
			t.Errorf("cache size = %d, want 1", cache.Size())
		}
	})

	t.Run("imagen models get local parameter augmentation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"name":"models/imagen-4.0-generate-001","displayName":"Imagen 4"}`)
		}))
		defer server.Close()

		cache := NewModelInfoCache(NewClient("test-key", WithBaseURL(server.URL)))
		info, err := cache.Get(context.Background(), "imagen-4.0-generate-001")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(info.SupportedParameters) == 0 {
			t.Fatal("imagen model has no supported parameters")
		}

		var hasAspect bool
		for _, p := range info.SupportedParameters {
			if p.Name == "aspectRatio" && len(p.Values) > 0 {
				hasAspect = true
			}
		}
		if !hasAspect {
			t.Error("imagen parameters missing aspectRatio values")
		}
	})

	t.Run("chat models are not augmented", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"name":"models/gemini-2.5-flash"}`)
		}))
		defer server.Close()

		cache := NewModelInfoCache(NewClient("test-key", WithBaseURL(server.URL)))
		info, err := cache.Get(context.Background(), "gemini-2.5-flash")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(info.SupportedParameters) != 0 {
			t.Errorf("chat model has %d augmented parameters, want 0", len(info.SupportedParameters))
		}
	})

	t.Run("failed lookups are not cached", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 1 {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"error":{"message":"model not found"}}`)
				return
			}
			_, _ = io.WriteString(w, `{"name":"models/gemini-2.5-flash"}`)
		}))
		defer server.Close()

		cache := NewModelInfoCache(NewClient("test-key", WithBaseURL(server.URL)))
		ctx := context.Background()

		if _, err := cache.Get(ctx, "gemini-2.5-flash"); err == nil {
			t.Fatal("first Get() succeeded, want error")
		}
		if cache.Size() != 0 {
			t.Errorf("cache size = %d after failure, want 0", cache.Size())
		}

		if _, err := cache.Get(ctx, "gemini-2.5-flash"); err != nil {
			t.Fatalf("retry Get() error = %v", err)
		}
		if requests.Load() != 2 {
			t.Errorf("server saw %d requests, want 2", requests.Load())
		}
	})

	t.Run("missing credential fails the lookup", func(t *testing.T) {
		cache := NewModelInfoCache(NewClient(""))
		if _, err := cache.Get(context.Background(), "gemini-2.5-flash"); err == nil {
			t.Error("Get() with no api key succeeded, want error")
		}
	})
}
