package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// ModelInfo describes a model's metadata as reported by the API.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	InputTokenLimit            int64    `json:"inputTokenLimit"`
	OutputTokenLimit           int64    `json:"outputTokenLimit"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`

	// SupportedParameters is filled locally for imagen models; the models
	// endpoint does not report generation parameters.
	SupportedParameters []ModelParameter `json:"-"`
}

// ModelParameter describes one tunable generation parameter.
type ModelParameter struct {
	Name   string
	Values []string
}

// ModelInfoCache is an explicit get-or-fetch cache for model metadata.
// Entries live for the process lifetime; there is no eviction and no
// cross-process invalidation.
type ModelInfoCache struct {
	client *Client

	mu    sync.Mutex
	cache map[string]*ModelInfo
}

// NewModelInfoCache creates a model info cache backed by the given client.
func NewModelInfoCache(client *Client) *ModelInfoCache {
	return &ModelInfoCache{
		client: client,
		cache:  make(map[string]*ModelInfo),
	}
}

// Get returns the model's metadata, fetching and caching it on first use.
func (m *ModelInfoCache) Get(ctx context.Context, name string) (*ModelInfo, error) {
	m.mu.Lock()
	if info, ok := m.cache[name]; ok {
		m.mu.Unlock()
		return info, nil
	}
	m.mu.Unlock()

	info, err := m.client.fetchModelInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up model %q: %w", name, err)
	}

	augmentModelInfo(info, name)

	m.mu.Lock()
	m.cache[name] = info
	m.mu.Unlock()

	return info, nil
}

// Size returns the number of cached entries.
func (m *ModelInfoCache) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}

func (c *Client) fetchModelInfo(ctx context.Context, name string) (*ModelInfo, error) {
	if !c.IsConfigured() {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var info ModelInfo
	if err := decodeJSON(resp, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// augmentModelInfo attaches locally known parameter sets for model families
// whose parameters the API does not expose.
func augmentModelInfo(info *ModelInfo, name string) {
	if !strings.Contains(name, "imagen") {
		return
	}

	info.SupportedParameters = []ModelParameter{
		{Name: "aspectRatio", Values: []string{"1:1", "3:4", "4:3", "9:16", "16:9"}},
		{Name: "sampleCount", Values: []string{"1", "2", "3", "4"}},
		{Name: "outputMimeType", Values: []string{"image/png", "image/jpeg"}},
	}
}
