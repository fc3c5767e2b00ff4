package chat

import (
	"regexp"
	"strings"
	"testing"
)

// stripANSI removes ANSI escape codes from a string for testing purposes.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestMarkdownRenderer_Render(t *testing.T) {
	r := NewMarkdownRenderer()

	tests := []struct {
		name     string
		content  string
		width    int
		contains []string
	}{
		{
			name:    "empty content",
			content: "",
			width:   80,
		},
		{
			name:     "plain text",
			content:  "Hello world",
			width:    80,
			contains: []string{"Hello world"},
		},
		{
			name:     "header",
			content:  "# Title",
			width:    80,
			contains: []string{"Title"},
		},
		{
			name:     "code block",
			content:  "```go\nfmt.Println(\"hello\")\n```",
			width:    80,
			contains: []string{"fmt", "Println"},
		},
		{
			name:     "list",
			content:  "- Item 1\n- Item 2",
			width:    80,
			contains: []string{"Item 1", "Item 2"},
		},
		{
			name:     "bold text",
			content:  "This is **bold** text",
			width:    80,
			contains: []string{"bold"},
		},
		{
			name:     "inline code",
			content:  "Use `code` here",
			width:    80,
			contains: []string{"code"},
		},
		{
			name:     "link",
			content:  "Check [this link](https://example.com)",
			width:    80,
			contains: []string{"this link"},
		},
		{
			name:     "blockquote",
			content:  "> This is a quote",
			width:    80,
			contains: []string{"This is a quote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.content, tt.width)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			stripped := stripANSI(got)
			for _, substr := range tt.contains {
				if !strings.Contains(stripped, substr) {
					t.Errorf("Render() output should contain %q, got (stripped) %q", substr, stripped)
				}
			}
		})
	}
}

func TestMarkdownRenderer_CachesRenderer(t *testing.T) {
	r := NewMarkdownRenderer()

	if _, err := r.Render("# Test", 80); err != nil {
		t.Fatal(err)
	}

	r.mu.RLock()
	first := r.renderer
	cachedWidth := r.cachedWidth
	r.mu.RUnlock()

	if first == nil {
		t.Fatal("expected renderer to be cached after first render")
	}
	if cachedWidth != 80 {
		t.Errorf("cached width = %d, want 80", cachedWidth)
	}

	if _, err := r.Render("# Test 2", 80); err != nil {
		t.Fatal(err)
	}

	r.mu.RLock()
	second := r.renderer
	r.mu.RUnlock()

	if second != first {
		t.Error("renderer was rebuilt for the same width")
	}
}

func TestMarkdownRenderer_RebuildsOnWidthChange(t *testing.T) {
	r := NewMarkdownRenderer()

	if _, err := r.Render("text", 80); err != nil {
		t.Fatal(err)
	}
	r.mu.RLock()
	first := r.renderer
	r.mu.RUnlock()

	if _, err := r.Render("text", 40); err != nil {
		t.Fatal(err)
	}
	r.mu.RLock()
	second := r.renderer
	width := r.cachedWidth
	r.mu.RUnlock()

	if second == first {
		t.Error("renderer was not rebuilt after width change")
	}
	if width != 40 {
		t.Errorf("cached width = %d, want 40", width)
	}
}

func TestMarkdownRenderer_Invalidate(t *testing.T) {
	r := NewMarkdownRenderer()

	if _, err := r.Render("text", 80); err != nil {
		t.Fatal(err)
	}
	r.Invalidate()

	r.mu.RLock()
	cached := r.renderer
	r.mu.RUnlock()

	if cached != nil {
		t.Error("expected cached renderer to be dropped after Invalidate()")
	}
}
