package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rbarros/gemsuite/internal/conversation"
)

// StreamChunk is one fragment of a streaming chat response. Usage arrives on
// the final chunk. When the stream fails, the failure is delivered as a last
// chunk whose Text is a human-readable apology and whose Err carries the
// cause; consumers render the text and the conversation stays alive.
type StreamChunk struct {
	Text  string
	Usage *conversation.Usage
	Err   error
}

// sseReader parses Server-Sent Events from a response body.
type sseReader struct {
	reader *bufio.Reader
}

func newSSEReader(r io.Reader) *sseReader {
	return &sseReader{reader: bufio.NewReader(r)}
}

// readEvent reads the data payload of the next SSE event. Multi-line data
// fields are joined with newlines. Returns io.EOF when the stream ends.
func (s *sseReader) readEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// Flush any data accumulated before EOF.
				if len(dataLines) > 0 {
					return bytes.Join(dataLines, []byte("\n")), nil
				}
				return nil, io.EOF
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Other fields (event:, id:, retry:, comments) are ignored.
	}
}

// StreamChatCompletion streams a chat response for the given history. The
// returned channel delivers text fragments in arrival order and is closed
// when the response completes, fails, or the context is cancelled. Errors
// never abort the channel mid-contract: they arrive as a final chunk.
func (c *Client) StreamChatCompletion(ctx context.Context, history []conversation.Message, model string) <-chan StreamChunk {
	chunks := make(chan StreamChunk, 64)

	go func() {
		defer close(chunks)

		if !c.IsConfigured() {
			sendErrorChunk(ctx, chunks, ErrNoAPIKey)
			return
		}

		reqBody := generateRequest{
			Contents: contentsFromHistory(history),
			SystemInstruction: &wireContent{
				Parts: []wirePart{{Text: systemInstruction}},
			},
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			sendErrorChunk(ctx, chunks, fmt.Errorf("encoding request: %w", err))
			return
		}

		url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			sendErrorChunk(ctx, chunks, fmt.Errorf("creating request: %w", err))
			return
		}
		c.setHeaders(req)
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			sendErrorChunk(ctx, chunks, &NetworkError{Err: err})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			sendErrorChunk(ctx, chunks, errorFromResponse(resp))
			return
		}

		reader := newSSEReader(resp.Body)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			data, err := reader.readEvent()
			if err != nil {
				if err == io.EOF {
					return
				}
				sendErrorChunk(ctx, chunks, fmt.Errorf("reading stream: %w", err))
				return
			}

			var event generateResponse
			if err := json.Unmarshal(data, &event); err != nil {
				// Skip malformed events rather than killing the stream.
				continue
			}

			chunk := StreamChunk{Usage: usageFromWire(event.UsageMetadata)}
			for _, cand := range event.Candidates {
				for _, part := range cand.Content.Parts {
					chunk.Text += part.Text
				}
			}

			if chunk.Text == "" && chunk.Usage == nil {
				continue
			}

			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks
}

// sendErrorChunk delivers a failure as the final visible chunk.
func sendErrorChunk(ctx context.Context, chunks chan<- StreamChunk, err error) {
	chunk := StreamChunk{
		Text: "Sorry, an error occurred: " + err.Error(),
		Err:  err,
	}
	select {
	case chunks <- chunk:
	case <-ctx.Done():
	}
}
