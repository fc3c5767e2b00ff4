package gemini

import (
	"errors"
	"fmt"
)

// Sentinel errors for content-level failures. The request itself succeeded
// but the model returned nothing usable.
var (
	// ErrGenerationFailed is returned when a generation request yields no images.
	ErrGenerationFailed = errors.New("no images were generated")

	// ErrEditFailed is returned when an edit reply carries no inline image.
	ErrEditFailed = errors.New("no edited image was returned")

	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("missing API key")
)

// NetworkError represents a transport failure or a non-OK API response.
type NetworkError struct {
	Status  int    // HTTP status, 0 for transport errors
	Message string // API-provided message, if any
	Err     error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api error (status %d)", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("network error: %v", e.Err)
	default:
		return "network error"
	}
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
