package scanner

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPageLimit is returned when a "Next" chain exceeds the page ceiling.
	ErrPageLimit = errors.New("page limit reached")
	// ErrContentMissing is returned when an article page has no content container.
	ErrContentMissing = errors.New("content container not found")
)

// FetchError describes a failed GET: a transport error or a non-success response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed(%s)", e.URL, e.Status())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Status is a human-readable description of the failure.
func (e *FetchError) Status() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode == http.StatusOK {
		return "empty body"
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}
