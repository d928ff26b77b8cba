package tosfetch

import (
	"fmt"
	"time"
)

// Backend identifies a retrieval strategy.
type Backend int

// Backends in the order the retriever tries them.
const (
	BackendPlainHTTP Backend = iota + 1
	BackendEnhancedHTTP
	BackendHeadlessBrowser
)

// String returns the wire name of the backend.
func (b Backend) String() string {
	switch b {
	case BackendPlainHTTP:
		return "PLAIN_HTTP"
	case BackendEnhancedHTTP:
		return "ENHANCED_HTTP"
	case BackendHeadlessBrowser:
		return "HEADLESS_BROWSER"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Result is the raw markup produced by a single successful backend fetch.
// It is consumed once by an Extractor and not retained.
type Result struct {
	URL        string
	Markup     string
	Backend    Backend
	StatusCode int
}

// Document is the extracted, cleaned text of a Terms & Conditions page.
// Text is never shorter than the retriever's minimum content length.
type Document struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Text        string    `json:"text"`
	Backend     Backend   `json:"backend"`
	ContentHash uint64    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Attempt records the outcome of one backend in a retrieval.
type Attempt struct {
	Backend  Backend       `json:"backend"`
	Skipped  bool          `json:"skipped,omitempty"`
	Code     string        `json:"code,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}
