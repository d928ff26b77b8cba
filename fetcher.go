package tosfetch

import "context"

// Fetcher retrieves raw markup for a URL using one retrieval backend.
type Fetcher interface {
	// Backend identifies the strategy this fetcher implements.
	Backend() Backend

	// Available reports whether the capability the backend depends on
	// (HTTP/2 transport, a browser binary) is present. Unavailable
	// fetchers are skipped rather than counted as failed attempts.
	Available() bool

	// Fetch retrieves the markup at url. Failures are returned as *Error
	// with one of EBLOCKED, EUNAUTHORIZED, ETIMEOUT, EUNREACHABLE, EHTTP
	// or ERENDERING.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Result, error)

	// Close releases any resources held between calls.
	Close() error
}
