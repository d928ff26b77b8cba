package tosfetch

import "context"

// Retriever fetches the Terms & Conditions text at a URL, falling back
// across backends until one yields enough content.
type Retriever interface {
	// Retrieve returns the extracted document. Returns EINVALIDURL or
	// EUNSUPPORTEDSCHEME for bad input and EEXHAUSTED when no backend
	// produced usable content.
	Retrieve(ctx context.Context, url string) (*Document, error)
}

// RobotsChecker answers whether robots.txt permits fetching a URL.
// The answer is advisory; retrieval proceeds either way.
type RobotsChecker interface {
	Allowed(ctx context.Context, url string, userAgent string) (bool, error)
}

// HostLimiter paces requests to the same host and backs off from hosts
// that throttle, across retrievals.
type HostLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error

	// Observe records the outcome of a fetch from host. A nil err clears
	// the host's backoff; a throttling error extends it.
	Observe(host string, err error)
}
