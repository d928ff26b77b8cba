package mock

import (
	"context"

	"github.com/fwojciec/tosfetch"
)

var _ tosfetch.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of tosfetch.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, url string) (*tosfetch.Document, error)
}

func (r *Retriever) Retrieve(ctx context.Context, url string) (*tosfetch.Document, error) {
	return r.RetrieveFn(ctx, url)
}

var _ tosfetch.RobotsChecker = (*RobotsChecker)(nil)

// RobotsChecker is a mock implementation of tosfetch.RobotsChecker.
type RobotsChecker struct {
	AllowedFn func(ctx context.Context, url, userAgent string) (bool, error)
}

func (r *RobotsChecker) Allowed(ctx context.Context, url, userAgent string) (bool, error) {
	return r.AllowedFn(ctx, url, userAgent)
}

var _ tosfetch.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of tosfetch.HostLimiter.
type HostLimiter struct {
	WaitFn    func(ctx context.Context, host string) error
	ObserveFn func(host string, err error)
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

func (l *HostLimiter) Observe(host string, err error) {
	l.ObserveFn(host, err)
}
