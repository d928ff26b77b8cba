package mock

import (
	"context"

	"github.com/fwojciec/tosfetch"
)

var _ tosfetch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tosfetch.Fetcher.
type Fetcher struct {
	BackendFn   func() tosfetch.Backend
	AvailableFn func() bool
	FetchFn     func(ctx context.Context, url string) (*tosfetch.Result, error)
	CloseFn     func() error
}

func (f *Fetcher) Backend() tosfetch.Backend {
	return f.BackendFn()
}

func (f *Fetcher) Available() bool {
	return f.AvailableFn()
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*tosfetch.Result, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
