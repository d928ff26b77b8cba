// Package slog provides log/slog decorators for tosfetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tosfetch"
)

// Ensure LoggingFetcher implements tosfetch.Fetcher.
var _ tosfetch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with one log line per fetch.
type LoggingFetcher struct {
	next   tosfetch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next tosfetch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Backend delegates to the wrapped fetcher.
func (f *LoggingFetcher) Backend() tosfetch.Backend {
	return f.next.Backend()
}

// Available delegates to the wrapped fetcher.
func (f *LoggingFetcher) Available() bool {
	return f.next.Available()
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (result *tosfetch.Result, err error) {
	defer func(begin time.Time) {
		bytes, status := 0, 0
		if result != nil {
			bytes, status = len(result.Markup), result.StatusCode
		}
		f.logger.Info("fetch",
			"backend", f.next.Backend(),
			"url", url,
			"status", status,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
