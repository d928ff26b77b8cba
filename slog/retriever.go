package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tosfetch"
)

// Ensure LoggingRetriever implements tosfetch.Retriever.
var _ tosfetch.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with one log line per retrieval.
type LoggingRetriever struct {
	next   tosfetch.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next tosfetch.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve logs the outcome and delegates to the wrapped retriever.
func (r *LoggingRetriever) Retrieve(ctx context.Context, url string) (doc *tosfetch.Document, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if doc != nil {
			attrs = append(attrs, "backend", doc.Backend, "chars", len([]rune(doc.Text)))
		}
		if err != nil {
			attrs = append(attrs, "code", tosfetch.ErrorCode(err), "attempts", len(tosfetch.ErrorAttempts(err)), "err", err)
		}
		r.logger.Info("retrieve", attrs...)
	}(time.Now())
	return r.next.Retrieve(ctx, url)
}
