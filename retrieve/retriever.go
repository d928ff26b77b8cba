// Package retrieve implements the fallback chain that turns a URL into a
// tosfetch.Document. Backends are tried strictly in order; the first one
// whose markup yields enough cleaned text wins.
package retrieve

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tosfetch"
	"github.com/google/uuid"
)

// DefaultMinContentLength is the shortest cleaned text, in characters,
// accepted as a document.
const DefaultMinContentLength = 100

// ExhaustedMessage is returned to users when every backend failed.
const ExhaustedMessage = "Unable to fetch Terms & Conditions from this URL. " +
	"The website may block automated requests, require JavaScript rendering, " +
	"or have strict access controls. Please copy and paste the text directly."

// Ensure Retriever implements tosfetch.Retriever at compile time.
var _ tosfetch.Retriever = (*Retriever)(nil)

// Retriever walks an ordered list of fetchers until one produces usable
// text. It holds no per-call state and is safe for concurrent use.
type Retriever struct {
	fetchers   []tosfetch.Fetcher
	extractor  tosfetch.Extractor
	robots     tosfetch.RobotsChecker
	limiter    tosfetch.HostLimiter
	logger     *slog.Logger
	userAgent  string
	minContent int
	now        func() time.Time
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets the logger for attempt transitions and the robots advisory.
// Defaults to discarding everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// WithRobots enables the advisory robots.txt check.
func WithRobots(checker tosfetch.RobotsChecker) Option {
	return func(r *Retriever) {
		r.robots = checker
	}
}

// WithUserAgent sets the user agent robots.txt rules are evaluated for.
// Defaults to "*".
func WithUserAgent(ua string) Option {
	return func(r *Retriever) {
		r.userAgent = ua
	}
}

// WithMinContentLength sets the minimum cleaned text length. Values below 1
// are raised to 1; empty text is never a document.
// Defaults to DefaultMinContentLength.
func WithMinContentLength(n int) Option {
	return func(r *Retriever) {
		r.minContent = max(n, 1)
	}
}

// WithHostLimiter gates each retrieval on the host's pacing and backoff,
// and reports every fetch outcome back to it. Off by default.
func WithHostLimiter(limiter tosfetch.HostLimiter) Option {
	return func(r *Retriever) {
		r.limiter = limiter
	}
}

// WithClock overrides the clock used for Document.FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		r.now = now
	}
}

// NewRetriever creates a Retriever that tries fetchers in the given order
// and extracts text from their markup with extractor.
func NewRetriever(extractor tosfetch.Extractor, fetchers []tosfetch.Fetcher, opts ...Option) *Retriever {
	r := &Retriever{
		fetchers:   fetchers,
		extractor:  extractor,
		logger:     slog.New(slog.DiscardHandler),
		userAgent:  "*",
		minContent: DefaultMinContentLength,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve validates url, runs the advisory robots check and then tries each
// fetcher in turn. Validation errors and caller cancellation are returned
// as is; every other failure advances the chain. When no fetcher succeeds
// the error is EEXHAUSTED with the attempts attached.
func (r *Retriever) Retrieve(ctx context.Context, url string) (*tosfetch.Document, error) {
	req, err := tosfetch.ParseRequest(url)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With("retrieval", uuid.NewString(), "url", req.String())
	r.checkRobots(ctx, req, logger)

	attempts := make([]tosfetch.Attempt, 0, len(r.fetchers))
	waited := false
	for _, f := range r.fetchers {
		if err := ctx.Err(); err != nil {
			return nil, contextError(err, attempts)
		}

		backend := f.Backend()
		if !f.Available() {
			logger.Info("backend unavailable", "backend", backend)
			attempts = append(attempts, tosfetch.Attempt{
				Backend: backend,
				Skipped: true,
				Message: "Backend is not available in this environment.",
			})
			continue
		}

		// The limiter gates the retrieval once; falling back to the next
		// backend after a refusal is not delayed.
		if r.limiter != nil && !waited {
			waited = true
			if err := r.limiter.Wait(ctx, req.Host()); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, contextError(ctxErr, attempts)
				}
				return nil, contextError(errors.Join(context.DeadlineExceeded, err), attempts)
			}
		}

		begin := time.Now()
		doc, err := r.attempt(ctx, f, req)
		attempt := tosfetch.Attempt{Backend: backend, Duration: time.Since(begin)}
		if err == nil {
			logger.Info("retrieved", "backend", backend, "chars", utf8.RuneCountInString(doc.Text), "duration", attempt.Duration)
			return doc, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, attempts)
		}

		attempt.Code = tosfetch.ErrorCode(err)
		attempt.Message = tosfetch.ErrorMessage(err)
		attempts = append(attempts, attempt)
		logger.Warn("backend failed", "backend", backend, "code", attempt.Code, "err", err)
	}

	logger.Warn("all backends failed", "attempts", len(attempts))
	return nil, &tosfetch.Error{
		Code:     tosfetch.EEXHAUSTED,
		Message:  ExhaustedMessage,
		Attempts: attempts,
	}
}

// attempt runs one fetcher and turns its markup into a document, or
// EINSUFFICIENT when the cleaned text is too short.
func (r *Retriever) attempt(ctx context.Context, f tosfetch.Fetcher, req *tosfetch.Request) (*tosfetch.Document, error) {
	result, err := f.Fetch(ctx, req.String())
	if r.limiter != nil && ctx.Err() == nil {
		r.limiter.Observe(req.Host(), err)
	}
	if err != nil {
		return nil, err
	}

	extraction, err := r.extractor.Extract(result.Markup)
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.EINTERNAL, "Content extraction failed.")
	}

	text := tosfetch.Clean(extraction.Text)
	if n := utf8.RuneCountInString(text); n == 0 || n < r.minContent {
		return nil, tosfetch.Errorf(tosfetch.EINSUFFICIENT,
			"Insufficient content extracted (%d characters, need %d).", n, r.minContent)
	}

	return &tosfetch.Document{
		URL:         req.String(),
		Title:       strings.TrimSpace(extraction.Title),
		Text:        text,
		Backend:     result.Backend,
		ContentHash: xxhash.Sum64String(text),
		FetchedAt:   r.now(),
	}, nil
}

// checkRobots logs a warning when robots.txt disallows the URL. It never
// fails and never changes what Retrieve does next.
func (r *Retriever) checkRobots(ctx context.Context, req *tosfetch.Request, logger *slog.Logger) {
	if r.robots == nil {
		return
	}
	allowed, err := r.robots.Allowed(ctx, req.String(), r.userAgent)
	if err != nil {
		logger.Debug("robots check failed", "err", err)
		return
	}
	if !allowed {
		logger.Warn("robots.txt disallows this URL; continuing", "user_agent", r.userAgent)
	}
}

func contextError(err error, attempts []tosfetch.Attempt) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &tosfetch.Error{
			Code:     tosfetch.ETIMEOUT,
			Message:  "Retrieval deadline reached before any backend returned usable content.",
			Attempts: attempts,
			Err:      err,
		}
	}
	return &tosfetch.Error{
		Code:     tosfetch.ECANCELED,
		Message:  "Retrieval was canceled.",
		Attempts: attempts,
		Err:      err,
	}
}
