package retrieve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/tosfetch"
	"golang.org/x/time/rate"
)

// Backoff defaults for hosts that throttle or block.
const (
	DefaultBackoff    = time.Second
	DefaultMaxBackoff = 2 * time.Minute
)

var _ tosfetch.HostLimiter = (*HostLimiter)(nil)

// hostState is what the limiter knows about one host.
type hostState struct {
	pacer   *rate.Limiter // nil when pacing is off
	until   time.Time     // no request before this instant
	strikes int           // consecutive throttling outcomes
}

// HostLimiter coordinates retrievals that share a host. It paces requests
// with a token bucket and, after the host answers 403, 429 or 503, holds
// back every later retrieval for that host until the backoff has passed.
// The backoff honours Retry-After and otherwise doubles per strike.
type HostLimiter struct {
	mu         sync.Mutex
	hosts      map[string]*hostState
	rps        float64
	backoff    time.Duration
	maxBackoff time.Duration
	now        func() time.Time
}

// LimiterOption configures a HostLimiter.
type LimiterOption func(*HostLimiter)

// WithBackoff sets the first backoff delay and the cap on any delay,
// Retry-After included. A zero cap disables backoff.
func WithBackoff(initial, max time.Duration) LimiterOption {
	return func(l *HostLimiter) {
		l.backoff = initial
		l.maxBackoff = max
	}
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host with a burst of 1. An rps of 0 turns pacing off and keeps backoff.
func NewHostLimiter(rps float64, opts ...LimiterOption) *HostLimiter {
	l := &HostLimiter{
		hosts:      make(map[string]*hostState),
		rps:        rps,
		backoff:    DefaultBackoff,
		maxBackoff: DefaultMaxBackoff,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until host is out of backoff and the pacer allows a request.
// It fails early when the backoff would outlast ctx's deadline.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	st := l.state(host)
	until, pacer := st.until, st.pacer
	l.mu.Unlock()

	if d := until.Sub(l.now()); d > 0 {
		if deadline, ok := ctx.Deadline(); ok && deadline.Before(until) {
			return fmt.Errorf("backing off from %s for %s would exceed context deadline", host, d)
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if pacer == nil {
		return nil
	}
	return pacer.Wait(ctx)
}

// Observe updates host's backoff from a fetch outcome.
func (l *HostLimiter) Observe(host string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.state(host)
	if err == nil {
		st.strikes = 0
		return
	}

	retryAfter, ok := throttled(err)
	if !ok {
		return
	}
	st.strikes++

	d := retryAfter
	if d <= 0 {
		d = l.delay(st.strikes)
	}
	d = min(d, l.maxBackoff)
	if until := l.now().Add(d); until.After(st.until) {
		st.until = until
	}
}

// state returns host's entry, creating it. l.mu must be held.
func (l *HostLimiter) state(host string) *hostState {
	st, ok := l.hosts[host]
	if !ok {
		st = &hostState{}
		if l.rps > 0 {
			st.pacer = rate.NewLimiter(rate.Limit(l.rps), 1)
		}
		l.hosts[host] = st
	}
	return st
}

// delay is the exponential backoff for the given strike count.
func (l *HostLimiter) delay(strikes int) time.Duration {
	d := l.backoff
	for i := 1; i < strikes && d < l.maxBackoff; i++ {
		d *= 2
	}
	return d
}

// throttled reports whether err means the host is refusing automated
// requests, and the delay it asked for, if any.
func throttled(err error) (time.Duration, bool) {
	var e *tosfetch.Error
	if !errors.As(err, &e) {
		return 0, false
	}
	switch {
	case e.Code == tosfetch.EBLOCKED,
		e.Status == http.StatusTooManyRequests,
		e.Status == http.StatusServiceUnavailable:
		return e.RetryAfter, true
	}
	return 0, false
}
