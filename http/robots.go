package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/tosfetch"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsTimeout bounds the robots.txt request. The check is
// advisory, so it gets less time than a page fetch.
const DefaultRobotsTimeout = 5 * time.Second

const maxRobotsSize = 512 << 10

// Ensure RobotsChecker implements tosfetch.RobotsChecker at compile time.
var _ tosfetch.RobotsChecker = (*RobotsChecker)(nil)

// RobotsChecker fetches and evaluates a host's robots.txt.
// Nothing is cached; every call fetches robots.txt again.
type RobotsChecker struct {
	client *http.Client
}

// RobotsOption configures a RobotsChecker.
type RobotsOption func(*RobotsChecker)

// WithRobotsClient sets the HTTP client used to fetch robots.txt.
func WithRobotsClient(c *http.Client) RobotsOption {
	return func(r *RobotsChecker) {
		r.client = c
	}
}

// NewRobotsChecker creates a new RobotsChecker.
func NewRobotsChecker(opts ...RobotsOption) *RobotsChecker {
	r := &RobotsChecker{
		client: &http.Client{Timeout: DefaultRobotsTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allowed reports whether robots.txt on url's host lets userAgent fetch url.
// Missing robots.txt (4xx) allows everything; 5xx disallows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, url string, userAgent string) (bool, error) {
	target, err := tosfetch.ParseRequest(url)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.RobotsURL(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", requestUserAgent(userAgent))

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return false, fmt.Errorf("reading robots.txt: %w", err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return false, fmt.Errorf("parsing robots.txt: %w", err)
	}

	return data.TestAgent(target.URL.RequestURI(), userAgent), nil
}

// requestUserAgent is the header sent for the robots.txt request. A wildcard
// names no client, so the plain backend's browser UA goes out instead.
func requestUserAgent(ua string) string {
	if ua == "" || ua == "*" {
		return ChromeUserAgent
	}
	return ua
}
