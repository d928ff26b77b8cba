// Package http provides the plain and enhanced HTTP implementations of
// tosfetch.Fetcher, and a robots.txt checker. Neither fetcher executes
// JavaScript; pages rendered client-side are left to the rod package.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/tosfetch"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/http2"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultNavigationTimeout (15s).
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

const maxRedirects = 10

var errTooManyRedirects = errors.New("too many redirects")

// Ensure Fetcher implements tosfetch.Fetcher at compile time.
var _ tosfetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page markup with a single GET request.
// Each Fetch uses its own transport, so no connection outlives the call.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	backend     tosfetch.Backend
	profile     Profile
	timeout     time.Duration
	maxBodySize int64
	tlsConfig   *tls.Config
	http2       bool
	available   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for the whole request, body included.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProfile replaces the header profile.
func WithProfile(p Profile) Option {
	return func(f *Fetcher) {
		f.profile = p
	}
}

// WithMaxBodySize sets how many bytes of the response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithTLSConfig sets the TLS client configuration, e.g. custom root CAs.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(f *Fetcher) {
		f.tlsConfig = cfg
	}
}

// NewPlainFetcher creates the first-line fetcher: HTTP/1.1 with a desktop
// Chrome header profile.
func NewPlainFetcher(opts ...Option) *Fetcher {
	return newFetcher(tosfetch.BackendPlainHTTP, PlainProfile(), false, opts)
}

// NewEnhancedFetcher creates the fallback fetcher: a different header
// profile over a transport that prefers multiplexed HTTP/2. It reports
// itself unavailable if HTTP/2 cannot be configured.
func NewEnhancedFetcher(opts ...Option) *Fetcher {
	return newFetcher(tosfetch.BackendEnhancedHTTP, EnhancedProfile(), true, opts)
}

func newFetcher(backend tosfetch.Backend, profile Profile, useHTTP2 bool, opts []Option) *Fetcher {
	f := &Fetcher{
		backend:     backend,
		profile:     profile,
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
		http2:       useHTTP2,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.available = true
	if f.http2 {
		if _, err := f.newTransport(); err != nil {
			f.available = false
		}
	}

	return f
}

// Backend returns the strategy this fetcher implements.
func (f *Fetcher) Backend() tosfetch.Backend {
	return f.backend
}

// Available reports whether the fetcher's transport could be built.
func (f *Fetcher) Available() bool {
	return f.available
}

// UserAgent returns the User-Agent header the fetcher sends.
func (f *Fetcher) UserAgent() string {
	return f.profile.UserAgent
}

// Fetch retrieves the markup at url, decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*tosfetch.Result, error) {
	transport, err := f.newTransport()
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.EINTERNAL, "configuring transport: %v", err)
	}
	defer transport.CloseIdleConnections()

	client := &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.EINVALIDURL, "Invalid URL format: %s", url)
	}
	f.profile.apply(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, f.classify(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := readBody(resp, f.maxBodySize)
	if err != nil {
		return nil, f.classify(err)
	}

	return &tosfetch.Result{
		URL:        resp.Request.URL.String(),
		Markup:     body,
		Backend:    f.backend,
		StatusCode: resp.StatusCode,
	}, nil
}

// Close releases resources. Transports are per call, so this is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) newTransport() (*http.Transport, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       f.tlsConfig.Clone(),
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if f.http2 {
		if _, err := http2.ConfigureTransports(t); err != nil {
			return nil, fmt.Errorf("http2: %w", err)
		}
	}
	return t, nil
}

// classify maps a transport error onto an application error code.
func (f *Fetcher) classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return tosfetch.Wrapf(err, tosfetch.ECANCELED, "Request was canceled.")
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return tosfetch.Wrapf(err, tosfetch.ETIMEOUT,
			"Request timeout reached (%s). The website took too long to respond.", f.timeout)
	case errors.Is(err, errTooManyRedirects):
		return tosfetch.Wrapf(err, tosfetch.EHTTP, "HTTP error: stopped after %d redirects.", maxRedirects)
	default:
		return tosfetch.Wrapf(err, tosfetch.EUNREACHABLE,
			"Connection error. Unable to reach the website. Check your internet connection or the URL.")
	}
}

// checkStatus maps a non-2xx status onto an application error. Refusals
// carry the server's Retry-After so callers can back off from the host.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusForbidden:
		return &tosfetch.Error{
			Code:       tosfetch.EBLOCKED,
			Status:     code,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
			Message:    "Website blocked automated requests (403 Forbidden). The site may require JavaScript rendering or have bot detection.",
		}
	case code == http.StatusUnauthorized:
		return &tosfetch.Error{
			Code:    tosfetch.EUNAUTHORIZED,
			Status:  code,
			Message: "Website requires authentication (401 Unauthorized). Cannot access Terms & Conditions.",
		}
	default:
		e := &tosfetch.Error{
			Code:    tosfetch.EHTTP,
			Status:  code,
			Message: fmt.Sprintf("HTTP error %d: %s", code, http.StatusText(code)),
		}
		if code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable {
			e.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
		}
		return e
	}
}

// retryAfter parses a Retry-After value given either as delay seconds or
// as an HTTP date. Missing, malformed and past values yield zero.
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

// readBody reads at most limit bytes of the body and decodes them to UTF-8
// using the Content-Type charset or a <meta> declaration.
func readBody(resp *http.Response, limit int64) (string, error) {
	r, err := charset.NewReader(io.LimitReader(resp.Body, limit), resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
