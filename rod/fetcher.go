// Package rod implements the headless-browser tosfetch.Fetcher on top of
// go-rod. It is the most expensive backend and the only one that runs the
// page's JavaScript.
package rod

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/tosfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultNavigationTimeout bounds navigation and the network-idle wait.
const DefaultNavigationTimeout = 15 * time.Second

// DefaultSettleDelay is how long to wait after network idle for deferred
// client-side rendering.
const DefaultSettleDelay = 2 * time.Second

// DefaultUserAgent matches the plain HTTP backend's Chrome release.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// idleWindow is how long the network must be quiet to count as idle.
const idleWindow = 500 * time.Millisecond

// stripScript removes page chrome and overlays from the rendered DOM.
const stripScript = `() => {
	document.querySelectorAll('nav, header, footer, aside, script, style, noscript')
		.forEach(el => el.remove());
	const patterns = ['cookie', 'banner', 'popup', 'modal'];
	document.querySelectorAll('[class], [id]').forEach(el => {
		if (el === document.body || el === document.documentElement) {
			return;
		}
		const cls = (el.getAttribute('class') || '').toLowerCase();
		const id = (el.getAttribute('id') || '').toLowerCase();
		if (patterns.some(p => cls.includes(p) || id.includes(p))) {
			el.remove();
		}
	});
}`

// Ensure Fetcher implements tosfetch.Fetcher at compile time.
var _ tosfetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Every Fetch launches its own browser and tears it down before returning,
// so no cookies, storage or cache carry over between calls.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	bin               string
	userAgent         string
	navigationTimeout time.Duration
	settleDelay       time.Duration
	lookPath          func() (string, bool)
	onLaunch          func(pid int)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBrowserBin sets the Chrome/Chromium binary to launch.
// Defaults to the first browser found on the system.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// WithNavigationTimeout sets the timeout for navigation and load.
// Defaults to DefaultNavigationTimeout (15s) if not specified.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.navigationTimeout = d
	}
}

// WithSettleDelay sets the pause between network idle and reading the DOM.
// Defaults to DefaultSettleDelay (2s) if not specified.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher. No browser is started until Fetch.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:         DefaultUserAgent,
		navigationTimeout: DefaultNavigationTimeout,
		settleDelay:       DefaultSettleDelay,
		lookPath:          launcher.LookPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Backend returns tosfetch.BackendHeadlessBrowser.
func (f *Fetcher) Backend() tosfetch.Backend {
	return tosfetch.BackendHeadlessBrowser
}

// Available reports whether a browser binary is installed.
func (f *Fetcher) Available() bool {
	_, ok := f.browserBin()
	return ok
}

func (f *Fetcher) browserBin() (string, bool) {
	if f.bin != "" {
		info, err := os.Stat(f.bin)
		return f.bin, err == nil && !info.IsDir()
	}
	return f.lookPath()
}

// Fetch renders url in a fresh browser, waits for the network to go idle
// plus the settle delay, strips page chrome and returns the resulting HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*tosfetch.Result, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, f.classify(err)
	}

	bin, ok := f.browserBin()
	if !ok {
		return nil, tosfetch.Errorf(tosfetch.ERENDERING,
			"Headless browser not installed. Install Chrome or Chromium to render JavaScript pages.")
	}

	sess, err := launchSession(ctx, bin)
	if err != nil {
		if ctx.Err() != nil {
			return nil, f.classify(ctx.Err())
		}
		return nil, tosfetch.Wrapf(err, tosfetch.ERENDERING, "Headless browser could not be started: %v", err)
	}
	defer sess.Close()
	if f.onLaunch != nil {
		f.onLaunch(sess.PID())
	}

	browser, err := sess.browser.Incognito()
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.ERENDERING, "Headless browser could not open a context: %v", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.ERENDERING, "Headless browser could not open a page: %v", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return nil, f.classify(err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080}); err != nil {
		return nil, f.classify(err)
	}

	nav := page.Timeout(f.navigationTimeout)
	defer nav.CancelTimeout()
	waitIdle := nav.WaitRequestIdle(idleWindow, nil, nil, nil)
	if err := nav.Navigate(url); err != nil {
		return nil, f.classify(err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, f.classify(err)
	}
	waitIdle()
	if err := nav.GetContext().Err(); err != nil {
		return nil, f.classify(err)
	}

	select {
	case <-time.After(f.settleDelay):
	case <-ctx.Done():
		return nil, f.classify(ctx.Err())
	}

	if _, err := page.Eval(stripScript); err != nil {
		return nil, f.classify(err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, f.classify(err)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &tosfetch.Result{
		URL:     finalURL,
		Markup:  html,
		Backend: tosfetch.BackendHeadlessBrowser,
	}, nil
}

// Close releases resources. Browsers are per call, so this is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

// classify maps a rod or context error onto an application error code.
func (f *Fetcher) classify(err error) error {
	var navErr *rod.NavigationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return tosfetch.Wrapf(err, tosfetch.ETIMEOUT,
			"Page load timeout (%s). The website took too long to load.", f.navigationTimeout)
	case errors.Is(err, context.Canceled):
		return tosfetch.Wrapf(err, tosfetch.ECANCELED, "Rendering was canceled.")
	case errors.As(err, &navErr):
		return classifyNavigation(navErr)
	default:
		return tosfetch.Wrapf(err, tosfetch.ERENDERING, "Headless rendering failed: %v", err)
	}
}

// classifyNavigation maps Chrome net error names onto application codes.
func classifyNavigation(err *rod.NavigationError) error {
	reason := err.Reason
	switch {
	case strings.Contains(reason, "ERR_TIMED_OUT"), strings.Contains(reason, "ERR_CONNECTION_TIMED_OUT"):
		return tosfetch.Wrapf(err, tosfetch.ETIMEOUT, "Page load timeout. The website took too long to load.")
	case strings.Contains(reason, "ERR_NAME_NOT_RESOLVED"),
		strings.Contains(reason, "ERR_CONNECTION"),
		strings.Contains(reason, "ERR_ADDRESS_UNREACHABLE"),
		strings.Contains(reason, "ERR_INTERNET_DISCONNECTED"):
		return tosfetch.Wrapf(err, tosfetch.EUNREACHABLE, "Connection error. Unable to reach the website.")
	default:
		return tosfetch.Wrapf(err, tosfetch.ERENDERING, "Headless rendering failed: %s", reason)
	}
}
