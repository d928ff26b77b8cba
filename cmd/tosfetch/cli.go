package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tosfetch"
	"github.com/fwojciec/tosfetch/goquery"
	tfhttp "github.com/fwojciec/tosfetch/http"
	"github.com/fwojciec/tosfetch/readability"
	"github.com/fwojciec/tosfetch/retrieve"
	"github.com/fwojciec/tosfetch/rod"
	tfslog "github.com/fwojciec/tosfetch/slog"
	"github.com/fwojciec/tosfetch/trafilatura"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs         []string      `arg:"" name:"url" help:"Terms & Conditions page URLs"`
	Timeout      time.Duration `short:"t" default:"15s" env:"TOSFETCH_TIMEOUT" help:"Timeout per backend attempt"`
	Settle       time.Duration `default:"2s" env:"TOSFETCH_SETTLE" help:"Wait after the network goes idle before reading a rendered page"`
	MinLength    int           `default:"100" env:"TOSFETCH_MIN_LENGTH" help:"Minimum characters of cleaned text to accept"`
	MinCandidate int           `default:"500" env:"TOSFETCH_MIN_CANDIDATE" help:"Minimum characters for a content selector match to be preferred over the page body"`
	Extractor    string        `default:"selectors" enum:"selectors,trafilatura,readability" env:"TOSFETCH_EXTRACTOR" help:"Text extractor (${enum})"`
	NoEnhanced   bool          `env:"TOSFETCH_NO_ENHANCED" help:"Skip the enhanced HTTP/2 backend"`
	NoBrowser    bool          `env:"TOSFETCH_NO_BROWSER" help:"Skip the headless browser backend"`
	BrowserBin   string        `env:"TOSFETCH_BROWSER_BIN" help:"Chrome or Chromium binary (default: auto-detect)"`
	Rate         float64       `default:"0" env:"TOSFETCH_RATE" help:"Requests per second per host, 0 disables pacing"`
	MaxBackoff   time.Duration `default:"2m" env:"TOSFETCH_MAX_BACKOFF" help:"Longest wait before retrying a host that throttled or blocked, 0 disables backoff"`
	Concurrency  int           `short:"c" default:"1" env:"TOSFETCH_CONCURRENCY" help:"URLs fetched at the same time"`
	Deadline     time.Duration `default:"0" env:"TOSFETCH_DEADLINE" help:"Overall deadline per URL, 0 for none"`
	JSON         bool          `help:"Write one JSON object per URL"`
	Verbose      bool          `short:"v" help:"Log every backend attempt"`
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRetriever wires the backend chain. The returned func closes every
// fetcher.
func (c *CLI) newRetriever(logger *slog.Logger) (tosfetch.Retriever, func()) {
	var fetchers []tosfetch.Fetcher

	plain := tfhttp.NewPlainFetcher(tfhttp.WithTimeout(c.Timeout))
	fetchers = append(fetchers, plain)
	if !c.NoEnhanced {
		fetchers = append(fetchers, tfhttp.NewEnhancedFetcher(tfhttp.WithTimeout(c.Timeout)))
	}
	if !c.NoBrowser {
		fetchers = append(fetchers, rod.NewFetcher(
			rod.WithBrowserBin(c.BrowserBin),
			rod.WithNavigationTimeout(c.Timeout),
			rod.WithSettleDelay(c.Settle),
			rod.WithUserAgent(plain.UserAgent()),
		))
	}
	for i, f := range fetchers {
		fetchers[i] = tfslog.NewLoggingFetcher(f, logger)
	}

	opts := []retrieve.Option{
		retrieve.WithLogger(logger),
		retrieve.WithRobots(tfhttp.NewRobotsChecker()),
		retrieve.WithUserAgent(plain.UserAgent()),
		retrieve.WithMinContentLength(c.MinLength),
		retrieve.WithHostLimiter(retrieve.NewHostLimiter(c.Rate,
			retrieve.WithBackoff(retrieve.DefaultBackoff, c.MaxBackoff))),
	}

	r := retrieve.NewRetriever(c.newExtractor(), fetchers, opts...)

	return tfslog.NewLoggingRetriever(r, logger), func() {
		for _, f := range fetchers {
			_ = f.Close()
		}
	}
}

func (c *CLI) newExtractor() tosfetch.Extractor {
	switch c.Extractor {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return goquery.NewExtractor(goquery.WithMinCandidateLength(c.MinCandidate))
	}
}
