//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tosfetch"
	"github.com/fwojciec/tosfetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderedPage writes its terms into the DOM from JavaScript, so a plain
// HTTP fetch sees only the placeholder.
const renderedPage = `<!DOCTYPE html>
<html>
<head><title>Terms</title></head>
<body>
<div class="cookie-banner">We use cookies</div>
<nav>Home About</nav>
<main id="app">Loading...</main>
<script>
setTimeout(function () {
  document.getElementById("app").innerHTML =
    "<h1>Terms of Service</h1><p>Rendered clause about arbitration.</p>";
}, 100);
</script>
</body>
</html>`

func TestFetcher_Integration_RendersJavaScript(t *testing.T) {
	t.Parallel()

	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.UserAgent())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(renderedPage))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetcher := rod.NewFetcher(rod.WithSettleDelay(500 * time.Millisecond))
	require.True(t, fetcher.Available(), "Chrome or Chromium must be installed")

	result, err := fetcher.Fetch(ctx, server.URL)
	require.NoError(t, err)

	assert.Equal(t, tosfetch.BackendHeadlessBrowser, result.Backend)
	assert.Contains(t, result.Markup, "Rendered clause about arbitration.")
	assert.NotContains(t, result.Markup, "Loading...")
	assert.Equal(t, rod.DefaultUserAgent, gotUA.Load())
	assert.True(t, strings.HasPrefix(result.URL, server.URL))
}

func TestFetcher_Integration_StripsPageChrome(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(renderedPage))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := rod.NewFetcher(rod.WithSettleDelay(500*time.Millisecond)).Fetch(ctx, server.URL)
	require.NoError(t, err)

	assert.NotContains(t, result.Markup, "We use cookies")
	assert.NotContains(t, result.Markup, "Home About")
	assert.NotContains(t, result.Markup, "<script")
}

func TestFetcher_Integration_NavigationTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(10 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	fetcher := rod.NewFetcher(rod.WithNavigationTimeout(time.Second), rod.WithSettleDelay(0))

	_, err := fetcher.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Equal(t, tosfetch.ETIMEOUT, tosfetch.ErrorCode(err))
}

func TestFetcher_Integration_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := rod.NewFetcher(rod.WithSettleDelay(0)).Fetch(context.Background(), url)

	require.Error(t, err)
	assert.Equal(t, tosfetch.EUNREACHABLE, tosfetch.ErrorCode(err))
}
