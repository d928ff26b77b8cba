package goquery_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/tosfetch"
	"github.com/fwojciec/tosfetch/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that Extractor implements tosfetch.Extractor.
var _ tosfetch.Extractor = (*goquery.Extractor)(nil)

// lorem returns roughly n characters of filler text.
func lorem(n int) string {
	const sentence = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. "
	return strings.TrimSpace(strings.Repeat(sentence, n/len(sentence)+1))
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns main text without navigation", func(t *testing.T) {
		t.Parallel()

		body := lorem(600)
		html := `<!DOCTYPE html>
<html>
<head><title>Terms of Service</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<main><p>` + body + `</p></main>
</body>
</html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, body, got.Text)
		assert.NotContains(t, got.Text, "Home")
		assert.NotContains(t, got.Text, "About")
		assert.Equal(t, "Terms of Service", got.Title)
	})

	t.Run("falls back to body when no selector matches", func(t *testing.T) {
		t.Parallel()

		body := lorem(800)
		html := `<html><body><div class="wrapper"><p>` + body + `</p></div></body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, body, got.Text)
	})

	t.Run("falls back to body when every candidate is short", func(t *testing.T) {
		t.Parallel()

		long := lorem(800)
		html := `<html><body>
<main><p>Short main region.</p></main>
<article>Short article.</article>
<div class="terms-box">Short terms box.</div>
<div class="page"><p>` + long + `</p></div>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, got.Text, "Short main region.")
		assert.Contains(t, got.Text, long)
	})

	t.Run("prefers earlier selectors once one is long enough", func(t *testing.T) {
		t.Parallel()

		mainText := lorem(600)
		html := `<html><body>
<main>` + mainText + `</main>
<div id="terms">` + lorem(2000) + ` EXTRA</div>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, mainText, got.Text)
	})

	t.Run("picks the largest element matched by a selector", func(t *testing.T) {
		t.Parallel()

		small := "Small article " + lorem(520)
		large := "Large article " + lorem(900)
		html := `<html><body>
<article>` + small + `</article>
<article>` + large + `</article>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, large, got.Text)
	})

	t.Run("uses terms-specific containers", func(t *testing.T) {
		t.Parallel()

		terms := lorem(700)
		html := `<html><body>
<div class="legal-terms-wrapper">` + terms + `</div>
<div class="sidebar">Related links</div>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, terms, got.Text)
	})

	t.Run("strips cookie banners and popups case-insensitively", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div id="CookieConsent">We use cookies. Accept all?</div>
<div class="Newsletter-POPUP">Subscribe now</div>
<div class="site-overlay">Dimmed</div>
<main>` + lorem(600) + `<div class="modal-dialog">Sign in</div></main>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotContains(t, got.Text, "cookies")
		assert.NotContains(t, got.Text, "Subscribe")
		assert.NotContains(t, got.Text, "Sign in")
		assert.NotContains(t, got.Text, "Dimmed")
	})

	t.Run("strips scripts styles and frames", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>body { color: red; }</style></head><body>
<script>var tracking = true;</script>
<noscript>Enable JavaScript</noscript>
<iframe src="https://ads.example.com"></iframe>
<header>Site header</header>
<p>Visible terms text.</p>
<aside>Sidebar</aside>
<footer>Copyright</footer>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Visible terms text.", got.Text)
	})

	t.Run("keeps body whose class mentions a banner", func(t *testing.T) {
		t.Parallel()

		html := `<html><body class="has-banner"><p>Terms apply.</p></body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Terms apply.", got.Text)
	})

	t.Run("separates adjacent block elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul><li>First clause</li><li>Second clause</li></ul></body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "First clause Second clause", got.Text)
	})

	t.Run("returns empty text for empty markup", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewExtractor().Extract("   ")

		require.NoError(t, err)
		assert.Empty(t, got.Text)
	})

	t.Run("block line breaks do not count toward the candidate minimum", func(t *testing.T) {
		t.Parallel()

		// 130 paragraphs of two characters: 260 characters of text, but
		// over 500 once each paragraph is broken onto its own line.
		paragraphs := strings.Repeat("<p>ab</p>", 130)
		bodyOnly := lorem(800)
		html := `<html><body>
<main>` + paragraphs + `</main>
<div class="page">` + bodyOnly + `</div>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, got.Text, bodyOnly)
		assert.True(t, strings.HasPrefix(got.Text, "ab ab"))
	})

	t.Run("takes the title from head only", func(t *testing.T) {
		t.Parallel()

		html := `<html><head></head><body>
<svg><title>Close icon</title></svg>
<main>` + lorem(600) + `</main>
</body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Empty(t, got.Title)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		// 300 two-byte runes: 600 bytes but only 300 characters.
		umlauts := strings.Repeat("ä", 300)
		html := `<html><body><main>` + umlauts + `</main><div>tail</div></body></html>`

		got, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, got.Text, "tail")
		assert.Equal(t, 300+len(" tail"), utf8.RuneCountInString(got.Text))
	})
}

func TestExtractor_Options(t *testing.T) {
	t.Parallel()

	t.Run("lower candidate minimum accepts short regions", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>Menu</nav><main>Short main.</main><div>Other body text</div></body></html>`

		got, err := goquery.NewExtractor(goquery.WithMinCandidateLength(5)).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Short main.", got.Text)
	})

	t.Run("custom selectors replace the defaults", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>` + lorem(600) + `</main><section class="tos">Custom region</section></body></html>`

		got, err := goquery.NewExtractor(
			goquery.WithSelectors([]string{"section.tos"}),
			goquery.WithMinCandidateLength(0),
		).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Custom region", got.Text)
	})
}
