package tosfetch_test

import (
	"testing"

	"github.com/fwojciec/tosfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	t.Run("accepts http and https URLs", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"https://example.com/terms",
			"http://example.com",
			"  https://example.com/legal/tos?lang=en  ",
			"HTTPS://Example.com/terms",
		} {
			req, err := tosfetch.ParseRequest(raw)
			require.NoError(t, err, raw)
			assert.NotEmpty(t, req.Host())
		}
	})

	t.Run("rejects URLs without scheme or host", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"",
			"   ",
			"example.com/terms",
			"/terms",
			"https://",
			"localhost:8080",
			"http://[::1",
		} {
			_, err := tosfetch.ParseRequest(raw)
			require.Error(t, err, raw)
			assert.Equal(t, tosfetch.EINVALIDURL, tosfetch.ErrorCode(err), raw)
		}
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"ftp://example.com/terms.txt",
			"file://host/etc/terms",
			"ws://example.com/socket",
		} {
			_, err := tosfetch.ParseRequest(raw)
			require.Error(t, err, raw)
			assert.Equal(t, tosfetch.EUNSUPPORTEDSCHEME, tosfetch.ErrorCode(err), raw)
		}
	})

	t.Run("builds robots.txt URL from scheme and host", func(t *testing.T) {
		t.Parallel()

		req, err := tosfetch.ParseRequest("https://example.com:8443/legal/terms?x=1")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com:8443/robots.txt", req.RobotsURL())
	})
}
