package http

import "net/http"

// ChromeUserAgent identifies a current desktop Chrome on Windows.
const ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ChromeMacUserAgent identifies the same Chrome release on macOS.
const ChromeMacUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Profile is the set of headers a fetcher presents to the remote site.
// Accept-Encoding is left to net/http so compressed bodies are decoded
// transparently.
type Profile struct {
	Name      string
	UserAgent string
	Headers   map[string]string
}

// PlainProfile mimics a desktop Chrome navigation from a search result.
func PlainProfile() Profile {
	return Profile{
		Name:      "chrome-windows",
		UserAgent: ChromeUserAgent,
		Headers: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Referer":                   "https://www.google.com/",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Cache-Control":             "max-age=0",
		},
	}
}

// EnhancedProfile presents a different fingerprint than PlainProfile, for
// sites that blocked the first attempt on its headers.
func EnhancedProfile() Profile {
	return Profile{
		Name:      "chrome-macos-dnt",
		UserAgent: ChromeMacUserAgent,
		Headers: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"DNT":                       "1",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

func (p Profile) apply(req *http.Request) {
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
}
