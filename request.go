package tosfetch

import (
	"net/url"
	"strings"
)

// Request is a validated retrieval target. It is built once per Retrieve
// call and never modified.
type Request struct {
	URL *url.URL
}

// ParseRequest validates raw and returns a Request for it.
// Returns EINVALIDURL when raw is blank or lacks a scheme or host, and
// EUNSUPPORTEDSCHEME when the scheme is anything but http or https.
func ParseRequest(raw string) (*Request, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALIDURL, "Invalid URL: URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, Wrapf(err, EINVALIDURL, "Invalid URL format: %s", raw)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, Errorf(EINVALIDURL, "Invalid URL format: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EUNSUPPORTEDSCHEME,
			"Unsupported URL scheme: %s. Only http and https are supported.", u.Scheme)
	}

	return &Request{URL: u}, nil
}

// String returns the normalized URL.
func (r *Request) String() string {
	return r.URL.String()
}

// Host returns the host (with port, if any) of the request URL.
func (r *Request) Host() string {
	return r.URL.Host
}

// RobotsURL returns the robots.txt location for the request's host.
func (r *Request) RobotsURL() string {
	return (&url.URL{Scheme: r.URL.Scheme, Host: r.URL.Host, Path: "/robots.txt"}).String()
}
