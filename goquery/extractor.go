// Package goquery implements tosfetch.Extractor with CSS selectors over a
// parsed document tree.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tosfetch"
)

// DefaultMinCandidateLength is the number of characters a selector match
// must exceed before it is preferred over the whole body.
const DefaultMinCandidateLength = 500

// noiseSelector matches elements that never carry document text.
const noiseSelector = "script, style, nav, header, footer, aside, noscript, meta, link, iframe, svg, img"

// noisePatterns are matched case-insensitively against class and id values.
var noisePatterns = []string{"cookie", "banner", "popup", "modal", "overlay"}

// DefaultSelectors returns the main-content selectors in the order they are
// tried: semantic regions first, then common container names, then names
// used by legal pages.
func DefaultSelectors() []string {
	return []string{
		"main",
		"article",
		`[role="main"]`,
		".content",
		"#content",
		".main-content",
		"#main-content",
		`div[class*="terms"]`,
		`div[class*="condition"]`,
		`div[id*="terms"]`,
		`div[id*="condition"]`,
		".terms-content",
		"#terms-content",
	}
}

// Ensure Extractor implements tosfetch.Extractor at compile time.
var _ tosfetch.Extractor = (*Extractor)(nil)

// Extractor isolates the main-content region of a page.
// Extractor is safe for concurrent use.
type Extractor struct {
	selectors          []string
	minCandidateLength int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectors replaces the main-content selectors.
func WithSelectors(selectors []string) Option {
	return func(e *Extractor) {
		e.selectors = selectors
	}
}

// WithMinCandidateLength sets how many characters a selector match must
// exceed to be accepted. Defaults to DefaultMinCandidateLength.
func WithMinCandidateLength(n int) Option {
	return func(e *Extractor) {
		e.minCandidateLength = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		selectors:          DefaultSelectors(),
		minCandidateLength: DefaultMinCandidateLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract strips noise from markup, picks the main-content region and
// returns its cleaned text. Falls back to the body text when no selector
// yields a long enough candidate, and to an empty Text when there is no body.
func (e *Extractor) Extract(markup string) (*tosfetch.Extraction, error) {
	if strings.TrimSpace(markup) == "" {
		return &tosfetch.Extraction{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, tosfetch.Wrapf(err, tosfetch.EINTERNAL, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("head > title").First().Text())

	StripNoise(doc.Selection)

	text, ok := e.candidate(doc)
	if !ok {
		body := doc.Find("body")
		if body.Length() == 0 {
			return &tosfetch.Extraction{Title: title}, nil
		}
		text = Text(body.First())
	}

	return &tosfetch.Extraction{
		Title: title,
		Text:  tosfetch.Clean(text),
	}, nil
}

// candidate returns the text of the largest element matched by the first
// selector whose largest match exceeds the minimum candidate length.
func (e *Extractor) candidate(doc *goquery.Document) (string, bool) {
	for _, selector := range e.selectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}

		// Length is measured on the raw text; line breaks added by Text
		// around block elements must not count.
		var best *goquery.Selection
		bestLen := -1
		matches.Each(func(_ int, sel *goquery.Selection) {
			if n := utf8.RuneCountInString(sel.Text()); n > bestLen {
				best, bestLen = sel, n
			}
		})

		if bestLen > e.minCandidateLength {
			return Text(best), true
		}
	}
	return "", false
}

// StripNoise removes script, style and page-chrome elements, plus any
// element whose class or id mentions a cookie notice, banner, popup, modal
// or overlay. The html and body elements are never removed.
func StripNoise(sel *goquery.Selection) {
	sel.Find(noiseSelector).Remove()
	sel.Find("[class], [id]").
		Not("html, body").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			id, _ := s.Attr("id")
			return isNoise(class) || isNoise(id)
		}).
		Remove()
}

func isNoise(value string) bool {
	if value == "" {
		return false
	}
	value = strings.ToLower(value)
	for _, p := range noisePatterns {
		if strings.Contains(value, p) {
			return true
		}
	}
	return false
}
