// Package trafilatura provides a tosfetch.Extractor backed by go-trafilatura,
// for pages where the selector cascade picks up too much boilerplate.
package trafilatura

import (
	"fmt"
	"strings"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tosfetch"
	"github.com/fwojciec/tosfetch/goquery"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements tosfetch.Extractor at compile time.
var _ tosfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text from markup.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with the fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract returns the page title and the cleaned main text. Empty markup
// yields an empty extraction.
func (e *Extractor) Extract(markup string) (*tosfetch.Extraction, error) {
	if strings.TrimSpace(markup) == "" {
		return &tosfetch.Extraction{}, nil
	}

	result, err := trafilatura.Extract(strings.NewReader(markup), e.opts)
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}

	text := result.ContentText
	if result.ContentNode != nil {
		text = goquery.Text(gq.NewDocumentFromNode(result.ContentNode).Selection)
	}

	return &tosfetch.Extraction{
		Title: strings.TrimSpace(result.Metadata.Title),
		Text:  tosfetch.Clean(text),
	}, nil
}
