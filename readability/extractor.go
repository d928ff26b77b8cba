// Package readability provides a tosfetch.Extractor backed by go-readability.
package readability

import (
	"fmt"
	"strings"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tosfetch"
	"github.com/fwojciec/tosfetch/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements tosfetch.Extractor at compile time.
var _ tosfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and its cleaned text. Empty markup
// yields an empty extraction.
func (e *Extractor) Extract(markup string) (*tosfetch.Extraction, error) {
	if strings.TrimSpace(markup) == "" {
		return &tosfetch.Extraction{}, nil
	}

	article, err := readability.FromReader(strings.NewReader(markup), nil)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	text := article.TextContent
	if article.Node != nil {
		text = goquery.Text(gq.NewDocumentFromNode(article.Node).Selection)
	}

	return &tosfetch.Extraction{
		Title: strings.TrimSpace(article.Title),
		Text:  tosfetch.Clean(text),
	}, nil
}
