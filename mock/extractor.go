package mock

import "github.com/fwojciec/tosfetch"

var _ tosfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tosfetch.Extractor.
type Extractor struct {
	ExtractFn func(markup string) (*tosfetch.Extraction, error)
}

func (e *Extractor) Extract(markup string) (*tosfetch.Extraction, error) {
	return e.ExtractFn(markup)
}
