package mock

import (
	"context"

	"github.com/fwojciec/tosfetch"
)

var _ tosfetch.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of tosfetch.Classifier.
type Classifier struct {
	ClassifyFn func(ctx context.Context, text string) (*tosfetch.Assessment, error)
}

func (c *Classifier) Classify(ctx context.Context, text string) (*tosfetch.Assessment, error) {
	return c.ClassifyFn(ctx, text)
}
