package classify

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Item is one input of a batch.
type Item struct {
	ID   string
	Text string
}

// BatchResult is the outcome of one Item. Exactly one of Payload and Err is set.
type BatchResult struct {
	ID      string
	Payload map[string]any
	Err     error
}

// Batch classifies items as independent turns, at most concurrency at a
// time (unbounded when concurrency <= 0). Results keep input order; one
// item failing does not cancel the others.
func Batch(ctx context.Context, c *Classifier, items []Item, maxRetries, concurrency int) []BatchResult {
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, it := range items {
		g.Go(func() error {
			payload, err := c.Classify(ctx, it.Text, maxRetries)
			results[i] = BatchResult{ID: it.ID, Payload: payload, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
