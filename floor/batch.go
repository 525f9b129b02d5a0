package floor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ItemResult is the outcome of one write of a batch.
type ItemResult struct {
	ID  int64
	Err error
}

// BatchResult holds one ItemResult per id, in the order the ids were given.
type BatchResult []ItemResult

func (r BatchResult) OK() bool { return len(r.Failed()) == 0 }

func (r BatchResult) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range r {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

func (r BatchResult) Succeeded() []int64 {
	var out []int64
	for _, it := range r {
		if it.Err == nil {
			out = append(out, it.ID)
		}
	}
	return out
}

// runBatch calls fn once per id with at most limit calls in flight and waits
// for all of them. A failing call never stops the others.
func runBatch(ctx context.Context, ids []int64, limit int, fn func(ctx context.Context, id int64) error) BatchResult {
	results := make(BatchResult, len(ids))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		i, id := i, id
		results[i].ID = id
		g.Go(func() error {
			results[i].Err = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
