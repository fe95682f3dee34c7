package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelFor executes fn over contiguous chunks of [0, n) on at most
// workers goroutines. The first error cancels the context passed to the
// remaining chunks and is returned.
func ParallelFor(ctx context.Context, n, workers, minChunk int, fn func(ctx context.Context, start, end int) error) error {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return fn(ctx, 0, n)
	}

	workers = min(workers, n/minChunk)
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return fn(gctx, start, end)
		})
	}
	return g.Wait()
}
