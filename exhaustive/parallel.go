package exhaustive

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// forEachChunk runs fn over [begin, end) in contiguous chunks, one per
// worker. It blocks until every chunk is done. fn must not fail; chunks
// touch disjoint rows only.
func forEachChunk(workers, begin, end int, fn func(begin, end int)) {
	n := end - begin
	if n <= 0 {
		return
	}

	if workers > n {
		workers = n
	}

	if workers <= 1 {
		fn(begin, end)
		return
	}

	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for lo := begin; lo < end; lo += chunk {
		hi := min(lo+chunk, end)

		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}

	_ = g.Wait() // workers never fail
}

// forEachChunkCtx is forEachChunk with cooperative cancellation: fn should
// poll ctx between rows and return its error to stop the whole scan.
func forEachChunkCtx(ctx context.Context, workers, begin, end int, fn func(ctx context.Context, begin, end int) error) error {
	n := end - begin
	if n <= 0 {
		return nil
	}

	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers

	for lo := begin; lo < end; lo += chunk {
		hi := min(lo+chunk, end)

		g.Go(func() error {
			return fn(ctx, lo, hi)
		})
	}

	return g.Wait()
}

// canceled wraps a context error for the driver boundary.
func canceled(ctx context.Context) error {
	return fmt.Errorf("search canceled: %w", context.Cause(ctx))
}
