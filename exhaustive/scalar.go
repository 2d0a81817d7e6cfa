package exhaustive

import (
	"context"

	"github.com/hupe1980/vecscan/distance"
	"golang.org/x/sync/errgroup"
)

// scanScalar runs the double-loop kernel path, picking the decomposition
// per the policy: over the database for large or worker-starved inputs,
// over the queries otherwise.
func scanScalar(ctx context.Context, x, y []float32, d, nx, ny int, kern distance.Func, acc accumulator, p *params) error {
	if p.overDatabase(nx, ny) {
		return scanOverDatabase(ctx, x, y, d, nx, ny, kern, acc, p)
	}

	return scanOverQueries(ctx, x, y, d, nx, ny, kern, acc, p)
}

// scanOverQueries partitions the queries across workers. Each worker owns
// its rows end to end, so no merge step is needed.
func scanOverQueries(ctx context.Context, x, y []float32, d, nx, ny int, kern distance.Func, acc accumulator, p *params) error {
	excl := p.excl

	return forEachChunkCtx(ctx, p.workers, 0, nx, func(ctx context.Context, begin, end int) error {
		s := acc.Single()

		for i := begin; i < end; i++ {
			if ctx.Err() != nil {
				return canceled(ctx)
			}

			xi := x[i*d : (i+1)*d]

			s.Begin(i)
			for j := 0; j < ny; j++ {
				if excl != nil && excl.Test(int64(j)) {
					continue
				}

				s.Add(kern(xi, y[j*d:(j+1)*d]), int64(j))
			}
			s.End()
		}

		return nil
	})
}

// scanOverDatabase partitions the database into contiguous shards, one
// private accumulator clone per shard. The partial results are merged
// sequentially after the join; the id tie-break makes the merge order
// immaterial, so results match the over-queries decomposition exactly.
func scanOverDatabase(ctx context.Context, x, y []float32, d, nx, ny int, kern distance.Func, acc accumulator, p *params) error {
	workers := min(p.workers, ny)
	excl := p.excl

	clones := acc.CloneN(workers)
	chunk := (ny + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)

	for w := range workers {
		j0 := w * chunk
		j1 := min(j0+chunk, ny)
		clone := clones[w]

		g.Go(func() error {
			for j := j0; j < j1; j++ {
				if gctx.Err() != nil {
					return canceled(gctx)
				}

				if excl != nil && excl.Test(int64(j)) {
					continue
				}

				yj := y[j*d : (j+1)*d]
				for i := 0; i < nx; i++ {
					clone.Add(i, kern(x[i*d:(i+1)*d], yj), int64(j))
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, clone := range clones {
		acc.Merge(clone)
	}

	acc.EndMultiple(0, nx)

	return nil
}
