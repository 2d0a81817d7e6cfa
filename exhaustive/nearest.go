package exhaustive

import (
	"context"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/internal/heap"
)

// NearestL2 finds the single nearest database row per query under squared
// Euclidean distance, exactly matching a plain 1-NN scan but usually much
// cheaper on clustered data.
//
// The database is processed in blocks (the database tile size). Per block
// the intra-block pairwise distances are precomputed once into a packed
// lower-triangular matrix; a candidate j is then skipped whenever
// 4·best ≤ dist(currentBest, j), which by the triangle inequality proves j
// cannot beat the current best without touching its vector. Surviving
// candidates are screened with a half-dimension partial distance before the
// full kernel runs. Worst case this degrades to a full scan plus the
// precompute; on clustered data it skips most full-dimension evaluations.
//
// Exclusion masks are not supported; passing one returns
// ErrMaskUnsupported.
func NearestL2(ctx context.Context, x, y []float32, d int, opts ...SearchOption) (ids []int64, dists []float32, err error) {
	p := newParams(opts)

	if p.excl != nil {
		return nil, nil, ErrMaskUnsupported
	}

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, nil, err
	}

	ids = make([]int64, nx)
	dists = make([]float32, nx)

	if nx == 0 {
		return ids, dists, nil
	}

	if ny == 0 {
		heap.Reset(heap.Min{}, dists, ids)
		return ids, dists, nil
	}

	bs := p.dbBlock
	half := d / 2

	// Every query-to-row distance in this routine is summed as two halves,
	// including the block leader's. Mixing the split sum with a single
	// full-pass sum would let a duplicate of the running best differ by an
	// ulp and displace it, changing which id wins a tie.
	splitL2 := func(xi, yj []float32) float32 {
		return distance.SquaredL2(xi[:half], yj[:half]) + distance.SquaredL2(xi[half:], yj[half:])
	}

	// Packed lower-triangular intra-block distances: for block-local rows
	// a > b, tri[b + a(a-1)/2] = SquaredL2(y_a, y_b).
	tri := make([]float32, bs*(bs-1)/2)

	triAt := func(j0, a, b int) float32 {
		a, b = a-j0, b-j0
		if a > b {
			return tri[b+a*(a-1)/2]
		}

		return tri[a+b*(b-1)/2]
	}

	for j0 := 0; j0 < ny; j0 += bs {
		j1 := min(j0+bs, ny)

		forEachChunk(p.workers, j0+1, j1, func(begin, end int) {
			for i := begin; i < end; i++ {
				yi := y[i*d : (i+1)*d]
				base := (i - j0) * (i - j0 - 1) / 2

				for j := j0; j < i; j++ {
					tri[base+(j-j0)] = distance.SquaredL2(yi, y[j*d:(j+1)*d])
				}
			}
		})

		err := forEachChunkCtx(ctx, p.workers, 0, nx, func(ctx context.Context, begin, end int) error {
			for i := begin; i < end; i++ {
				if ctx.Err() != nil {
					return canceled(ctx)
				}

				xi := x[i*d : (i+1)*d]

				best := j0
				bestVal := splitL2(xi, y[j0*d:(j0+1)*d])
				bestVal4 := bestVal * 4

				for j := j0 + 1; j < j1; j++ {
					if bestVal4 <= triAt(j0, best, j) {
						continue
					}

					yj := y[j*d : (j+1)*d]

					dis := distance.SquaredL2(xi[:half], yj[:half])
					if dis >= bestVal {
						continue
					}

					dis += distance.SquaredL2(xi[half:], yj[half:])
					if dis < bestVal {
						best, bestVal = j, dis
						bestVal4 = bestVal * 4
					}
				}

				// Candidates are visited in ascending id order and only a
				// strictly smaller distance displaces the running best, so
				// ties keep the smaller id across blocks too.
				if j0 == 0 || bestVal < dists[i] {
					dists[i] = bestVal
					ids[i] = int64(best)
				}
			}

			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}

	return ids, dists, nil
}
