package exhaustive

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/internal/heap"
)

// DotByIDs computes the inner product between each query row and an
// explicit per-query subset of database rows. ids holds one list of m ids
// per query, row-major (nx*m entries); dst has the same shape and receives
// dst[i*m+s] = Dot(x_i, y[ids[i*m+s]]). Negative ids are skipped: their
// dst slots are left untouched. Used for re-ranking pre-filtered
// candidate sets.
func DotByIDs(dst, x, y []float32, ids []int64, d, m int) error {
	return byIDs(dst, x, y, ids, d, m, distance.Dot)
}

// L2SqrByIDs is DotByIDs for squared Euclidean distance.
func L2SqrByIDs(dst, x, y []float32, ids []int64, d, m int) error {
	return byIDs(dst, x, y, ids, d, m, distance.SquaredL2)
}

func byIDs(dst, x, y []float32, ids []int64, d, m int, kern distance.Func) error {
	nx, _, err := checkShape(x, y, d)
	if err != nil {
		return err
	}

	if m < 0 {
		return fmt.Errorf("subset size %d must not be negative", m)
	}

	if len(ids) != nx*m {
		return fmt.Errorf("ids: %w", &ErrDimensionMismatch{Expected: nx * m, Actual: len(ids)})
	}

	if len(dst) != nx*m {
		return fmt.Errorf("dst: %w", &ErrDimensionMismatch{Expected: nx * m, Actual: len(dst)})
	}

	forEachChunk(runtime.GOMAXPROCS(0), 0, nx, func(begin, end int) {
		for i := begin; i < end; i++ {
			xi := x[i*d : (i+1)*d]
			list := ids[i*m : (i+1)*m]
			out := dst[i*m : (i+1)*m]

			for s, id := range list {
				if id < 0 {
					continue
				}

				out[s] = kern(xi, y[id*int64(d):(id+1)*int64(d)])
			}
		}
	})

	return nil
}

// KNNInnerProductByIDs runs a top-k inner-product search restricted to an
// explicit per-query candidate list: ids holds m candidate ids per query,
// row-major. Negative ids are skipped silently. The scan parallelizes over
// queries with a bounded-heap accumulator.
func KNNInnerProductByIDs(ctx context.Context, x, y []float32, ids []int64, d, k int, opts ...SearchOption) (*KNNResult, error) {
	return knnByIDs(ctx, x, y, ids, d, k, heap.Max{}, distance.Dot, opts)
}

// KNNL2SqrByIDs is KNNInnerProductByIDs for squared Euclidean distance.
func KNNL2SqrByIDs(ctx context.Context, x, y []float32, ids []int64, d, k int, opts ...SearchOption) (*KNNResult, error) {
	return knnByIDs(ctx, x, y, ids, d, k, heap.Min{}, distance.SquaredL2, opts)
}

func knnByIDs(ctx context.Context, x, y []float32, ids []int64, d, k int, ord heap.Ordering, kern distance.Func, opts []SearchOption) (*KNNResult, error) {
	p := newParams(opts)

	nx, _, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if k < 0 {
		return nil, ErrInvalidK
	}

	if nx > 0 && len(ids)%nx != 0 {
		return nil, fmt.Errorf("ids: %w", &ErrDimensionMismatch{Expected: (len(ids)/nx + 1) * nx, Actual: len(ids)})
	}

	res := newKNNResult(nx, k)
	if nx == 0 || k == 0 {
		return res, nil
	}

	acc := newHeapAccumulator(ord, res, p.workers)

	m := len(ids) / nx
	if m == 0 {
		return res, nil
	}

	excl := p.excl

	err = forEachChunkCtx(ctx, p.workers, 0, nx, func(ctx context.Context, begin, end int) error {
		s := acc.Single()

		for i := begin; i < end; i++ {
			if ctx.Err() != nil {
				return canceled(ctx)
			}

			xi := x[i*d : (i+1)*d]
			list := ids[i*m : (i+1)*m]

			s.Begin(i)
			for _, id := range list {
				if id < 0 {
					continue
				}

				if excl != nil && excl.Test(id) {
					continue
				}

				s.Add(kern(xi, y[id*int64(d):(id+1)*int64(d)]), id)
			}
			s.End()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// PairwiseIndexedL2Sqr computes elementwise distances between two indexed
// row sets: dst[s] = SquaredL2(x[ix[s]], y[iy[s]]). Pairs with a negative
// index on either side are skipped.
func PairwiseIndexedL2Sqr(dst, x, y []float32, d int, ix, iy []int64) error {
	return pairwiseIndexed(dst, x, y, d, ix, iy, distance.SquaredL2)
}

// PairwiseIndexedInnerProduct is PairwiseIndexedL2Sqr for the inner
// product.
func PairwiseIndexedInnerProduct(dst, x, y []float32, d int, ix, iy []int64) error {
	return pairwiseIndexed(dst, x, y, d, ix, iy, distance.Dot)
}

func pairwiseIndexed(dst, x, y []float32, d int, ix, iy []int64, kern distance.Func) error {
	if _, _, err := checkShape(x, y, d); err != nil {
		return err
	}

	if len(ix) != len(iy) {
		return fmt.Errorf("iy: %w", &ErrDimensionMismatch{Expected: len(ix), Actual: len(iy)})
	}

	if len(dst) != len(ix) {
		return fmt.Errorf("dst: %w", &ErrDimensionMismatch{Expected: len(ix), Actual: len(dst)})
	}

	forEachChunk(runtime.GOMAXPROCS(0), 0, len(ix), func(begin, end int) {
		for s := begin; s < end; s++ {
			if ix[s] < 0 || iy[s] < 0 {
				continue
			}

			dst[s] = kern(x[ix[s]*int64(d):(ix[s]+1)*int64(d)], y[iy[s]*int64(d):(iy[s]+1)*int64(d)])
		}
	})

	return nil
}
