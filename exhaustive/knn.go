package exhaustive

import (
	"context"
	"fmt"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/internal/heap"
)

// checkNorms validates caller-provided database norm buffers against the
// database row count.
func (p *params) checkNorms(ny int) error {
	if p.yNormsSqr != nil && len(p.yNormsSqr) != ny {
		return fmt.Errorf("database squared norms: %w", &ErrDimensionMismatch{Expected: ny, Actual: len(p.yNormsSqr)})
	}

	if p.yNorms != nil && len(p.yNorms) != ny {
		return fmt.Errorf("database norms: %w", &ErrDimensionMismatch{Expected: ny, Actual: len(p.yNorms)})
	}

	return nil
}

// KNNL2Sqr finds the k nearest database rows per query under squared
// Euclidean distance. Results are sorted ascending; unfilled slots hold id
// -1 and +Inf. Precomputed squared database norms, supplied through
// WithDatabaseNormsSqr, spare the blocked path a norm pass.
func KNNL2Sqr(ctx context.Context, x, y []float32, d, k int, opts ...SearchOption) (*KNNResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if err := p.checkNorms(ny); err != nil {
		return nil, err
	}

	return knn(ctx, x, y, d, nx, ny, k, heap.Min{}, distance.SquaredL2, func() rowCorrection {
		return l2Correction(queryNormsSqr(x, d, nx), databaseNormsSqr(y, d, ny, p.yNormsSqr))
	}, p)
}

// KNNInnerProduct finds the k database rows with the largest inner product
// per query. Results are sorted descending; unfilled slots hold id -1 and
// -Inf.
func KNNInnerProduct(ctx context.Context, x, y []float32, d, k int, opts ...SearchOption) (*KNNResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	return knn(ctx, x, y, d, nx, ny, k, heap.Max{}, distance.Dot, func() rowCorrection {
		return nil // raw inner products are the metric
	}, p)
}

// KNNCosine finds the k database rows with the largest one-sided cosine
// similarity per query (inner product over the database row norm; the
// query norm is not divided out). Precomputed database norms, supplied
// through WithDatabaseNorms, spare the blocked path a norm pass.
func KNNCosine(ctx context.Context, x, y []float32, d, k int, opts ...SearchOption) (*KNNResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if err := p.checkNorms(ny); err != nil {
		return nil, err
	}

	return knn(ctx, x, y, d, nx, ny, k, heap.Max{}, distance.Cosine, func() rowCorrection {
		return cosineCorrection(databaseNorms(y, d, ny, p.yNorms))
	}, p)
}

// KNNJaccard finds the k database rows with the smallest generalized
// Jaccard distance per query. The jaccard kernel family requires the
// dimension to be a multiple of 4, and the driver always runs the blocked
// path regardless of the query count; a forced scalar decomposition via
// WithDecomposition is ignored.
func KNNJaccard(ctx context.Context, x, y []float32, d, k int, opts ...SearchOption) (*KNNResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if d%4 != 0 {
		return nil, ErrJaccardDimension
	}

	if k < 0 {
		return nil, ErrInvalidK
	}

	res := newKNNResult(nx, k)
	if nx == 0 || k == 0 {
		return res, nil
	}

	acc := newKNNAccumulator(heap.Min{}, res, p)
	if ny == 0 {
		return res, nil
	}

	corr := jaccardCorrection(queryNormsSqr(x, d, nx), databaseNormsSqr(y, d, ny, nil))
	if err := scanBlocked(ctx, x, y, d, nx, ny, acc, corr, p); err != nil {
		return nil, err
	}

	return res, nil
}

// knn is the shared top-k driver skeleton: validate k, allocate the
// sentinel-filled result, pick the accumulator variant, then run the
// scalar or blocked path per the decomposition policy. makeCorr builds the
// tile correction lazily so the norm precompute only happens when the
// blocked path is actually taken.
func knn(ctx context.Context, x, y []float32, d, nx, ny, k int, ord heap.Ordering, kern distance.Func, makeCorr func() rowCorrection, p *params) (*KNNResult, error) {
	if k < 0 {
		return nil, ErrInvalidK
	}

	res := newKNNResult(nx, k)
	if nx == 0 || k == 0 {
		return res, nil
	}

	acc := newKNNAccumulator(ord, res, p)
	if ny == 0 {
		return res, nil
	}

	var err error
	if p.useBlocked(nx) {
		err = scanBlocked(ctx, x, y, d, nx, ny, acc, makeCorr(), p)
	} else {
		err = scanScalar(ctx, x, y, d, nx, ny, kern, acc, p)
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}
