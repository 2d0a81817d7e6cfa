package exhaustive

import (
	"context"

	"github.com/hupe1980/vecscan/distance"
)

// RangeSearchL2Sqr finds every database row within squared Euclidean
// distance radius of each query. The boundary is inclusive: a row at
// exactly the radius is a match.
func RangeSearchL2Sqr(ctx context.Context, x, y []float32, d int, radius float32, opts ...SearchOption) (*RangeResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if err := p.checkNorms(ny); err != nil {
		return nil, err
	}

	return rangeSearch(ctx, x, y, d, nx, ny, radius, true, distance.SquaredL2, func() rowCorrection {
		return l2Correction(queryNormsSqr(x, d, nx), databaseNormsSqr(y, d, ny, p.yNormsSqr))
	}, p)
}

// RangeSearchInnerProduct finds every database row whose inner product
// with the query is at least radius (inclusive).
func RangeSearchInnerProduct(ctx context.Context, x, y []float32, d int, radius float32, opts ...SearchOption) (*RangeResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	return rangeSearch(ctx, x, y, d, nx, ny, radius, false, distance.Dot, func() rowCorrection {
		return nil
	}, p)
}

// RangeSearchCosine finds every database row whose one-sided cosine
// similarity with the query is at least radius (inclusive).
func RangeSearchCosine(ctx context.Context, x, y []float32, d int, radius float32, opts ...SearchOption) (*RangeResult, error) {
	p := newParams(opts)

	nx, ny, err := checkShape(x, y, d)
	if err != nil {
		return nil, err
	}

	if err := p.checkNorms(ny); err != nil {
		return nil, err
	}

	return rangeSearch(ctx, x, y, d, nx, ny, radius, false, distance.Cosine, func() rowCorrection {
		return cosineCorrection(databaseNorms(y, d, ny, p.yNorms))
	}, p)
}

// rangeSearch is the shared radius driver skeleton, mirroring knn but with
// the unbounded range accumulator and a flattened triple result.
func rangeSearch(ctx context.Context, x, y []float32, d, nx, ny int, radius float32, smallerBetter bool, kern distance.Func, makeCorr func() rowCorrection, p *params) (*RangeResult, error) {
	acc := newRangeAccumulator(smallerBetter, radius, nx, p.workers)

	if nx == 0 || ny == 0 {
		return acc.Result(), nil
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

	return acc.Result(), nil
}
