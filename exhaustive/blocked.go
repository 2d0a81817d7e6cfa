package exhaustive

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/hupe1980/vecscan/distance"
)

// blasImpl is gonum's pure-Go BLAS. It dispatches to SIMD internally.
var blasImpl = gonum.Implementation{}

// sgemm computes the row-major tile block = xTile · yTileᵀ, the raw
// inner products of m query rows against n database rows. The BLAS layer
// panics on malformed shapes; that is recovered here and surfaced as an
// error so a driver call never crashes the process.
func sgemm(xTile, yTile, block []float32, m, n, d int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("blas sgemm (%dx%dx%d): %v", m, n, d, r)
		}
	}()

	blasImpl.Sgemm(blas.NoTrans, blas.Trans, m, n, d, 1, xTile, d, yTile, d, 0, block, n)

	return nil
}

// rowCorrection rewrites one tile line of raw inner products into the
// metric's distance for query row i against database rows [j0,j1).
// A nil correction leaves the inner products untouched.
type rowCorrection func(i, j0, j1 int, line []float32)

// scanBlocked computes the pairwise matrix tile by tile: a GEMM per tile
// pair, the metric correction in place, then the tile is streamed into the
// accumulator. The tile buffer is reused across iterations; its size bounds
// the working set. Cancellation is polled between query blocks; completed
// blocks' partial accumulation is discarded by the caller on error.
func scanBlocked(ctx context.Context, x, y []float32, d, nx, ny int, acc accumulator, corr rowCorrection, p *params) error {
	bsx, bsy := p.queryBlock, p.dbBlock
	block := make([]float32, bsx*bsy)

	for i0 := 0; i0 < nx; i0 += bsx {
		i1 := min(i0+bsx, nx)

		acc.BeginMultiple(i0, i1)

		for j0 := 0; j0 < ny; j0 += bsy {
			j1 := min(j0+bsy, ny)

			stride := j1 - j0
			tile := block[:(i1-i0)*stride]

			if err := sgemm(x[i0*d:i1*d], y[j0*d:j1*d], tile, i1-i0, stride, d); err != nil {
				return err
			}

			if corr != nil {
				forEachChunk(p.workers, i0, i1, func(begin, end int) {
					for i := begin; i < end; i++ {
						corr(i, j0, j1, tile[(i-i0)*stride:(i-i0+1)*stride])
					}
				})
			}

			acc.AddResults(i0, i1, j0, j1, tile, p.excl)
		}

		acc.EndMultiple(i0, i1)

		if ctx.Err() != nil {
			return canceled(ctx)
		}
	}

	return nil
}

// l2Correction turns raw inner products into squared L2 distances via
// ‖x‖² + ‖y‖² − 2·ip. Roundoff can push near-identical vectors slightly
// negative; those clamp to 0.
func l2Correction(xNormsSqr, yNormsSqr []float32) rowCorrection {
	return func(i, j0, j1 int, line []float32) {
		xn := xNormsSqr[i]

		for j := j0; j < j1; j++ {
			dis := xn + yNormsSqr[j] - 2*line[j-j0]
			if dis < 0 {
				dis = 0
			}

			line[j-j0] = dis
		}
	}
}

// cosineCorrection divides raw inner products by the database row norm.
// The query norm is deliberately not divided out; see distance.Cosine.
func cosineCorrection(yNorms []float32) rowCorrection {
	return func(i, j0, j1 int, line []float32) {
		for j := j0; j < j1; j++ {
			if n := yNorms[j]; n != 0 {
				line[j-j0] /= n
			} else {
				line[j-j0] = 0
			}
		}
	}
}

// jaccardCorrection turns raw inner products into generalized Jaccard
// distances, clamped to [0, inf) like the scalar kernel.
func jaccardCorrection(xNormsSqr, yNormsSqr []float32) rowCorrection {
	return func(i, j0, j1 int, line []float32) {
		xn := xNormsSqr[i]

		for j := j0; j < j1; j++ {
			ip := line[j-j0]

			dis := float32(0)
			if denom := xn + yNormsSqr[j] - ip; denom > 0 {
				dis = 1 - ip/denom
				if dis < 0 {
					dis = 0
				}
			}

			line[j-j0] = dis
		}
	}
}

// databaseNormsSqr returns the squared L2 norms of the database rows,
// preferring caller-provided values.
func databaseNormsSqr(y []float32, d, ny int, provided []float32) []float32 {
	if provided != nil {
		return provided
	}

	norms := make([]float32, ny)
	distance.NormsL2Sqr(norms, y, d)

	return norms
}

// databaseNorms returns the L2 norms of the database rows, preferring
// caller-provided values.
func databaseNorms(y []float32, d, ny int, provided []float32) []float32 {
	if provided != nil {
		return provided
	}

	norms := make([]float32, ny)
	distance.NormsL2(norms, y, d)

	return norms
}

// queryNormsSqr returns the squared L2 norms of the query rows.
func queryNormsSqr(x []float32, d, nx int) []float32 {
	norms := make([]float32, nx)
	distance.NormsL2Sqr(norms, x, d)

	return norms
}
