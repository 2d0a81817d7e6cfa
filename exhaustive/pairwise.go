package exhaustive

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/blas"

	"github.com/hupe1980/vecscan/internal/math32"
)

// PairwiseL2Sqr computes the full nx x ny squared-L2 distance matrix
// between two row-major sets via the GEMM identity ‖x‖² + ‖y‖² − 2·x·yᵀ:
// the norm sums are written into dst first, then a single GEMM with
// alpha=-2, beta=1 accumulates the cross terms in place.
//
// ldx, ldy and ldd are the leading dimensions (row strides) of x, y and
// dst; pass -1 for the packed defaults d, d and ny. Strided layouts let
// callers compute distances over submatrices without copying.
//
// No clamping is applied; tiny negative values can appear for
// near-identical rows.
func PairwiseL2Sqr(dst, x, y []float32, d, nx, ny int, ldx, ldy, ldd int) error {
	if d <= 0 {
		return &ErrInvalidDimension{Dimension: d}
	}

	if nx == 0 || ny == 0 {
		return nil
	}

	if ldx < 0 {
		ldx = d
	}

	if ldy < 0 {
		ldy = d
	}

	if ldd < 0 {
		ldd = ny
	}

	if ldx < d || ldy < d || ldd < ny {
		return fmt.Errorf("leading dimension below row width: ldx=%d ldy=%d ldd=%d", ldx, ldy, ldd)
	}

	if want := (nx-1)*ldx + d; len(x) < want {
		return fmt.Errorf("queries: %w", &ErrDimensionMismatch{Expected: want, Actual: len(x)})
	}

	if want := (ny-1)*ldy + d; len(y) < want {
		return fmt.Errorf("database: %w", &ErrDimensionMismatch{Expected: want, Actual: len(y)})
	}

	if want := (nx-1)*ldd + ny; len(dst) < want {
		return fmt.Errorf("dst: %w", &ErrDimensionMismatch{Expected: want, Actual: len(dst)})
	}

	yNorms := make([]float32, ny)
	forEachChunk(runtime.GOMAXPROCS(0), 0, ny, func(begin, end int) {
		for j := begin; j < end; j++ {
			yNorms[j] = math32.NormL2Sqr(y[j*ldy : j*ldy+d])
		}
	})

	forEachChunk(runtime.GOMAXPROCS(0), 0, nx, func(begin, end int) {
		for i := begin; i < end; i++ {
			xn := math32.NormL2Sqr(x[i*ldx : i*ldx+d])
			row := dst[i*ldd : i*ldd+ny]

			for j := range row {
				row[j] = xn + yNorms[j]
			}
		}
	})

	return sgemmStrided(x, y, dst, nx, ny, d, ldx, ldy, ldd)
}

// sgemmStrided accumulates dst += -2 · x · yᵀ with explicit leading
// dimensions, recovering BLAS shape panics as errors.
func sgemmStrided(x, y, dst []float32, m, n, d, ldx, ldy, ldd int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("blas sgemm (%dx%dx%d): %v", m, n, d, r)
		}
	}()

	blasImpl.Sgemm(blas.NoTrans, blas.Trans, m, n, d, -2, x, ldx, y, ldy, 1, dst, ldd)

	return nil
}

// DotToL2Sqr converts a row-major inner-product matrix to squared L2 in
// place, given the squared norms of both sides: dst[i*n2+j] becomes
// xNormsSqr[i] + yNormsSqr[j] − 2·dst[i*n2+j]. Unclamped, like
// PairwiseL2Sqr.
func DotToL2Sqr(dst, xNormsSqr, yNormsSqr []float32) error {
	n1, n2 := len(xNormsSqr), len(yNormsSqr)

	if len(dst) != n1*n2 {
		return fmt.Errorf("dst: %w", &ErrDimensionMismatch{Expected: n1 * n2, Actual: len(dst)})
	}

	forEachChunk(runtime.GOMAXPROCS(0), 0, n1, func(begin, end int) {
		for i := begin; i < end; i++ {
			row := dst[i*n2 : (i+1)*n2]

			for j := range row {
				row[j] = xNormsSqr[i] + yNormsSqr[j] - 2*row[j]
			}
		}
	})

	return nil
}
