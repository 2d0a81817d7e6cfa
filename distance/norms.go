package distance

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecscan/internal/math32"
)

// serialRowThreshold is the row count under which the batch helpers stay
// single-threaded; forking costs more than the work below it.
const serialRowThreshold = 256

// NormsL2 computes the L2 norm of every row of the row-major set x with
// dimension d and stores it in dst. len(dst) rows are processed.
func NormsL2(dst, x []float32, d int) {
	forEachRow(len(dst), func(begin, end int) {
		for i := begin; i < end; i++ {
			dst[i] = math32.Sqrt(math32.NormL2Sqr(x[i*d : (i+1)*d]))
		}
	})
}

// NormsL2Sqr computes the squared L2 norm of every row of the row-major set
// x with dimension d and stores it in dst. len(dst) rows are processed.
func NormsL2Sqr(dst, x []float32, d int) {
	forEachRow(len(dst), func(begin, end int) {
		for i := begin; i < end; i++ {
			dst[i] = math32.NormL2Sqr(x[i*d : (i+1)*d])
		}
	})
}

// RenormL2InPlace L2-normalizes every row of the row-major set x with
// dimension d in place. Zero-norm rows are left untouched.
func RenormL2InPlace(x []float32, d int) {
	if d <= 0 {
		return
	}

	forEachRow(len(x)/d, func(begin, end int) {
		for i := begin; i < end; i++ {
			NormalizeL2InPlace(x[i*d : (i+1)*d])
		}
	})
}

// forEachRow runs fn over [0, n) in contiguous chunks, one per worker.
func forEachRow(n int, fn func(begin, end int)) {
	if n <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if n < serialRowThreshold || workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for begin := 0; begin < n; begin += chunk {
		end := min(begin+chunk, n)

		g.Go(func() error {
			fn(begin, end)
			return nil
		})
	}

	_ = g.Wait() // workers never fail
}
