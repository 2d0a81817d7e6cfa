package exhaustive

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is negative. A zero k is not an
	// error; it succeeds with an empty result.
	ErrInvalidK = errors.New("k must not be negative")

	// ErrJaccardDimension is returned when the jaccard driver is called
	// with a dimension that is not a multiple of 4, the alignment contract
	// of the jaccard kernel family.
	ErrJaccardDimension = errors.New("jaccard requires the dimension to be a multiple of 4")

	// ErrMaskUnsupported is returned by drivers that cannot honor an
	// exclusion mask. Ignoring the mask silently would change results.
	ErrMaskUnsupported = errors.New("exclusion mask is not supported by this driver")
)

// ErrInvalidDimension indicates a non-positive vector dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrDimensionMismatch indicates a flat vector buffer whose length is not a
// multiple of the dimension, or an auxiliary buffer whose length does not
// match the expected row count.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// checkSet validates a flat row-major vector set and returns its row count.
func checkSet(buf []float32, d int) (int, error) {
	if d <= 0 {
		return 0, &ErrInvalidDimension{Dimension: d}
	}

	if len(buf)%d != 0 {
		return 0, &ErrDimensionMismatch{Expected: (len(buf)/d + 1) * d, Actual: len(buf)}
	}

	return len(buf) / d, nil
}

// checkShape validates the query and database sets together.
func checkShape(x, y []float32, d int) (nx, ny int, err error) {
	nx, err = checkSet(x, d)
	if err != nil {
		return 0, 0, fmt.Errorf("queries: %w", err)
	}

	ny, err = checkSet(y, d)
	if err != nil {
		return 0, 0, fmt.Errorf("database: %w", err)
	}

	return nx, ny, nil
}
