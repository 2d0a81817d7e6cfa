package distance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormsL2(t *testing.T) {
	x := []float32{
		3, 4,
		0, 0,
		1, 0,
	}

	dst := make([]float32, 3)
	NormsL2(dst, x, 2)

	assert.InDelta(t, 5, dst[0], 1e-6)
	assert.InDelta(t, 0, dst[1], 1e-6)
	assert.InDelta(t, 1, dst[2], 1e-6)
}

func TestNormsL2Sqr(t *testing.T) {
	x := []float32{
		3, 4,
		1, 2,
	}

	dst := make([]float32, 2)
	NormsL2Sqr(dst, x, 2)

	assert.InDelta(t, 25, dst[0], 1e-6)
	assert.InDelta(t, 5, dst[1], 1e-6)
}

func TestRenormL2InPlace(t *testing.T) {
	x := []float32{
		3, 4,
		0, 0,
		2, 0,
	}

	RenormL2InPlace(x, 2)

	assert.InDelta(t, 0.6, x[0], 1e-6)
	assert.InDelta(t, 0.8, x[1], 1e-6)

	// Zero rows stay untouched.
	assert.Equal(t, float32(0), x[2])
	assert.Equal(t, float32(0), x[3])

	assert.InDelta(t, 1, x[4], 1e-6)
	assert.InDelta(t, 0, x[5], 1e-6)
}

// Above the serial threshold the chunked path must produce the same values
// as the row-by-row kernels.
func TestNormsL2SqrParallelMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // nolint gosec

	const (
		rows = 2048
		dim  = 9
	)

	x := make([]float32, rows*dim)
	for i := range x {
		x[i] = rng.Float32()*2 - 1
	}

	dst := make([]float32, rows)
	NormsL2Sqr(dst, x, dim)

	for i := 0; i < rows; i++ {
		row := x[i*dim : (i+1)*dim]
		assert.Equal(t, Dot(row, row), dst[i])
	}
}
