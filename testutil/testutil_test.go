package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/mask"
)

func TestUniformSet(t *testing.T) {
	rng := NewRNG(4711)

	buf := rng.UniformSet(8, 32)

	assert.Equal(t, 8*32, len(buf))
	for _, v := range buf {
		assert.GreaterOrEqual(t, v, float32(0.0))
		assert.Less(t, v, float32(1.0))
	}
}

func TestUnitSet(t *testing.T) {
	rng := NewRNG(4711)

	buf := rng.UnitSet(8, 32)

	for i := 0; i < 8; i++ {
		var sum float32
		for _, v := range buf[i*32 : (i+1)*32] {
			sum += v * v
		}
		assert.InDelta(t, float32(1.0), sum, 1e-5)
	}
}

func TestDuplicateSet(t *testing.T) {
	rng := NewRNG(4711)

	buf := rng.DuplicateSet(3, 4, 8)

	assert.Equal(t, 3*4*8, len(buf))
	// Each distinct vector repeats 4 times in a row.
	for i := 0; i < 3; i++ {
		first := buf[i*4*8 : i*4*8+8]
		for r := 1; r < 4; r++ {
			repeat := buf[(i*4+r)*8 : (i*4+r+1)*8]
			assert.Equal(t, first, repeat)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformSet(1, 10)

	rng.Reset()
	v2 := rng.UniformSet(1, 10)

	assert.Equal(t, v1, v2)
}

func TestBruteForceKNN(t *testing.T) {
	// d=4, three database rows at squared distances 0, 1, 25 from origin.
	y := []float32{
		0, 0, 0, 0,
		1, 0, 0, 0,
		3, 4, 0, 0,
	}
	x := []float32{0, 0, 0, 0}

	ids, dists := BruteForceKNN(x, y, 4, 2, distance.MetricL2, nil)

	assert.Equal(t, []int64{0, 1}, ids)
	assert.Equal(t, []float32{0, 1}, dists)
}

func TestBruteForceKNNMaskAndPadding(t *testing.T) {
	y := []float32{0, 0, 1, 0, 2, 0}
	x := []float32{0, 0}

	ids, dists := BruteForceKNN(x, y, 2, 3, distance.MetricL2, mask.NewBits(0, 2))

	assert.Equal(t, []int64{1, -1, -1}, ids)
	assert.Equal(t, float32(1), dists[0])
}

func TestBruteForceRangeInclusive(t *testing.T) {
	y := []float32{0, 0, 1, 0, 2, 0}
	x := []float32{0, 0}

	lims, ids, _ := BruteForceRange(x, y, 2, 1, distance.MetricL2, nil)

	// Squared distance exactly 1 is inside the boundary.
	assert.Equal(t, []int{0, 2}, lims)
	assert.Equal(t, []int64{0, 1}, ids)
}
