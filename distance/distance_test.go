package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		// Large vector to trigger the accelerated kernels
		{"Large", make([]float32, 1024), make([]float32, 1024), 0}, // Zeros
	}

	// Setup large vector
	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8}, // (1 - -1)^2 + (-1 - 1)^2 = 4 + 4 = 8
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Unit b", []float32{2, 0}, []float32{1, 0}, 2},
		{"Scaled b", []float32{2, 0}, []float32{10, 0}, 2},
		{"Orthogonal", []float32{1, 0}, []float32{0, 5}, 0},
		{"Zero b", []float32{1, 2}, []float32{0, 0}, 0},
		{"Diagonal", []float32{1, 1}, []float32{3, 3}, float32(math.Sqrt2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

// The cosine kernel divides by the norm of the second argument only, so the
// ranking for a fixed query must not depend on the query's own scale.
func TestCosineQueryScaleInvariantRanking(t *testing.T) {
	q := []float32{0.3, -0.7, 0.2}
	q10 := []float32{3, -7, 2}

	b1 := []float32{1, 0, 1}
	b2 := []float32{-2, 5, 0}

	s1, s2 := Cosine(q, b1), Cosine(q, b2)
	t1, t2 := Cosine(q10, b1), Cosine(q10, b2)

	assert.Equal(t, s1 > s2, t1 > t2)
	assert.InDelta(t, 10*s1, t1, 1e-4)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Identical", []float32{1, 2, 0, 1}, []float32{1, 2, 0, 1}, 0},
		{"Disjoint", []float32{1, 0, 0, 0}, []float32{0, 1, 0, 0}, 1},
		{"Both zero", []float32{0, 0, 0, 0}, []float32{0, 0, 0, 0}, 0},
		// ip = 2, |a|^2 = 2, |b|^2 = 4 -> 1 - 2/(2+4-2) = 0.5
		{"Partial overlap", []float32{1, 1, 0, 0}, []float32{2, 0, 0, 0}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		// Normal case
		v := []float32{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, float32(0.6), v[0], 1e-5)
		assert.InDelta(t, float32(0.8), v[1], 1e-5)

		// Length check of norm
		assert.InDelta(t, float32(1.0), float32(math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]))), 1e-5)

		// Zero vector
		vZero := []float32{0, 0}
		ok = NormalizeL2InPlace(vZero)
		assert.False(t, ok)

		// Empty vector
		vEmpty := []float32{}
		ok = NormalizeL2InPlace(vEmpty)
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float32{1, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, float32(1), dst[0])
		assert.NotSame(t, &v[0], &dst[0])

		vZero := []float32{0, 0}
		dst, ok = NormalizeL2Copy(vZero)
		assert.False(t, ok)
		assert.Nil(t, dst)
	})
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "InnerProduct", MetricInnerProduct.String())
		assert.Equal(t, "Cosine", MetricCosine.String())
		assert.Equal(t, "Jaccard", MetricJaccard.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("SmallerIsBetter", func(t *testing.T) {
		assert.True(t, MetricL2.SmallerIsBetter())
		assert.True(t, MetricJaccard.SmallerIsBetter())
		assert.False(t, MetricInnerProduct.SmallerIsBetter())
		assert.False(t, MetricCosine.SmallerIsBetter())
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.NotNil(t, f)
		assert.InDelta(t, float32(27), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricInnerProduct)
		require.NoError(t, err)
		assert.NotNil(t, f)
		assert.InDelta(t, float32(32), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricCosine)
		require.NoError(t, err)
		assert.NotNil(t, f)

		f, err = Provider(MetricJaccard)
		require.NoError(t, err)
		assert.NotNil(t, f)

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})
}
