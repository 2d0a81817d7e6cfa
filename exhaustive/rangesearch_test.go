package exhaustive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/mask"
	"github.com/hupe1980/vecscan/testutil"
)

func TestRangeSearchL2SqrBoundaryInclusive(t *testing.T) {
	// Rows at squared distances 0, 1 and 4 from the query; radius 1 must
	// include the row at exactly 1.
	y := []float32{
		0, 0,
		1, 0,
		2, 0,
	}
	x := []float32{0, 0}

	for _, decomp := range []Decomposition{DecompositionOverQueries, DecompositionOverDatabase} {
		res, err := RangeSearchL2Sqr(context.Background(), x, y, 2, 1, WithDecomposition(decomp))
		require.NoError(t, err)

		assert.Equal(t, []int{0, 2}, res.Lims)
		assert.Equal(t, []int64{0, 1}, res.IDs)
		assert.Equal(t, []float32{0, 1}, res.Dists)
	}
}

func TestRangeSearchInnerProductBoundaryInclusive(t *testing.T) {
	// Inner products with the query are 1, 0.5 and 0.25; the similarity
	// radius keeps rows at or above it. All values are powers of two, so
	// the comparisons are exact.
	y := []float32{
		1, 0,
		0.5, 0,
		0.25, 0,
	}
	x := []float32{1, 0}

	res, err := RangeSearchInnerProduct(context.Background(), x, y, 2, 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 1}, res.IDs)
	assert.Equal(t, []float32{1, 0.5}, res.Dists)
}

func TestRangeSearchCosineBoundaryInclusive(t *testing.T) {
	// One-sided cosine of the unit query against each row: 1, 0, -1.
	y := []float32{
		2, 0,
		0, 3,
		-4, 0,
	}
	x := []float32{1, 0}

	res, err := RangeSearchCosine(context.Background(), x, y, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{0}, res.IDs)
	assert.Equal(t, []float32{1}, res.Dists)
}

func TestRangeSearchMatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(60)

	const (
		d  = 8
		nx = 6
		ny = 400
	)

	x := rng.UniformSet(nx, d)
	y := rng.UniformSet(ny, d)

	tests := []struct {
		name   string
		metric distance.Metric
		radius float32
		search func(ctx context.Context, x, y []float32, d int, radius float32, opts ...SearchOption) (*RangeResult, error)
	}{
		{name: "L2", metric: distance.MetricL2, radius: 0.8, search: RangeSearchL2Sqr},
		{name: "InnerProduct", metric: distance.MetricInnerProduct, radius: 2.2, search: RangeSearchInnerProduct},
		{name: "Cosine", metric: distance.MetricCosine, radius: 1.9, search: RangeSearchCosine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantLims, wantIDs, wantDists := testutil.BruteForceRange(x, y, d, tt.radius, tt.metric, nil)

			for _, decomp := range []Decomposition{DecompositionOverQueries, DecompositionOverDatabase} {
				res, err := tt.search(context.Background(), x, y, d, tt.radius, WithDecomposition(decomp))
				require.NoError(t, err)

				assert.Equal(t, wantLims, res.Lims, "%v", decomp)
				assert.Equal(t, wantIDs, res.IDs, "%v", decomp)
				assert.Equal(t, wantDists, res.Dists, "%v", decomp)
			}
		})
	}
}

func TestRangeSearchBlockedMatchesScalar(t *testing.T) {
	rng := testutil.NewRNG(61)

	const (
		d  = 8
		nx = 6
		ny = 150
	)

	x := rng.UniformSet(nx, d)
	y := rng.UniformSet(ny, d)

	scalar, err := RangeSearchL2Sqr(context.Background(), x, y, d, 0.7, WithDecomposition(DecompositionOverQueries))
	require.NoError(t, err)

	blocked, err := RangeSearchL2Sqr(context.Background(), x, y, d, 0.7,
		WithDecomposition(DecompositionBlocked), WithBlockSizes(4, 33))
	require.NoError(t, err)

	assert.Equal(t, scalar.Lims, blocked.Lims)
	assert.Equal(t, scalar.IDs, blocked.IDs)
	for s := range scalar.Dists {
		assert.InDelta(t, scalar.Dists[s], blocked.Dists[s], 1e-4)
	}
}

func TestRangeSearchExclusionMask(t *testing.T) {
	rng := testutil.NewRNG(62)

	const (
		d  = 8
		nx = 3
		ny = 100
	)

	x := rng.UniformSet(nx, d)
	y := rng.UniformSet(ny, d)

	var excluded []int64
	for j := int64(0); j < ny; j += 3 {
		excluded = append(excluded, j)
	}
	m := mask.NewRoaring(excluded...)

	res, err := RangeSearchL2Sqr(context.Background(), x, y, d, 1.5, WithMask(m))
	require.NoError(t, err)

	for _, id := range res.IDs {
		assert.NotZero(t, id%3, "excluded id %d in results", id)
	}

	wantLims, wantIDs, _ := testutil.BruteForceRange(x, y, d, 1.5, distance.MetricL2, m)
	assert.Equal(t, wantLims, res.Lims)
	assert.Equal(t, wantIDs, res.IDs)
}

func TestRangeSearchAllMasked(t *testing.T) {
	rng := testutil.NewRNG(63)

	y := rng.UniformSet(16, 4)
	x := rng.UniformSet(2, 4)

	all := make([]int64, 16)
	for j := range all {
		all[j] = int64(j)
	}

	res, err := RangeSearchL2Sqr(context.Background(), x, y, 4, 100, WithMask(mask.NewBits(all...)))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, res.Lims)
	assert.Empty(t, res.IDs)
}

func TestRangeSearchEmptyInputs(t *testing.T) {
	res, err := RangeSearchL2Sqr(context.Background(), nil, nil, 4, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, res.Lims)
	assert.Empty(t, res.IDs)
}
