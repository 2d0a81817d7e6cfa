package heap

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetFillsSentinels(t *testing.T) {
	dists := make([]float32, 4)
	ids := make([]int64, 4)

	Reset(Min{}, dists, ids)
	for i := range dists {
		assert.True(t, math.IsInf(float64(dists[i]), 1))
		assert.Equal(t, SentinelID, ids[i])
	}

	Reset(Max{}, dists, ids)
	for i := range dists {
		assert.True(t, math.IsInf(float64(dists[i]), -1))
		assert.Equal(t, SentinelID, ids[i])
	}
}

func TestPushBoundedKeepsBest(t *testing.T) {
	const k = 3

	dists := make([]float32, k)
	ids := make([]int64, k)
	Reset(Min{}, dists, ids)

	input := []float32{5, 1, 4, 2, 9, 3}
	for id, d := range input {
		PushBounded(Min{}, dists, ids, d, int64(id))
	}

	Reorder(Min{}, dists, ids)

	assert.Equal(t, []float32{1, 2, 3}, dists)
	assert.Equal(t, []int64{1, 3, 5}, ids)
}

func TestPushBoundedMaxOrientation(t *testing.T) {
	const k = 2

	dists := make([]float32, k)
	ids := make([]int64, k)
	Reset(Max{}, dists, ids)

	input := []float32{0.5, 2.5, -1, 2.5, 7}
	for id, d := range input {
		PushBounded(Max{}, dists, ids, d, int64(id))
	}

	Reorder(Max{}, dists, ids)

	assert.Equal(t, []float32{7, 2.5}, dists)
	// Among the two 2.5 scores the smaller id wins.
	assert.Equal(t, []int64{4, 1}, ids)
}

func TestTieBreakPrefersSmallerID(t *testing.T) {
	const k = 2

	dists := make([]float32, k)
	ids := make([]int64, k)
	Reset(Min{}, dists, ids)

	PushBounded(Min{}, dists, ids, 1, 7)
	PushBounded(Min{}, dists, ids, 1, 3)
	PushBounded(Min{}, dists, ids, 1, 9)
	PushBounded(Min{}, dists, ids, 1, 5)

	Reorder(Min{}, dists, ids)

	assert.Equal(t, []float32{1, 1}, dists)
	assert.Equal(t, []int64{3, 5}, ids)
}

func TestTieBreakInsertionOrderIndependent(t *testing.T) {
	const k = 4

	input := [][2]float32{} // (dist, id) pairs, built below
	for id := 0; id < 16; id++ {
		input = append(input, [2]float32{float32(id % 4), float32(id)})
	}

	run := func(perm []int) ([]float32, []int64) {
		dists := make([]float32, k)
		ids := make([]int64, k)
		Reset(Min{}, dists, ids)

		for _, p := range perm {
			PushBounded(Min{}, dists, ids, input[p][0], int64(input[p][1]))
		}

		Reorder(Min{}, dists, ids)

		return dists, ids
	}

	base := rand.Perm(len(input)) // nolint gosec
	wantDists, wantIDs := run(base)

	for trial := 0; trial < 10; trial++ {
		gotDists, gotIDs := run(rand.Perm(len(input))) // nolint gosec
		assert.Equal(t, wantDists, gotDists)
		assert.Equal(t, wantIDs, gotIDs)
	}
}

func TestReorderAgainstSort(t *testing.T) {
	rng := rand.New(rand.NewSource(1)) // nolint gosec

	const (
		k = 16
		n = 200
	)

	type pair struct {
		d  float32
		id int64
	}

	pairs := make([]pair, n)
	for i := range pairs {
		pairs[i] = pair{d: rng.Float32(), id: int64(i)}
	}

	dists := make([]float32, k)
	ids := make([]int64, k)
	Reset(Min{}, dists, ids)

	for _, p := range pairs {
		PushBounded(Min{}, dists, ids, p.d, p.id)
	}

	Reorder(Min{}, dists, ids)

	sort.Slice(pairs, func(i, j int) bool {
		return Min{}.Better(pairs[i].d, pairs[i].id, pairs[j].d, pairs[j].id)
	})

	for i := 0; i < k; i++ {
		require.Equal(t, pairs[i].id, ids[i])
		require.Equal(t, pairs[i].d, dists[i])
	}
}
