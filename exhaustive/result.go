package exhaustive

import "github.com/hupe1980/vecscan/internal/heap"

// KNNResult holds the top-k neighbors for a batch of queries as dense
// row-major arrays: row i occupies IDs[i*K:(i+1)*K] and the matching
// distance slots, sorted best-first. When a query has fewer than K eligible
// candidates the remaining slots hold id -1 and the metric's worst value.
type KNNResult struct {
	K     int
	IDs   []int64
	Dists []float32
}

func newKNNResult(nx, k int) *KNNResult {
	return &KNNResult{
		K:     k,
		IDs:   make([]int64, nx*k),
		Dists: make([]float32, nx*k),
	}
}

// Rows returns the number of query rows.
func (r *KNNResult) Rows() int {
	if r.K == 0 {
		return 0
	}

	return len(r.IDs) / r.K
}

// Row returns the result slots of query i.
func (r *KNNResult) Row(i int) (ids []int64, dists []float32) {
	return r.IDs[i*r.K : (i+1)*r.K], r.Dists[i*r.K : (i+1)*r.K]
}

// fill sentinel-initializes every slot.
func (r *KNNResult) fill(ord heap.Ordering) {
	heap.Reset(ord, r.Dists, r.IDs)
}

// RangeResult holds all candidates within the search radius, flattened
// behind a prefix sum: query i matched IDs[Lims[i]:Lims[i+1]] with the
// corresponding Dists slots. Within a query the candidates appear in
// ascending id order. Unordered by distance.
type RangeResult struct {
	Lims  []int
	IDs   []int64
	Dists []float32
}

// Rows returns the number of query rows.
func (r *RangeResult) Rows() int {
	return len(r.Lims) - 1
}

// Row returns the matches of query i.
func (r *RangeResult) Row(i int) (ids []int64, dists []float32) {
	return r.IDs[r.Lims[i]:r.Lims[i+1]], r.Dists[r.Lims[i]:r.Lims[i+1]]
}
