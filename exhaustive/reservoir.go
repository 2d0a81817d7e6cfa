package exhaustive

import (
	"sort"

	"github.com/hupe1980/vecscan/internal/heap"
	"github.com/hupe1980/vecscan/mask"
)

// reservoirAccumulator is the top-k accumulator for large k. Instead of
// maintaining a heap (O(log k) per kept insertion) it keeps per query row
// an unsorted overflow buffer behind a coarse admission threshold. When the
// buffer fills, a partial selection keeps the best k entries and tightens
// the threshold; most later candidates then fail the threshold with a
// single comparison.
type reservoirAccumulator struct {
	ord      heap.Ordering
	k        int
	capacity int
	workers  int
	rows     []reservoirRow
	out      *KNNResult // nil on clones
}

type reservoirRow struct {
	dists []float32
	ids   []int64

	// threshold admits candidates that could still make the top k.
	// thresholdID participates so that equal-valued candidates with a
	// smaller id are not lost at the boundary. The initial pair is the
	// same (worst value, sentinel id) a bounded heap starts from, so the
	// two accumulators admit exactly the same candidates.
	threshold   float32
	thresholdID int64
}

func newReservoirAccumulator(ord heap.Ordering, res *KNNResult, workers int) *reservoirAccumulator {
	res.fill(ord)

	a := &reservoirAccumulator{
		ord:      ord,
		k:        res.K,
		capacity: reservoirCapacity(res.K),
		workers:  workers,
		rows:     make([]reservoirRow, res.Rows()),
		out:      res,
	}

	a.resetRows(0, len(a.rows))

	return a
}

// reservoirCapacity sizes the overflow buffer: twice k, rounded up so the
// buffer does not thrash at small overflows.
func reservoirCapacity(k int) int {
	return (2*k + 15) &^ 15
}

func (a *reservoirAccumulator) resetRows(i0, i1 int) {
	for i := i0; i < i1; i++ {
		a.rows[i].dists = a.rows[i].dists[:0]
		a.rows[i].ids = a.rows[i].ids[:0]
		a.rows[i].threshold = a.ord.Worst()
		a.rows[i].thresholdID = heap.SentinelID
	}
}

func (a *reservoirAccumulator) add(i int, dist float32, id int64) {
	r := &a.rows[i]

	if !a.ord.Better(dist, id, r.threshold, r.thresholdID) {
		return
	}

	if r.dists == nil {
		r.dists = make([]float32, 0, a.capacity)
		r.ids = make([]int64, 0, a.capacity)
	}

	r.dists = append(r.dists, dist)
	r.ids = append(r.ids, id)

	if len(r.dists) == a.capacity {
		a.shrink(r)
	}
}

// shrink re-selects the true best k entries of the row buffer and tightens
// the admission threshold to the kth best.
func (a *reservoirAccumulator) shrink(r *reservoirRow) {
	selectTopK(a.ord, r.dists, r.ids, a.k)

	r.dists = r.dists[:a.k]
	r.ids = r.ids[:a.k]

	worst := 0
	for s := 1; s < a.k; s++ {
		if a.ord.Better(r.dists[worst], r.ids[worst], r.dists[s], r.ids[s]) {
			worst = s
		}
	}

	r.threshold = r.dists[worst]
	r.thresholdID = r.ids[worst]
}

// finalizeRow sorts the surviving candidates best-first and writes them to
// the output row. The row buffer is released afterwards.
func (a *reservoirAccumulator) finalizeRow(i int) {
	r := &a.rows[i]

	order := make([]int, len(r.dists))
	for s := range order {
		order[s] = s
	}

	sort.Slice(order, func(p, q int) bool {
		return a.ord.Better(r.dists[order[p]], r.ids[order[p]], r.dists[order[q]], r.ids[order[q]])
	})

	ids, dists := a.out.Row(i)

	n := min(a.k, len(order))
	for s := 0; s < n; s++ {
		dists[s] = r.dists[order[s]]
		ids[s] = r.ids[order[s]]
	}

	for s := n; s < a.k; s++ {
		dists[s] = a.ord.Worst()
		ids[s] = heap.SentinelID
	}

	r.dists = nil
	r.ids = nil
}

// reservoirSingle is one worker's single-query view.
type reservoirSingle struct {
	a *reservoirAccumulator
	i int
}

func (a *reservoirAccumulator) Single() singleAccumulator {
	return &reservoirSingle{a: a}
}

func (s *reservoirSingle) Begin(i int) {
	s.i = i
	s.a.resetRows(i, i+1)
}

func (s *reservoirSingle) Add(dist float32, id int64) {
	s.a.add(s.i, dist, id)
}

func (s *reservoirSingle) End() {
	s.a.finalizeRow(s.i)
}

func (a *reservoirAccumulator) Add(i int, dist float32, id int64) {
	a.add(i, dist, id)
}

func (a *reservoirAccumulator) BeginMultiple(i0, i1 int) {
	a.resetRows(i0, i1)
}

func (a *reservoirAccumulator) AddResults(i0, i1, j0, j1 int, block []float32, excl mask.Mask) {
	stride := j1 - j0

	forEachChunk(a.workers, i0, i1, func(begin, end int) {
		for i := begin; i < end; i++ {
			line := block[(i-i0)*stride : (i-i0+1)*stride]

			for j := j0; j < j1; j++ {
				if excl != nil && excl.Test(int64(j)) {
					continue
				}

				a.add(i, line[j-j0], int64(j))
			}
		}
	})
}

func (a *reservoirAccumulator) EndMultiple(i0, i1 int) {
	forEachChunk(a.workers, i0, i1, func(begin, end int) {
		for i := begin; i < end; i++ {
			a.finalizeRow(i)
		}
	})
}

func (a *reservoirAccumulator) CloneN(n int) []accumulator {
	clones := make([]accumulator, n)
	for c := range clones {
		clone := &reservoirAccumulator{
			ord:      a.ord,
			k:        a.k,
			capacity: a.capacity,
			workers:  1,
			rows:     make([]reservoirRow, len(a.rows)),
		}
		clone.resetRows(0, len(clone.rows))

		clones[c] = clone
	}

	return clones
}

func (a *reservoirAccumulator) Merge(other accumulator) {
	o := other.(*reservoirAccumulator)

	forEachChunk(a.workers, 0, len(a.rows), func(begin, end int) {
		for i := begin; i < end; i++ {
			or := &o.rows[i]
			for s := range or.ids {
				a.add(i, or.dists[s], or.ids[s])
			}
		}
	})
}

// selectTopK partially orders the parallel slices so that the best k
// entries under ord occupy the first k positions, in no particular order.
// Classic quickselect over (dist, id) pairs.
func selectTopK(ord heap.Ordering, dists []float32, ids []int64, k int) {
	lo, hi := 0, len(dists)
	if k >= hi {
		return
	}

	for hi-lo > 1 {
		p := partition(ord, dists, ids, lo, hi)

		switch {
		case p == k:
			return
		case p < k:
			lo = p + 1
		default:
			hi = p
		}
	}
}

// partition reorders [lo,hi) around a pivot and returns its final index.
// Entries better than the pivot end up before it.
func partition(ord heap.Ordering, dists []float32, ids []int64, lo, hi int) int {
	// Median-of-three pivot guards against sorted runs.
	mid := lo + (hi-lo)/2
	if ord.Better(dists[mid], ids[mid], dists[lo], ids[lo]) {
		swap(dists, ids, lo, mid)
	}
	if ord.Better(dists[hi-1], ids[hi-1], dists[lo], ids[lo]) {
		swap(dists, ids, lo, hi-1)
	}
	if ord.Better(dists[hi-1], ids[hi-1], dists[mid], ids[mid]) {
		swap(dists, ids, mid, hi-1)
	}

	swap(dists, ids, mid, hi-1)
	pd, pi := dists[hi-1], ids[hi-1]

	store := lo
	for s := lo; s < hi-1; s++ {
		if ord.Better(dists[s], ids[s], pd, pi) {
			swap(dists, ids, s, store)
			store++
		}
	}

	swap(dists, ids, store, hi-1)

	return store
}

func swap(dists []float32, ids []int64, p, q int) {
	dists[p], dists[q] = dists[q], dists[p]
	ids[p], ids[q] = ids[q], ids[p]
}
