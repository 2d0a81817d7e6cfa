package exhaustive

import (
	"github.com/hupe1980/vecscan/internal/heap"
	"github.com/hupe1980/vecscan/mask"
)

// singleAccumulator receives one query's candidate stream in the
// parallel-over-queries path. The bracket is Begin, any number of Add
// calls, End; the row is finalized by End.
type singleAccumulator interface {
	Begin(i int)
	Add(dist float32, id int64)
	End()
}

// accumulator receives candidate distances for a batch of queries and
// maintains the per-row result state. Implementations are the bounded heap,
// the reservoir and the range accumulator.
//
// Two bracketing disciplines feed it. The scalar paths use Single (one
// independent view per worker) or unbracketed Add calls on private clones.
// The blocked path brackets a tile of query rows with BeginMultiple,
// streams corrected tiles through AddResults and finalizes the rows with
// EndMultiple.
//
// CloneN produces independent accumulators for parallel database shards;
// Merge folds a clone's partial rows back into the receiver. Merging is
// order-independent because the candidate ordering breaks ties by id.
type accumulator interface {
	Single() singleAccumulator

	// Add offers (dist, id) to query row i. The caller owns the
	// accumulator exclusively or owns row i exclusively.
	Add(i int, dist float32, id int64)

	BeginMultiple(i0, i1 int)

	// AddResults consumes the tile block of pairwise values for query
	// rows [i0,i1) against database rows [j0,j1), laid out row-major with
	// stride j1-j0. Excluded candidates are skipped before any row
	// update.
	AddResults(i0, i1, j0, j1 int, block []float32, excl mask.Mask)

	// EndMultiple finalizes query rows [i0,i1) into the output arrays.
	EndMultiple(i0, i1 int)

	CloneN(n int) []accumulator
	Merge(other accumulator)
}

// newKNNAccumulator picks the top-k accumulator variant for the requested
// k: the bounded heap below the reservoir threshold, the reservoir above.
func newKNNAccumulator(ord heap.Ordering, res *KNNResult, p *params) accumulator {
	if res.K < p.reservoirThreshold {
		return newHeapAccumulator(ord, res, p.workers)
	}

	return newReservoirAccumulator(ord, res, p.workers)
}

// heapAccumulator keeps per query row a bounded binary heap of k slots laid
// over the output arrays themselves. The heap root is the worst kept entry,
// so a candidate costs one comparison unless it actually displaces
// something.
type heapAccumulator struct {
	ord     heap.Ordering
	k       int
	workers int
	dists   []float32
	ids     []int64
}

func newHeapAccumulator(ord heap.Ordering, res *KNNResult, workers int) *heapAccumulator {
	res.fill(ord)

	return &heapAccumulator{
		ord:     ord,
		k:       res.K,
		workers: workers,
		dists:   res.Dists,
		ids:     res.IDs,
	}
}

func (a *heapAccumulator) row(i int) (dists []float32, ids []int64) {
	return a.dists[i*a.k : (i+1)*a.k], a.ids[i*a.k : (i+1)*a.k]
}

// heapSingle is one worker's single-query view.
type heapSingle struct {
	a     *heapAccumulator
	dists []float32
	ids   []int64
}

func (a *heapAccumulator) Single() singleAccumulator {
	return &heapSingle{a: a}
}

func (s *heapSingle) Begin(i int) {
	s.dists, s.ids = s.a.row(i)
	heap.Reset(s.a.ord, s.dists, s.ids)
}

func (s *heapSingle) Add(dist float32, id int64) {
	heap.PushBounded(s.a.ord, s.dists, s.ids, dist, id)
}

func (s *heapSingle) End() {
	heap.Reorder(s.a.ord, s.dists, s.ids)
}

func (a *heapAccumulator) Add(i int, dist float32, id int64) {
	dists, ids := a.row(i)
	heap.PushBounded(a.ord, dists, ids, dist, id)
}

func (a *heapAccumulator) BeginMultiple(i0, i1 int) {
	forEachChunk(a.workers, i0, i1, func(begin, end int) {
		for i := begin; i < end; i++ {
			dists, ids := a.row(i)
			heap.Reset(a.ord, dists, ids)
		}
	})
}

func (a *heapAccumulator) AddResults(i0, i1, j0, j1 int, block []float32, excl mask.Mask) {
	stride := j1 - j0

	forEachChunk(a.workers, i0, i1, func(begin, end int) {
		for i := begin; i < end; i++ {
			dists, ids := a.row(i)
			line := block[(i-i0)*stride : (i-i0+1)*stride]

			for j := j0; j < j1; j++ {
				if excl != nil && excl.Test(int64(j)) {
					continue
				}

				heap.PushBounded(a.ord, dists, ids, line[j-j0], int64(j))
			}
		}
	})
}

func (a *heapAccumulator) EndMultiple(i0, i1 int) {
	forEachChunk(a.workers, i0, i1, func(begin, end int) {
		for i := begin; i < end; i++ {
			dists, ids := a.row(i)
			heap.Reorder(a.ord, dists, ids)
		}
	})
}

func (a *heapAccumulator) CloneN(n int) []accumulator {
	rows := len(a.ids) / max(a.k, 1)

	clones := make([]accumulator, n)
	for c := range clones {
		dists := make([]float32, rows*a.k)
		ids := make([]int64, rows*a.k)
		heap.Reset(a.ord, dists, ids)

		clones[c] = &heapAccumulator{
			ord:     a.ord,
			k:       a.k,
			workers: 1,
			dists:   dists,
			ids:     ids,
		}
	}

	return clones
}

func (a *heapAccumulator) Merge(other accumulator) {
	o := other.(*heapAccumulator)

	forEachChunk(a.workers, 0, len(a.ids)/max(a.k, 1), func(begin, end int) {
		for i := begin; i < end; i++ {
			dists, ids := a.row(i)
			oDists, oIDs := o.row(i)

			for s := range oIDs {
				if oIDs[s] == heap.SentinelID {
					continue
				}

				heap.PushBounded(a.ord, dists, ids, oDists[s], oIDs[s])
			}
		}
	})
}
