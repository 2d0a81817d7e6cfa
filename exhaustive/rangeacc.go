package exhaustive

import (
	"github.com/hupe1980/vecscan/mask"
)

// rangeAccumulator collects every candidate whose distance satisfies the
// radius predicate. The boundary is inclusive for both orientations: a
// candidate at exactly the radius is a match.
type rangeAccumulator struct {
	smallerBetter bool
	radius        float32
	workers       int
	rows          []rangeRow
}

type rangeRow struct {
	ids   []int64
	dists []float32
}

func newRangeAccumulator(smallerBetter bool, radius float32, nx, workers int) *rangeAccumulator {
	return &rangeAccumulator{
		smallerBetter: smallerBetter,
		radius:        radius,
		workers:       workers,
		rows:          make([]rangeRow, nx),
	}
}

// within reports whether dist satisfies the radius predicate.
func (a *rangeAccumulator) within(dist float32) bool {
	if a.smallerBetter {
		return dist <= a.radius
	}

	return dist >= a.radius
}

func (a *rangeAccumulator) add(i int, dist float32, id int64) {
	if !a.within(dist) {
		return
	}

	r := &a.rows[i]
	r.ids = append(r.ids, id)
	r.dists = append(r.dists, dist)
}

// rangeSingle is one worker's single-query view.
type rangeSingle struct {
	a *rangeAccumulator
	i int
}

func (a *rangeAccumulator) Single() singleAccumulator {
	return &rangeSingle{a: a}
}

func (s *rangeSingle) Begin(i int) { s.i = i }

func (s *rangeSingle) Add(dist float32, id int64) {
	s.a.add(s.i, dist, id)
}

func (s *rangeSingle) End() {}

func (a *rangeAccumulator) Add(i int, dist float32, id int64) {
	a.add(i, dist, id)
}

func (a *rangeAccumulator) BeginMultiple(i0, i1 int) {}

func (a *rangeAccumulator) AddResults(i0, i1, j0, j1 int, block []float32, excl mask.Mask) {
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

func (a *rangeAccumulator) EndMultiple(i0, i1 int) {}

func (a *rangeAccumulator) CloneN(n int) []accumulator {
	clones := make([]accumulator, n)
	for c := range clones {
		clones[c] = &rangeAccumulator{
			smallerBetter: a.smallerBetter,
			radius:        a.radius,
			workers:       1,
			rows:          make([]rangeRow, len(a.rows)),
		}
	}

	return clones
}

// Merge appends a clone's rows. The driver merges clones in shard order,
// which keeps every row in ascending id order: each shard scans ascending
// ids and shards cover ascending id ranges.
func (a *rangeAccumulator) Merge(other accumulator) {
	o := other.(*rangeAccumulator)

	forEachChunk(a.workers, 0, len(a.rows), func(begin, end int) {
		for i := begin; i < end; i++ {
			r, or := &a.rows[i], &o.rows[i]
			r.ids = append(r.ids, or.ids...)
			r.dists = append(r.dists, or.dists...)
		}
	})
}

// Result flattens the per-row lists behind a prefix sum.
func (a *rangeAccumulator) Result() *RangeResult {
	lims := make([]int, len(a.rows)+1)
	for i := range a.rows {
		lims[i+1] = lims[i] + len(a.rows[i].ids)
	}

	res := &RangeResult{
		Lims:  lims,
		IDs:   make([]int64, lims[len(a.rows)]),
		Dists: make([]float32, lims[len(a.rows)]),
	}

	for i := range a.rows {
		copy(res.IDs[lims[i]:], a.rows[i].ids)
		copy(res.Dists[lims[i]:], a.rows[i].dists)
	}

	return res
}

var (
	_ accumulator = (*heapAccumulator)(nil)
	_ accumulator = (*reservoirAccumulator)(nil)
	_ accumulator = (*rangeAccumulator)(nil)
)
