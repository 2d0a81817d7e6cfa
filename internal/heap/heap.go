// Package heap provides bounded binary heaps over parallel (distance, id)
// slices. The slices are the caller's output buffers: a heap of size k is
// exactly k result slots, sentinel-filled until real candidates arrive.
// This is an internal package - external users should use the exhaustive
// package.
package heap

import "math"

// SentinelID marks an unfilled result slot.
const SentinelID int64 = -1

// Ordering decides which of two scored ids is the better search result and
// supplies the sentinel value for unfilled slots.
//
// Ties on the score are broken toward the smaller id, which makes results
// independent of insertion order.
type Ordering interface {
	Better(d1 float32, i1 int64, d2 float32, i2 int64) bool
	Worst() float32
}

// Min keeps the smallest scores (metrics where smaller is better).
// The heap root holds the largest score still kept.
type Min struct{}

// Better reports whether (d1, i1) is a better result than (d2, i2).
func (Min) Better(d1 float32, i1 int64, d2 float32, i2 int64) bool {
	return d1 < d2 || (d1 == d2 && i1 < i2)
}

// Worst returns the sentinel score for unfilled slots.
func (Min) Worst() float32 {
	return float32(math.Inf(1))
}

// Max keeps the largest scores (metrics where larger is better).
// The heap root holds the smallest score still kept.
type Max struct{}

// Better reports whether (d1, i1) is a better result than (d2, i2).
func (Max) Better(d1 float32, i1 int64, d2 float32, i2 int64) bool {
	return d1 > d2 || (d1 == d2 && i1 < i2)
}

// Worst returns the sentinel score for unfilled slots.
func (Max) Worst() float32 {
	return float32(math.Inf(-1))
}

// Reset fills the slots with the sentinel state. An all-sentinel array is a
// valid heap, so no heapify pass is needed afterwards.
func Reset[O Ordering](o O, dists []float32, ids []int64) {
	worst := o.Worst()
	for i := range dists {
		dists[i] = worst
		ids[i] = SentinelID
	}
}

// PushBounded offers (dist, id) to a full heap. The root holds the worst
// kept entry; the candidate replaces it only if it is strictly better.
// It returns true if the heap changed.
func PushBounded[O Ordering](o O, dists []float32, ids []int64, dist float32, id int64) bool {
	if !o.Better(dist, id, dists[0], ids[0]) {
		return false
	}

	dists[0] = dist
	ids[0] = id
	siftDown(o, dists, ids, 0, len(dists))

	return true
}

// Reorder sorts the heap in place into best-first order. The heap invariant
// is consumed; the slots become the final result row.
func Reorder[O Ordering](o O, dists []float32, ids []int64) {
	for n := len(dists) - 1; n > 0; n-- {
		dists[0], dists[n] = dists[n], dists[0]
		ids[0], ids[n] = ids[n], ids[0]
		siftDown(o, dists, ids, 0, n)
	}
}

// siftDown moves the element at index i down the heap until the heap
// invariant is restored. The heap keeps its worst element at the root, so
// "up" in the tree means worse under the ordering.
func siftDown[O Ordering](o O, dists []float32, ids []int64, i, n int) {
	for {
		left := 2*i + 1
		if left >= n {
			break
		}

		worst := left

		right := left + 1
		if right < n && o.Better(dists[left], ids[left], dists[right], ids[right]) {
			worst = right
		}

		if !o.Better(dists[i], ids[i], dists[worst], ids[worst]) {
			break
		}

		dists[i], dists[worst] = dists[worst], dists[i]
		ids[i], ids[worst] = ids[worst], ids[i]

		i = worst
	}
}
