package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/mask"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// FillGaussian fills dst with values from a standard normal distribution.
func (r *RNG) FillGaussian(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = float32(r.rand.NormFloat64())
	}
}

// UniformSet generates a flat row-major set of n vectors of dimension d
// with values in [0, 1).
func (r *RNG) UniformSet(n, d int) []float32 {
	buf := make([]float32, n*d)
	r.FillUniform(buf)
	return buf
}

// GaussianSet generates a flat row-major set of n vectors of dimension d
// with standard normal values.
func (r *RNG) GaussianSet(n, d int) []float32 {
	buf := make([]float32, n*d)
	r.FillGaussian(buf)
	return buf
}

// UnitSet generates a flat row-major set of n L2-normalized vectors (on
// the hypersphere). Uses a Gaussian draw for uniform sphere coverage.
func (r *RNG) UnitSet(n, d int) []float32 {
	buf := r.GaussianSet(n, d)
	distance.RenormL2InPlace(buf, d)
	return buf
}

// ClusteredSet generates vectors clustered around random unit centroids
// with Gaussian noise of the given spread. Useful for exercising pruning
// heuristics on non-uniform data.
func (r *RNG) ClusteredSet(n, d, clusters int, spread float32) []float32 {
	centroids := r.UnitSet(clusters, d)

	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]float32, n*d)
	for i := range n {
		centroid := centroids[(i%clusters)*d : (i%clusters+1)*d]
		vec := buf[i*d : (i+1)*d]

		for j := range vec {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
	}

	return buf
}

// DuplicateSet generates a set where every vector appears repeat times in
// a row. Exercises tie-break determinism.
func (r *RNG) DuplicateSet(distinct, repeat, d int) []float32 {
	base := r.UniformSet(distinct, d)

	buf := make([]float32, 0, distinct*repeat*d)
	for i := range distinct {
		for range repeat {
			buf = append(buf, base[i*d:(i+1)*d]...)
		}
	}

	return buf
}

// Neighbor is one reference search result.
type Neighbor struct {
	ID   int64
	Dist float32
}

// BruteForceKNN computes the exact top-k per query with a naive double
// loop: the ground truth the optimized paths must reproduce. Ties on the
// distance resolve to the smaller id. Excluded rows never appear. Rows
// with fewer than k eligible candidates are padded with id -1 and the
// metric's worst value.
func BruteForceKNN(x, y []float32, d, k int, metric distance.Metric, excl mask.Mask) (ids []int64, dists []float32) {
	kern, err := distance.Provider(metric)
	if err != nil {
		panic(err)
	}

	nx, ny := len(x)/d, len(y)/d
	smaller := metric.SmallerIsBetter()

	worst := float32(math.Inf(-1))
	if smaller {
		worst = float32(math.Inf(1))
	}

	ids = make([]int64, nx*k)
	dists = make([]float32, nx*k)

	for i := range nx {
		var all []Neighbor
		for j := range ny {
			if !mask.IsEmpty(excl) && excl.Test(int64(j)) {
				continue
			}

			all = append(all, Neighbor{ID: int64(j), Dist: kern(x[i*d:(i+1)*d], y[j*d:(j+1)*d])})
		}

		sort.Slice(all, func(p, q int) bool {
			if all[p].Dist != all[q].Dist {
				if smaller {
					return all[p].Dist < all[q].Dist
				}
				return all[p].Dist > all[q].Dist
			}
			return all[p].ID < all[q].ID
		})

		for s := range k {
			if s < len(all) {
				ids[i*k+s] = all[s].ID
				dists[i*k+s] = all[s].Dist
			} else {
				ids[i*k+s] = -1
				dists[i*k+s] = worst
			}
		}
	}

	return ids, dists
}

// BruteForceRange computes the exact range-search matches per query with a
// naive double loop, inclusive boundary, ascending id order.
func BruteForceRange(x, y []float32, d int, radius float32, metric distance.Metric, excl mask.Mask) (lims []int, ids []int64, dists []float32) {
	kern, err := distance.Provider(metric)
	if err != nil {
		panic(err)
	}

	nx, ny := len(x)/d, len(y)/d
	smaller := metric.SmallerIsBetter()

	lims = make([]int, nx+1)

	for i := range nx {
		for j := range ny {
			if !mask.IsEmpty(excl) && excl.Test(int64(j)) {
				continue
			}

			dis := kern(x[i*d:(i+1)*d], y[j*d:(j+1)*d])
			if (smaller && dis <= radius) || (!smaller && dis >= radius) {
				ids = append(ids, int64(j))
				dists = append(dists, dis)
			}
		}

		lims[i+1] = len(ids)
	}

	return lims, ids, dists
}
