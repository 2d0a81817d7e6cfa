// Package distance provides the public API for vector distance calculations.
// All kernels use accelerated implementations from internal/math32 when the
// CPU qualifies.
package distance

import (
	"fmt"
	"slices"

	"github.com/hupe1980/vecscan/internal/math32"
)

// Dot calculates the inner product of two vectors. Larger is better.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return math32.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors. Smaller is better. No square root is taken anywhere in the
// engine. Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// Cosine calculates the one-sided cosine similarity: the inner product
// divided by the L2 norm of b only. Larger is better.
//
// The asymmetry is deliberate. Queries are compared against stored rows
// whose norms vary, while the query norm is a constant factor per query
// and cannot change the ranking. Callers that need the fully normalized
// value normalize the query themselves, once.
//
// A zero-norm b yields 0.
func Cosine(a, b []float32) float32 {
	norm2 := math32.NormL2Sqr(b)
	if norm2 == 0 {
		return 0
	}

	return math32.Dot(a, b) / math32.Sqrt(norm2)
}

// Jaccard calculates the generalized Jaccard distance for non-negative
// vectors: 1 - <a,b> / (|a|^2 + |b|^2 - <a,b>). Smaller is better. The
// result is clamped to [0, inf) to absorb floating-point cancellation.
//
// Two zero vectors are treated as identical (distance 0).
func Jaccard(a, b []float32) float32 {
	ip := math32.Dot(a, b)

	denom := math32.NormL2Sqr(a) + math32.NormL2Sqr(b) - ip
	if denom <= 0 {
		return 0
	}

	d := 1 - ip/denom
	if d < 0 {
		return 0
	}

	return d
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}

	norm2 := math32.NormL2Sqr(v)
	if norm2 == 0 {
		return false
	}

	math32.ScaleInPlace(v, 1/math32.Sqrt(norm2))

	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}

	return dst, true
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// MetricL2 is the squared Euclidean distance. Smaller is better.
	MetricL2 Metric = iota
	// MetricInnerProduct is the raw inner product. Larger is better.
	MetricInnerProduct
	// MetricCosine is the one-sided cosine similarity. Larger is better.
	MetricCosine
	// MetricJaccard is the generalized Jaccard distance. Smaller is better.
	MetricJaccard
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricInnerProduct:
		return "InnerProduct"
	case MetricCosine:
		return "Cosine"
	case MetricJaccard:
		return "Jaccard"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// SmallerIsBetter reports the orientation of the metric: true when lower
// values rank first (distances), false when higher values rank first
// (similarities).
func (m Metric) SmallerIsBetter() bool {
	switch m {
	case MetricInnerProduct, MetricCosine:
		return false
	default:
		return true
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricInnerProduct:
		return Dot, nil
	case MetricCosine:
		return Cosine, nil
	case MetricJaccard:
		return Jaccard, nil
	default:
		return nil, fmt.Errorf("unsupported metric for float32: %v", m)
	}
}
