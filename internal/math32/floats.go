// Package math32 provides float32 vector primitives for the distance
// kernels. This is an internal package - external users should use the
// distance package.
package math32

import "math"

// Kernel function pointers - set once at init, zero runtime overhead.
// Portable implementations are the default; accel.go overrides them
// with vek-backed versions when the CPU qualifies.
var (
	kernelDot       = dotGeneric
	kernelSquaredL2 = squaredL2Generic
	kernelScale     = scaleGeneric
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match to avoid buffer over-reads.
func Dot(a, b []float32) float32 {
	return kernelDot(a, b)
}

// SquaredL2 calculates the squared L2 distance.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match to avoid buffer over-reads.
func SquaredL2(a, b []float32) float32 {
	return kernelSquaredL2(a, b)
}

// NormL2Sqr returns the squared L2 norm of v.
func NormL2Sqr(v []float32) float32 {
	return kernelDot(v, v)
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by distance normalization.
func ScaleInPlace(a []float32, scalar float32) {
	kernelScale(a, scalar)
}

// Sqrt returns the square root of x as a float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// DotBatch calculates dot products between query and a batch of vectors.
// targets is a flattened row-major array of N vectors, each of dimension
// dim. out must have length N (len(targets) / dim).
func DotBatch(query, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = kernelDot(q, targets[offset:offset+dim])
	}
}

// SquaredL2Batch calculates squared L2 distances between query and a batch
// of vectors. targets is a flattened row-major array of N vectors, each of
// dimension dim. out must have length N (len(targets) / dim).
func SquaredL2Batch(query, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = kernelSquaredL2(q, targets[offset:offset+dim])
	}
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

func scaleGeneric(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}
