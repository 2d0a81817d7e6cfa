// Package distance provides vector distance calculations with SIMD
// acceleration.
//
// Kernels dispatch to vek-backed implementations on x86-64 with AVX2+FMA
// and fall back to portable Go elsewhere. Set VECSCAN_SIMD=generic to force
// the portable path.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance. Smaller is better.
//   - MetricInnerProduct: Raw inner product. Larger is better.
//   - MetricCosine: One-sided cosine similarity (divided by the second
//     argument's norm only). Larger is better.
//   - MetricJaccard: Generalized Jaccard distance. Smaller is better.
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	distance.NormalizeL2InPlace(vec)
//
// Batch helpers compute per-row norms of a row-major set in parallel:
//
//	norms := make([]float32, ny)
//	distance.NormsL2(norms, database, dim)
package distance
