// Package vecscan provides an exhaustive (brute-force) similarity search
// engine for dense float32 vectors.
//
// Given a query set X and a database set Y, both contiguous row-major
// []float32 of dimension d, vecscan computes for each query either the k
// nearest database rows or all rows within a radius, under one of a closed
// set of metrics:
//
//   - Squared Euclidean distance (smaller is better)
//   - Inner product (larger is better)
//   - One-sided cosine similarity (larger is better)
//   - Generalized Jaccard distance (smaller is better, d must be a
//     multiple of 4)
//
// There are no index structures and no training: everything is recomputed
// per call, and results are exact and deterministic. Among equal distances
// the smaller database row index always wins, so the output is identical
// regardless of worker count or execution strategy. Index structures (HNSW,
// IVF and friends) are consumers of this engine, not part of it.
//
// # Quick start
//
//	ctx := context.Background()
//	engine := vecscan.New()
//
//	// X: 2 queries, Y: 1000 database rows, 128 dimensions each.
//	res, err := engine.KNNSearch(ctx, distance.MetricL2, x, y, 128, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := 0; i < res.Rows(); i++ {
//	    ids, dists := res.Row(i)
//	    // ids/dists are sorted best-first; unfilled slots hold id -1.
//	}
//
// Range search returns variable-length per-query lists as a prefix-sum over
// flat arrays:
//
//	res, err := engine.RangeSearch(ctx, distance.MetricL2, x, y, 128, 0.5)
//	ids, dists := res.Row(0)
//
// The exhaustive subpackage exposes the per-metric drivers directly; the
// Engine adds metric dispatch, structured logging, metrics collection and
// optional resource limits on top. Per-call behavior (exclusion masks,
// precomputed norms, worker count, forced execution strategy, tile sizes)
// is controlled with exhaustive.SearchOption values, which the Engine
// accepts unchanged.
//
// Large query sets take a tiled GEMM path; small ones a parallel scalar
// scan. The crossover and the tile sizes are tunable per Engine or per
// call. See the exhaustive package for the details of both paths.
package vecscan
