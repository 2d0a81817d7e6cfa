// Package testutil provides testing utilities for vecscan.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random flat vector sets and for
// computing exact reference results with a naive double loop.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	x := rng.UniformSet(100, 32)   // 100 rows, dimension 32, values [0, 1)
//	y := rng.ClusteredSet(1000, 32, 8, 0.1)
//
// # Ground Truth
//
//	ids, dists := testutil.BruteForceKNN(x, y, d, k, distance.MetricL2, nil)
package testutil
