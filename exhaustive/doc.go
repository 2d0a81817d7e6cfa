// Package exhaustive implements brute-force k-nearest-neighbor and range
// search over dense float32 vectors.
//
// Every driver scans the full database per call: no index, no training, no
// stored state. Exactness and determinism are the contract; for a fixed
// input the results do not depend on worker count or decomposition.
//
// # Drivers
//
// Per-metric k-NN entry points (KNNL2Sqr, KNNInnerProduct, KNNCosine,
// KNNJaccard) and range-search entry points (RangeSearchL2Sqr,
// RangeSearchInnerProduct, RangeSearchCosine) operate on flat row-major
// buffers. Indexed-subset variants (KNNL2SqrByIDs, KNNInnerProductByIDs)
// restrict the scan to explicit id lists. NearestL2 is a 1-NN accelerator
// that prunes candidates with the triangle inequality.
//
// # Execution paths
//
// Small query sets run scalar kernels, partitioned either across queries or
// across the database depending on the input shape. Large query sets run a
// tiled GEMM path: raw inner products per tile, then a per-metric
// correction. The switch points and tile sizes are package tunables,
// overridable per call.
//
// # Results
//
// k-NN results are dense nx x k arrays sorted best-first; unfilled slots
// hold id -1 and the metric's worst value. Ties on the score resolve to the
// smaller database id. Range results are per-query variable-length lists in
// ascending id order, flattened behind a prefix-sum.
package exhaustive
