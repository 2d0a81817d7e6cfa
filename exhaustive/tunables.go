package exhaustive

// Package tunables. They trade setup cost against throughput and affect
// performance only, never results. The surrounding system may retune them at
// configuration time; per-call overrides are available through the search
// options.
var (
	// BlockedThreshold is the query count at which the drivers switch from
	// scalar kernels to the tiled GEMM path. Batched multiplication has a
	// setup cost that only amortizes over large query batches.
	BlockedThreshold = 16384

	// ParallelPolicyThreshold is the database size above which the scalar
	// path parallelizes over the database instead of over the queries.
	ParallelPolicyThreshold = 65535

	// ReservoirThreshold is the k at which the k-NN drivers switch from the
	// bounded heap to the reservoir accumulator. Heap maintenance is
	// O(log k) per kept insertion; at large k the reservoir's amortized
	// re-selection is cheaper.
	ReservoirThreshold = 100

	// QueryBlockSize and DatabaseBlockSize are the tile dimensions of the
	// blocked path. The ephemeral inner-product tile holds
	// QueryBlockSize x DatabaseBlockSize float32s; the defaults keep it
	// within a typical L2/L3 cache budget.
	QueryBlockSize    = 4096
	DatabaseBlockSize = 1024
)

// clampBlock guards against misconfigured tile sizes. Zero or negative
// values would stall the tiling loops, so they clamp to 1 instead of
// failing the call.
func clampBlock(n int) int {
	if n < 1 {
		return 1
	}

	return n
}
