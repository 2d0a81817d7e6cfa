package exhaustive

import (
	"runtime"

	"github.com/hupe1980/vecscan/mask"
)

// Decomposition selects how a scalar-path scan is split across workers.
// The choice affects performance only; results are identical under every
// decomposition.
type Decomposition int

const (
	// DecompositionAuto lets the driver pick based on the input shape.
	DecompositionAuto Decomposition = iota
	// DecompositionOverQueries partitions the queries across workers; each
	// worker scans the full database for its queries.
	DecompositionOverQueries
	// DecompositionOverDatabase partitions the database across workers;
	// per-worker partial results are merged after the join.
	DecompositionOverDatabase
	// DecompositionBlocked forces the tiled GEMM path.
	DecompositionBlocked
)

type params struct {
	workers            int
	excl               mask.Mask
	yNormsSqr          []float32
	yNorms             []float32
	forced             Decomposition
	blockedThreshold   int
	reservoirThreshold int
	policyThreshold    int
	queryBlock         int
	dbBlock            int
}

func newParams(opts []SearchOption) *params {
	p := &params{
		workers:            runtime.GOMAXPROCS(0),
		forced:             DecompositionAuto,
		blockedThreshold:   BlockedThreshold,
		reservoirThreshold: ReservoirThreshold,
		policyThreshold:    ParallelPolicyThreshold,
		queryBlock:         QueryBlockSize,
		dbBlock:            DatabaseBlockSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.workers < 1 {
		p.workers = 1
	}

	p.queryBlock = clampBlock(p.queryBlock)
	p.dbBlock = clampBlock(p.dbBlock)

	if mask.IsEmpty(p.excl) {
		p.excl = nil
	}

	return p
}

// useBlocked reports whether the call should take the tiled GEMM path.
func (p *params) useBlocked(nx int) bool {
	switch p.forced {
	case DecompositionBlocked:
		return true
	case DecompositionOverQueries, DecompositionOverDatabase:
		return false
	default:
		return nx >= p.blockedThreshold
	}
}

// overDatabase reports whether the scalar path should partition the
// database rather than the queries. Parallelizing over queries has no merge
// cost but starves workers when there are fewer queries than cores;
// parallelizing over the database keeps every worker busy at the price of a
// merge step.
func (p *params) overDatabase(nx, ny int) bool {
	switch p.forced {
	case DecompositionOverQueries:
		return false
	case DecompositionOverDatabase:
		return true
	default:
		return ny > p.policyThreshold || (nx < p.workers/2 && ny >= p.workers*32)
	}
}

// SearchOption configures a single driver call.
type SearchOption func(*params)

// WithMask excludes the masked database rows from the results. A nil or
// empty mask excludes nothing.
func WithMask(m mask.Mask) SearchOption {
	return func(p *params) {
		p.excl = m
	}
}

// WithDatabaseNormsSqr supplies precomputed squared L2 norms of the
// database rows. Only the blocked L2 path consumes them; it recomputes the
// norms when they are absent.
func WithDatabaseNormsSqr(norms []float32) SearchOption {
	return func(p *params) {
		p.yNormsSqr = norms
	}
}

// WithDatabaseNorms supplies precomputed L2 norms of the database rows.
// Only the blocked cosine path consumes them.
func WithDatabaseNorms(norms []float32) SearchOption {
	return func(p *params) {
		p.yNorms = norms
	}
}

// WithWorkers overrides the worker count, which defaults to
// runtime.GOMAXPROCS(0). Values below 1 clamp to 1.
func WithWorkers(n int) SearchOption {
	return func(p *params) {
		p.workers = n
	}
}

// WithDecomposition forces a particular execution strategy instead of the
// size-based policy. Intended for tests and tuning.
func WithDecomposition(d Decomposition) SearchOption {
	return func(p *params) {
		p.forced = d
	}
}

// WithBlockedThreshold overrides the scalar/blocked switch point for this
// call.
func WithBlockedThreshold(n int) SearchOption {
	return func(p *params) {
		p.blockedThreshold = n
	}
}

// WithReservoirThreshold overrides the heap/reservoir switch point for this
// call.
func WithReservoirThreshold(n int) SearchOption {
	return func(p *params) {
		p.reservoirThreshold = n
	}
}

// WithBlockSizes overrides the tile dimensions of the blocked path for this
// call. Values below 1 clamp to 1.
func WithBlockSizes(queryBlock, databaseBlock int) SearchOption {
	return func(p *params) {
		p.queryBlock = queryBlock
		p.dbBlock = databaseBlock
	}
}
