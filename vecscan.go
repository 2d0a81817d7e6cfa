package vecscan

import (
	"context"
	"time"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/exhaustive"
	"github.com/hupe1980/vecscan/resource"
)

// Result types of the exhaustive drivers, re-exported for façade users.
type (
	// KNNResult holds row-major per-query top-k ids and distances.
	KNNResult = exhaustive.KNNResult

	// RangeResult holds per-query candidate lists as a prefix-sum over
	// flat arrays.
	RangeResult = exhaustive.RangeResult
)

// Engine dispatches searches on a distance.Metric and layers logging,
// metrics and optional resource governance over the exhaustive drivers.
// The zero-cost construction carries no state between calls; an Engine is
// safe for concurrent use.
type Engine struct {
	logger   *Logger
	metrics  MetricsCollector
	governor *resource.Controller
	defaults []SearchOption
}

// New creates a search engine.
func New(optFns ...Option) *Engine {
	opts := applyOptions(optFns)

	return &Engine{
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
		governor: opts.governor,
		defaults: opts.searchDefaults,
	}
}

// KNNSearch computes the k nearest database rows per query under the given
// metric. x is nx*d row-major queries, y is ny*d row-major database rows.
func (e *Engine) KNNSearch(ctx context.Context, metric distance.Metric, x, y []float32, d, k int, opts ...SearchOption) (*KNNResult, error) {
	start := time.Now()
	nx, ny := rows(x, d), rows(y, d)

	release, err := e.acquire(ctx, knnScratchBytes(nx, ny, k))
	if err != nil {
		e.recordSearch(ctx, metric, nx, ny, k, start, err)
		return nil, err
	}
	defer release()

	opts = e.merge(opts)

	var res *KNNResult

	switch metric {
	case distance.MetricL2:
		res, err = exhaustive.KNNL2Sqr(ctx, x, y, d, k, opts...)
	case distance.MetricInnerProduct:
		res, err = exhaustive.KNNInnerProduct(ctx, x, y, d, k, opts...)
	case distance.MetricCosine:
		res, err = exhaustive.KNNCosine(ctx, x, y, d, k, opts...)
	case distance.MetricJaccard:
		res, err = exhaustive.KNNJaccard(ctx, x, y, d, k, opts...)
	default:
		err = &ErrUnsupportedMetric{Metric: metric, Operation: "knn search"}
	}

	e.recordSearch(ctx, metric, nx, ny, k, start, err)

	if err != nil {
		return nil, err
	}

	return res, nil
}

// RangeSearch returns, per query, every database row within the radius
// under the given metric. The boundary is inclusive for both orientations.
// Jaccard is not supported.
func (e *Engine) RangeSearch(ctx context.Context, metric distance.Metric, x, y []float32, d int, radius float32, opts ...SearchOption) (*RangeResult, error) {
	start := time.Now()
	nx, ny := rows(x, d), rows(y, d)

	release, err := e.acquire(ctx, rangeScratchBytes(nx, ny))
	if err != nil {
		e.metrics.RecordRangeSearch(metric, 0, int64(nx)*int64(ny), time.Since(start), err)
		e.logger.LogRangeSearch(ctx, metric, nx, 0, err)
		return nil, err
	}
	defer release()

	opts = e.merge(opts)

	var res *RangeResult

	switch metric {
	case distance.MetricL2:
		res, err = exhaustive.RangeSearchL2Sqr(ctx, x, y, d, radius, opts...)
	case distance.MetricInnerProduct:
		res, err = exhaustive.RangeSearchInnerProduct(ctx, x, y, d, radius, opts...)
	case distance.MetricCosine:
		res, err = exhaustive.RangeSearchCosine(ctx, x, y, d, radius, opts...)
	default:
		err = &ErrUnsupportedMetric{Metric: metric, Operation: "range search"}
	}

	results := 0
	if res != nil {
		results = len(res.IDs)
	}

	e.metrics.RecordRangeSearch(metric, results, int64(nx)*int64(ny), time.Since(start), err)
	e.logger.LogRangeSearch(ctx, metric, nx, results, err)

	if err != nil {
		return nil, err
	}

	return res, nil
}

// NearestL2 finds the single nearest database row per query under squared
// L2, using the triangle-inequality accelerated scan. Exclusion masks are
// not supported on this path.
func (e *Engine) NearestL2(ctx context.Context, x, y []float32, d int, opts ...SearchOption) (ids []int64, dists []float32, err error) {
	start := time.Now()
	nx, ny := rows(x, d), rows(y, d)

	release, err := e.acquire(ctx, nearestScratchBytes(ny))
	if err != nil {
		e.metrics.RecordNearest(int64(nx)*int64(ny), time.Since(start), err)
		e.logger.LogNearest(ctx, nx, err)
		return nil, nil, err
	}
	defer release()

	ids, dists, err = exhaustive.NearestL2(ctx, x, y, d, e.merge(opts)...)

	e.metrics.RecordNearest(int64(nx)*int64(ny), time.Since(start), err)
	e.logger.LogNearest(ctx, nx, err)

	return ids, dists, err
}

// KNNSearchByIDs runs a top-k search restricted to an explicit per-query
// candidate list: ids holds the same number of candidate ids for every
// query, row-major. Only L2 and inner product are supported.
func (e *Engine) KNNSearchByIDs(ctx context.Context, metric distance.Metric, x, y []float32, ids []int64, d, k int, opts ...SearchOption) (*KNNResult, error) {
	opts = e.merge(opts)

	switch metric {
	case distance.MetricL2:
		return exhaustive.KNNL2SqrByIDs(ctx, x, y, ids, d, k, opts...)
	case distance.MetricInnerProduct:
		return exhaustive.KNNInnerProductByIDs(ctx, x, y, ids, d, k, opts...)
	default:
		return nil, &ErrUnsupportedMetric{Metric: metric, Operation: "knn search by ids"}
	}
}

// DistancesByIDs computes distances from each query to an explicit
// per-query id subset; see exhaustive.DotByIDs. Only L2 and inner product
// are supported.
func (e *Engine) DistancesByIDs(metric distance.Metric, dst, x, y []float32, ids []int64, d, m int) error {
	switch metric {
	case distance.MetricL2:
		return exhaustive.L2SqrByIDs(dst, x, y, ids, d, m)
	case distance.MetricInnerProduct:
		return exhaustive.DotByIDs(dst, x, y, ids, d, m)
	default:
		return &ErrUnsupportedMetric{Metric: metric, Operation: "distances by ids"}
	}
}

// PairwiseL2Sqr computes the full nx x ny squared-L2 matrix; see
// exhaustive.PairwiseL2Sqr for the leading-dimension conventions.
func (e *Engine) PairwiseL2Sqr(dst, x, y []float32, d, nx, ny int, ldx, ldy, ldd int) error {
	return exhaustive.PairwiseL2Sqr(dst, x, y, d, nx, ny, ldx, ldy, ldd)
}

// merge prepends the engine-wide search defaults to a call's options, so
// per-call options win.
func (e *Engine) merge(opts []SearchOption) []SearchOption {
	if len(e.defaults) == 0 {
		return opts
	}

	merged := make([]SearchOption, 0, len(e.defaults)+len(opts))
	merged = append(merged, e.defaults...)
	merged = append(merged, opts...)

	return merged
}

// acquire claims a search slot and reserves the scratch estimate from the
// governor. The returned release is a no-op when no governor is set.
func (e *Engine) acquire(ctx context.Context, bytes int64) (func(), error) {
	if e.governor == nil {
		return func() {}, nil
	}

	if err := e.governor.AcquireSearch(ctx); err != nil {
		return nil, err
	}

	if err := e.governor.ReserveMemory(bytes); err != nil {
		e.governor.ReleaseSearch()
		return nil, err
	}

	return func() {
		e.governor.ReleaseMemory(bytes)
		e.governor.ReleaseSearch()
	}, nil
}

func (e *Engine) recordSearch(ctx context.Context, metric distance.Metric, nx, ny, k int, start time.Time, err error) {
	blocked := metric == distance.MetricJaccard || nx >= exhaustive.BlockedThreshold
	e.metrics.RecordSearch(metric, k, int64(nx)*int64(ny), blocked, time.Since(start), err)
	e.logger.LogSearch(ctx, metric, nx, k, err)
}

func rows(buf []float32, d int) int {
	if d <= 0 {
		return 0
	}

	return len(buf) / d
}

// Scratch estimates cover the dominant transient allocations of each path:
// the GEMM tile plus norm buffers for k-NN and range, the packed
// triangular block for the 1-NN accelerator. They are upper bounds for the
// default tile sizes, not exact accounting.

func knnScratchBytes(nx, ny, k int) int64 {
	qb := min(nx, exhaustive.QueryBlockSize)
	db := min(ny, exhaustive.DatabaseBlockSize)

	bytes := 4 * int64(qb) * int64(db)
	bytes += 4 * int64(nx+2*ny)

	if k >= exhaustive.ReservoirThreshold {
		// Overflow buffers: dist+id per slot, ~2k slots per query.
		bytes += 24 * int64(nx) * int64(k)
	}

	return bytes
}

func rangeScratchBytes(nx, ny int) int64 {
	qb := min(nx, exhaustive.QueryBlockSize)
	db := min(ny, exhaustive.DatabaseBlockSize)

	return 4*int64(qb)*int64(db) + 4*int64(nx+2*ny)
}

func nearestScratchBytes(ny int) int64 {
	db := min(ny, exhaustive.DatabaseBlockSize)

	return 4 * int64(db) * int64(db-1) / 2
}
