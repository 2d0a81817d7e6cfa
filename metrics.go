package vecscan

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecscan/distance"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// rows is the number of (query, database row) pairs the call covered
// (nx*ny); blocked reports whether the call took the tiled GEMM path.
type MetricsCollector interface {
	// RecordSearch is called after each k-NN search.
	RecordSearch(metric distance.Metric, k int, rows int64, blocked bool, duration time.Duration, err error)

	// RecordRangeSearch is called after each range search. results is the
	// total number of candidates returned across all queries.
	RecordRangeSearch(metric distance.Metric, results int, rows int64, duration time.Duration, err error)

	// RecordNearest is called after each accelerated 1-NN search.
	RecordNearest(rows int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(distance.Metric, int, int64, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordRangeSearch(distance.Metric, int, int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordNearest(int64, time.Duration, error)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	BlockedSearches  atomic.Int64
	ScalarSearches   atomic.Int64

	RangeSearchCount  atomic.Int64
	RangeSearchErrors atomic.Int64
	RangeResults      atomic.Int64

	NearestCount  atomic.Int64
	NearestErrors atomic.Int64

	RowsScanned atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(metric distance.Metric, k int, rows int64, blocked bool, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.RowsScanned.Add(rows)
	if blocked {
		b.BlockedSearches.Add(1)
	} else {
		b.ScalarSearches.Add(1)
	}
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordRangeSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRangeSearch(metric distance.Metric, results int, rows int64, duration time.Duration, err error) {
	b.RangeSearchCount.Add(1)
	b.RangeResults.Add(int64(results))
	b.RowsScanned.Add(rows)
	if err != nil {
		b.RangeSearchErrors.Add(1)
	}
}

// RecordNearest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNearest(rows int64, duration time.Duration, err error) {
	b.NearestCount.Add(1)
	b.RowsScanned.Add(rows)
	if err != nil {
		b.NearestErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchAvgNanos:    b.getAvgSearchNanos(),
		BlockedSearches:   b.BlockedSearches.Load(),
		ScalarSearches:    b.ScalarSearches.Load(),
		RangeSearchCount:  b.RangeSearchCount.Load(),
		RangeSearchErrors: b.RangeSearchErrors.Load(),
		RangeResults:      b.RangeResults.Load(),
		NearestCount:      b.NearestCount.Load(),
		NearestErrors:     b.NearestErrors.Load(),
		RowsScanned:       b.RowsScanned.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount       int64
	SearchErrors      int64
	SearchAvgNanos    int64
	BlockedSearches   int64
	ScalarSearches    int64
	RangeSearchCount  int64
	RangeSearchErrors int64
	RangeResults      int64
	NearestCount      int64
	NearestErrors     int64
	RowsScanned       int64
}
