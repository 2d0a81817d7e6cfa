package vecscan

import (
	"log/slog"

	"github.com/hupe1980/vecscan/exhaustive"
	"github.com/hupe1980/vecscan/resource"
)

// SearchOption is the per-call knob type of the exhaustive drivers,
// accepted unchanged by the Engine. See exhaustive.WithMask,
// exhaustive.WithWorkers, exhaustive.WithDecomposition and friends.
type SearchOption = exhaustive.SearchOption

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	governor         *resource.Controller
	searchDefaults   []SearchOption
}

// Option configures an Engine.
type Option func(*options)

// WithLogger configures structured logging for searches.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecscan.NewJSONLogger(slog.LevelInfo)
//	engine := vecscan.New(vecscan.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// searches. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecscan.BasicMetricsCollector{}
//	engine := vecscan.New(vecscan.WithMetricsCollector(metrics))
//	// ... search ...
//	stats := metrics.GetStats()
//	fmt.Printf("searches: %d, avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResourceController attaches a resource governor. When set, every
// search acquires a concurrency slot (blocking) and reserves an estimate of
// its scratch memory before computing; a reservation over the memory limit
// fails the call with resource.ErrMemoryLimitExceeded.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.governor = c
	}
}

// WithSearchDefaults sets per-call options applied to every search this
// Engine runs, before the call's own options. Use it to pin worker counts
// or tile sizes engine-wide:
//
//	engine := vecscan.New(vecscan.WithSearchDefaults(
//	    exhaustive.WithWorkers(8),
//	    exhaustive.WithBlockSizes(2048, 512),
//	))
func WithSearchDefaults(opts ...SearchOption) Option {
	return func(o *options) {
		o.searchDefaults = opts
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
