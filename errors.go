package vecscan

import (
	"fmt"

	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/exhaustive"
)

// Shape and argument errors are shared with the exhaustive drivers;
// re-exported here so façade users need only one import.
var (
	// ErrInvalidK is returned when k is negative.
	ErrInvalidK = exhaustive.ErrInvalidK

	// ErrJaccardDimension is returned when a Jaccard search is attempted
	// with a dimension that is not a multiple of 4.
	ErrJaccardDimension = exhaustive.ErrJaccardDimension
)

// ErrUnsupportedMetric indicates a metric/operation combination the engine
// cannot serve, e.g. a Jaccard range search.
type ErrUnsupportedMetric struct {
	Metric    distance.Metric
	Operation string
}

func (e *ErrUnsupportedMetric) Error() string {
	return fmt.Sprintf("%s: unsupported metric %s", e.Operation, e.Metric)
}
