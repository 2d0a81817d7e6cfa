// vecscan-bench measures exhaustive search throughput on random or
// file-based (fvecs/ivecs, optionally .zst/.lz4 compressed) vector sets and
// emits a JSON report.
//
// Examples:
//
//	vecscan-bench -nx 1000 -ny 100000 -d 128 -k 10 -metric l2
//	vecscan-bench -database sift_base.fvecs -queries sift_query.fvecs \
//	    -truth sift_groundtruth.ivecs -k 100 -json report.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"

	"github.com/hupe1980/vecscan"
	"github.com/hupe1980/vecscan/dataset"
	"github.com/hupe1980/vecscan/distance"
	"github.com/hupe1980/vecscan/exhaustive"
	"github.com/hupe1980/vecscan/testutil"
)

var (
	queriesPath  = flag.String("queries", "", "Query vectors (fvecs); random if empty")
	databasePath = flag.String("database", "", "Database vectors (fvecs); random if empty")
	truthPath    = flag.String("truth", "", "Ground-truth neighbor ids (ivecs) for recall")
	nx           = flag.Int("nx", 100, "Number of random queries (ignored with -queries)")
	ny           = flag.Int("ny", 100000, "Number of random database rows (ignored with -database)")
	dim          = flag.Int("d", 128, "Vector dimension for random data")
	k            = flag.Int("k", 10, "Neighbors per query")
	metricName   = flag.String("metric", "l2", "Metric: l2, ip, cosine, jaccard")
	mode         = flag.String("mode", "knn", "Mode: knn, range, nearest")
	radius       = flag.Float64("radius", 1.0, "Radius for range mode")
	workers      = flag.Int("workers", 0, "Worker count (0 = GOMAXPROCS)")
	decomp       = flag.String("decomposition", "auto", "Strategy: auto, queries, database, blocked")
	runs         = flag.Int("runs", 5, "Timed runs (after one warmup)")
	seed         = flag.Int64("seed", 42, "Seed for random data")
	jsonPath     = flag.String("json", "", "Write the JSON report to this file instead of stdout")
)

type report struct {
	Mode          string  `json:"mode"`
	Metric        string  `json:"metric"`
	Queries       int     `json:"queries"`
	DatabaseRows  int     `json:"database_rows"`
	Dimension     int     `json:"dimension"`
	K             int     `json:"k,omitempty"`
	Radius        float64 `json:"radius,omitempty"`
	Workers       int     `json:"workers"`
	Decomposition string  `json:"decomposition"`
	Runs          int     `json:"runs"`

	AvgMillis     float64 `json:"avg_ms"`
	BestMillis    float64 `json:"best_ms"`
	QueriesPerSec float64 `json:"queries_per_sec"`
	RowsPerSec    float64 `json:"rows_per_sec"`
	RecallAtK     float64 `json:"recall_at_k,omitempty"`
	RangeResults  int     `json:"range_results,omitempty"`
}

func main() {
	flag.Parse()

	metric, err := parseMetric(*metricName)
	if err != nil {
		log.Fatalf("vecscan-bench: %v", err)
	}

	x, y, d := loadVectors()

	opts := searchOptions()
	engine := vecscan.New(vecscan.WithSearchDefaults(opts...))
	ctx := context.Background()

	rep := report{
		Mode:          *mode,
		Metric:        metric.String(),
		Queries:       len(x) / d,
		DatabaseRows:  len(y) / d,
		Dimension:     d,
		Workers:       effectiveWorkers(),
		Decomposition: *decomp,
		Runs:          *runs,
	}

	var (
		total time.Duration
		best  time.Duration
		res   *vecscan.KNNResult
	)

	for run := 0; run <= *runs; run++ {
		start := time.Now()

		switch *mode {
		case "knn":
			rep.K = *k
			res, err = engine.KNNSearch(ctx, metric, x, y, d, *k)
		case "range":
			rep.Radius = *radius
			var rr *vecscan.RangeResult
			rr, err = engine.RangeSearch(ctx, metric, x, y, d, float32(*radius))
			if rr != nil {
				rep.RangeResults = len(rr.IDs)
			}
		case "nearest":
			_, _, err = engine.NearestL2(ctx, x, y, d)
		default:
			log.Fatalf("vecscan-bench: unknown mode %q", *mode)
		}

		if err != nil {
			log.Fatalf("vecscan-bench: search failed: %v", err)
		}

		elapsed := time.Since(start)
		if run == 0 {
			continue // warmup
		}

		total += elapsed
		if best == 0 || elapsed < best {
			best = elapsed
		}
	}

	avg := total / time.Duration(*runs)
	rep.AvgMillis = float64(avg.Microseconds()) / 1000
	rep.BestMillis = float64(best.Microseconds()) / 1000
	if avg > 0 {
		rep.QueriesPerSec = float64(rep.Queries) / avg.Seconds()
		rep.RowsPerSec = float64(rep.Queries) * float64(rep.DatabaseRows) / avg.Seconds()
	}

	if *truthPath != "" && *mode == "knn" {
		rep.RecallAtK = recallAtK(res, *truthPath, *k)
	}

	writeReport(rep)
}

func loadVectors() (x, y []float32, d int) {
	if *databasePath != "" {
		var err error
		y, d, err = dataset.ReadFvecs(*databasePath)
		if err != nil {
			log.Fatalf("vecscan-bench: load database: %v", err)
		}
	}

	if *queriesPath != "" {
		var err error
		var qd int
		x, qd, err = dataset.ReadFvecs(*queriesPath)
		if err != nil {
			log.Fatalf("vecscan-bench: load queries: %v", err)
		}
		if d != 0 && qd != d {
			log.Fatalf("vecscan-bench: query dimension %d != database dimension %d", qd, d)
		}
		d = qd
	}

	if d == 0 {
		d = *dim
	}

	rng := testutil.NewRNG(*seed)
	if y == nil {
		y = rng.UniformSet(*ny, d)
	}
	if x == nil {
		x = rng.UniformSet(*nx, d)
	}

	return x, y, d
}

func searchOptions() []vecscan.SearchOption {
	var opts []vecscan.SearchOption

	if *workers > 0 {
		opts = append(opts, exhaustive.WithWorkers(*workers))
	}

	switch *decomp {
	case "auto":
	case "queries":
		opts = append(opts, exhaustive.WithDecomposition(exhaustive.DecompositionOverQueries))
	case "database":
		opts = append(opts, exhaustive.WithDecomposition(exhaustive.DecompositionOverDatabase))
	case "blocked":
		opts = append(opts, exhaustive.WithDecomposition(exhaustive.DecompositionBlocked))
	default:
		log.Fatalf("vecscan-bench: unknown decomposition %q", *decomp)
	}

	return opts
}

func effectiveWorkers() int {
	if *workers > 0 {
		return *workers
	}

	return runtime.GOMAXPROCS(0)
}

func parseMetric(name string) (distance.Metric, error) {
	switch name {
	case "l2":
		return distance.MetricL2, nil
	case "ip":
		return distance.MetricInnerProduct, nil
	case "cosine":
		return distance.MetricCosine, nil
	case "jaccard":
		return distance.MetricJaccard, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// recallAtK compares the found ids per query against the first k columns of
// the ground-truth lists.
func recallAtK(res *vecscan.KNNResult, path string, k int) float64 {
	truth, td, err := dataset.ReadIvecs(path)
	if err != nil {
		log.Fatalf("vecscan-bench: load ground truth: %v", err)
	}

	if td < k {
		log.Fatalf("vecscan-bench: ground truth has %d neighbors per query, need %d", td, k)
	}

	queries := res.Rows()
	if len(truth)/td < queries {
		log.Fatalf("vecscan-bench: ground truth covers %d queries, need %d", len(truth)/td, queries)
	}

	var hits int
	for i := 0; i < queries; i++ {
		want := make(map[int64]struct{}, k)
		for _, id := range truth[i*td : i*td+k] {
			want[int64(id)] = struct{}{}
		}

		ids, _ := res.Row(i)
		for _, id := range ids {
			if _, ok := want[id]; ok {
				hits++
			}
		}
	}

	return float64(hits) / float64(queries*k)
}

func writeReport(rep report) {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("vecscan-bench: marshal report: %v", err)
	}

	if *jsonPath == "" {
		fmt.Println(string(out))
		return
	}

	if err := os.WriteFile(*jsonPath, append(out, '\n'), 0o644); err != nil {
		log.Fatalf("vecscan-bench: write report: %v", err)
	}
}
