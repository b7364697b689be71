// Package harness times in-process solver invocations and reduces the
// samples into comparable statistics.
package harness

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result holds the reduced timing statistics for one spec. It is
// immutable once produced; Checksum is filled in by the driver from the
// solver's own digest of the computed state.
type Result struct {
	Solver   string        `json:"solver"`
	Workload string        `json:"workload"`
	Count    int           `json:"count"`
	Total    time.Duration `json:"total_ns"`
	Mean     time.Duration `json:"mean_ns"`
	Min      time.Duration `json:"min_ns"`
	Median   time.Duration `json:"median_ns"`
	Stddev   time.Duration `json:"stddev_ns"`
	Checksum float64       `json:"checksum,omitempty"`
}

// newResult reduces a non-empty sample set (seconds per invocation,
// in invocation order) into a Result.
func newResult(spec Spec, samples []float64) *Result {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	stddev := 0.0
	if len(samples) > 1 {
		stddev = stat.StdDev(samples, nil)
	}

	return &Result{
		Solver:   spec.Solver,
		Workload: spec.Workload,
		Count:    len(samples),
		Total:    secondsToDuration(floats.Sum(samples)),
		Mean:     secondsToDuration(stat.Mean(samples, nil)),
		Min:      secondsToDuration(sorted[0]),
		Median:   secondsToDuration(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Stddev:   secondsToDuration(stddev),
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
