package harness

import (
	"fmt"
	"log/slog"
	"time"
)

// Thunk is a parameterless solver invocation. The harness treats it as a
// black box: it must run to completion before the next call begins, and
// repeated calls are assumed comparable in cost (caller contract).
type Thunk func() error

// Spec identifies one (solver, workload) pair to benchmark.
type Spec struct {
	Solver   string
	Workload string
	Invoke   Thunk
	WarmUp   Thunk // optional; defaults to one discarded Invoke call
}

// Runner executes benchmark specs and reduces their timings.
type Runner struct {
	Logger *slog.Logger

	// now is the clock source; overridable in tests.
	now func() time.Time
}

// NewRunner creates a Runner logging through the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{
		Logger: logger,
		now:    time.Now,
	}
}

// Run times spec.Invoke under the given policy and returns the reduced
// statistics. The first call is a warm-up whose timing is always
// discarded. Samples are taken strictly sequentially on a monotonic
// clock. Any invocation failure aborts the run for this spec: partial
// samples are discarded and no Result is returned.
func (r *Runner) Run(spec Spec, policy Policy) (*Result, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if spec.Invoke == nil {
		return nil, fmt.Errorf("spec %s/%s has no invocation",
			spec.Solver, spec.Workload)
	}

	logger := r.Logger.With(
		slog.String("solver", spec.Solver),
		slog.String("workload", spec.Workload),
	)

	warmUp := spec.WarmUp
	if warmUp == nil {
		warmUp = spec.Invoke
	}

	logger.Debug("warming up")

	if err := warmUp(); err != nil {
		return nil, &InvocationError{
			Solver:   spec.Solver,
			Workload: spec.Workload,
			Phase:    PhaseWarmUp,
			Err:      err,
		}
	}

	samples := make([]float64, 0, policy.sampleHint())

	var total time.Duration

	for {
		start := r.now()

		if err := spec.Invoke(); err != nil {
			return nil, &InvocationError{
				Solver:   spec.Solver,
				Workload: spec.Workload,
				Phase:    PhaseSample,
				Sample:   len(samples) + 1,
				Err:      err,
			}
		}

		elapsed := r.now().Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}

		samples = append(samples, elapsed.Seconds())
		total += elapsed

		if policy.done(len(samples), total, elapsed) {
			break
		}
	}

	result := newResult(spec, samples)

	logger.Info("benchmark finished",
		slog.Int("samples", result.Count),
		slog.Duration("mean", result.Mean),
		slog.Duration("total", result.Total),
	)

	return result, nil
}
