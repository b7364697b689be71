package harness

import "fmt"

// Phases of a run during which an invocation can fail.
const (
	PhaseWarmUp = "warm-up"
	PhaseSample = "sample"
)

// InvocationError reports a failure of the wrapped solver call, either
// during warm-up or during a timed sample. It is always fatal to the
// spec's run: solver failures are assumed deterministic for identical
// inputs, so the call is never retried.
type InvocationError struct {
	Solver   string
	Workload string
	Phase    string
	Sample   int // 1-based index of the failed timed call; 0 for warm-up
	Err      error
}

func (e *InvocationError) Error() string {
	if e.Phase == PhaseWarmUp {
		return fmt.Sprintf(
			"benchmark unavailable for %s/%s: warm-up call failed: %v",
			e.Solver, e.Workload, e.Err,
		)
	}

	return fmt.Sprintf(
		"benchmark unavailable for %s/%s: timed call %d failed: %v",
		e.Solver, e.Workload, e.Sample, e.Err,
	)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// PolicyError reports a repetition policy that could never produce a
// valid sample set. It is raised before any invocation runs.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return "invalid repetition policy: " + e.Reason
}
