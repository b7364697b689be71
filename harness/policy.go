package harness

import "time"

// Policy controls how many timed samples a run collects.
//
// A Policy is either fixed (Count > 0: exactly Count samples) or adaptive
// (Count == 0: at least MinSamples, then stop once the total elapsed time
// reaches TimeBudget or a sample takes at least SampleFloor). Samples
// shorter than SampleFloor keep accumulating so that timer resolution is
// amortized over more calls. The budget is checked only between
// invocations, so a slow call can overrun it by its own duration.
type Policy struct {
	Count       int
	MinSamples  int
	TimeBudget  time.Duration
	SampleFloor time.Duration
}

// FixedCount returns a policy that takes exactly n timed samples.
func FixedCount(n int) Policy {
	return Policy{Count: n}
}

// Adaptive returns a policy bounded by a minimum sample count, a total
// wall-clock budget, and a per-sample floor.
func Adaptive(minSamples int, budget, floor time.Duration) Policy {
	return Policy{
		MinSamples:  minSamples,
		TimeBudget:  budget,
		SampleFloor: floor,
	}
}

// Validate rejects policies that could produce an empty sample set.
// It runs before any invocation.
func (p Policy) Validate() error {
	if p.Count < 0 {
		return &PolicyError{Reason: "negative sample count"}
	}

	if p.Count > 0 {
		return nil
	}

	if p.MinSamples <= 0 {
		return &PolicyError{Reason: "minimum sample count must be positive"}
	}

	if p.TimeBudget <= 0 {
		return &PolicyError{Reason: "time budget must be positive"}
	}

	if p.SampleFloor < 0 {
		return &PolicyError{Reason: "negative sample floor"}
	}

	return nil
}

// done reports whether sampling should stop after n samples, given the
// total elapsed time and the duration of the last sample.
func (p Policy) done(n int, total, last time.Duration) bool {
	if p.Count > 0 {
		return n >= p.Count
	}

	if n < p.MinSamples {
		return false
	}

	if total >= p.TimeBudget {
		return true
	}

	return last >= p.SampleFloor
}

// sampleHint returns a capacity hint for the sample slice.
func (p Policy) sampleHint() int {
	if p.Count > 0 {
		return p.Count
	}

	return p.MinSamples
}
