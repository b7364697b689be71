// Package solver adapts numerical linear-algebra backends to the
// benchmark harness. Each backend maps the common problem tuple
// (operator, initial state, time grid, damping) into its native
// representation and exposes the two time-evolution entry points as
// parameterless thunks.
package solver

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dklyne/simbench/harness"
	"github.com/dklyne/simbench/workload"
)

// Backend names.
const (
	NameDense  = "dense"
	NameSparse = "sparse"
	NameBLAS   = "blas"
)

// Known returns the names of all supported backends.
func Known() []string {
	return []string{NameDense, NameSparse, NameBLAS}
}

// Run bundles a ready-to-time invocation with a digest of the state it
// computes. Checksum is meaningful only after the thunk has run at
// least once; all backends must agree on it within tolerance.
type Run struct {
	Thunk    harness.Thunk
	Checksum func() float64
}

// Solver adapts one backend to the common problem representation.
type Solver interface {
	Name() string
	Adapt(kind string, p *workload.Problem) (*Run, error)
}

// New returns the named backend.
func New(name string) (Solver, error) {
	switch name {
	case NameDense:
		return &denseSolver{}, nil
	case NameSparse:
		return &sparseSolver{}, nil
	case NameBLAS:
		return &blasSolver{}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q", name)
	}
}

// Adapt builds the spec for one (solver, workload) pair, wiring the
// backend's thunk into the harness.
func Adapt(s Solver, kind string, p *workload.Problem) (harness.Spec, *Run, error) {
	run, err := s.Adapt(kind, p)
	if err != nil {
		return harness.Spec{}, nil, fmt.Errorf(
			"adapt %s/%s: %w", s.Name(), kind, err,
		)
	}

	return harness.Spec{
		Solver:   s.Name(),
		Workload: kind,
		Invoke:   run.Thunk,
	}, run, nil
}

// noise returns the Gaussian kick distribution for one trajectory. All
// backends draw from identical per-trajectory streams so their results
// stay comparable across implementations.
func noise(p *workload.Problem, traj int) distuv.Normal {
	return distuv.Normal{
		Mu:    0,
		Sigma: p.Noise,
		Src:   rand.NewSource(uint64(p.Seed) + uint64(traj) + 1),
	}
}

// kick adds one sqrt(dt)-scaled Gaussian kick per component.
func kick(state []float64, dist distuv.Normal, dt float64) {
	scale := math.Sqrt(dt)
	for i := range state {
		state[i] += scale * dist.Rand()
	}
}

// checksum returns a digest closure over the backend's final state.
func checksum(state []float64) func() float64 {
	return func() float64 {
		return floats.Norm(state, 2)
	}
}

// average folds one trajectory's final state into the running mean.
func average(mean, state []float64, ntraj int) {
	for i := range mean {
		mean[i] += state[i] / float64(ntraj)
	}
}
