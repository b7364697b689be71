// Package workload constructs deterministic time-evolution problems for
// the solver backends. A problem consists of a small nearest-neighbour
// ring operator with seeded on-site disorder, a normalized initial state,
// a uniform time grid, and the damping/trajectory parameters of the two
// standard workload kinds.
package workload

import (
	"fmt"
	"math"
	mrand "math/rand"
)

// Workload kinds.
const (
	KindRelax   = "relax"   // deterministic damped evolution
	KindTraject = "traject" // averaged stochastic trajectories
)

// Kinds returns the list of supported workload kinds.
func Kinds() []string {
	return []string{KindRelax, KindTraject}
}

// Config controls problem construction. Identical configs always produce
// identical problems.
type Config struct {
	Dim          int     // state dimension, >= 3
	Coupling     float64 // nearest-neighbour amplitude
	Decay        float64 // damping rate, >= 0
	Disorder     float64 // on-site disorder amplitude, >= 0
	Steps        int     // time steps per invocation, >= 1
	Dt           float64 // step size, > 0
	Trajectories int     // stochastic trajectories per invocation, >= 1
	Noise        float64 // per-component kick amplitude, >= 0
	Seed         int64
}

// Problem is a fully constructed workload instance consumed by the
// solver adapters. The operator is stored once in coordinate form; each
// backend maps it into its own native representation.
type Problem struct {
	Dim          int
	Decay        float64
	Steps        int
	Dt           float64
	Trajectories int
	Noise        float64
	Seed         int64
	Initial      []float64

	diag     []float64
	coupling float64
}

// New validates cfg and builds the problem deterministically from its
// seed.
func New(cfg Config) (*Problem, error) {
	if cfg.Dim < 3 {
		return nil, fmt.Errorf("dimension must be >= 3, got %d", cfg.Dim)
	}

	if cfg.Steps < 1 {
		return nil, fmt.Errorf("steps must be >= 1, got %d", cfg.Steps)
	}

	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %g", cfg.Dt)
	}

	if cfg.Decay < 0 {
		return nil, fmt.Errorf("decay must be >= 0, got %g", cfg.Decay)
	}

	if cfg.Trajectories < 1 {
		return nil, fmt.Errorf("trajectories must be >= 1, got %d",
			cfg.Trajectories)
	}

	if cfg.Noise < 0 {
		return nil, fmt.Errorf("noise must be >= 0, got %g", cfg.Noise)
	}

	rng := mrand.New(mrand.NewSource(cfg.Seed))

	diag := make([]float64, cfg.Dim)
	for i := range diag {
		diag[i] = cfg.Disorder * (2*rng.Float64() - 1)
	}

	initial := make([]float64, cfg.Dim)

	var norm float64

	for i := range initial {
		initial[i] = rng.NormFloat64()
		norm += initial[i] * initial[i]
	}

	norm = math.Sqrt(norm)
	for i := range initial {
		initial[i] /= norm
	}

	return &Problem{
		Dim:          cfg.Dim,
		Decay:        cfg.Decay,
		Steps:        cfg.Steps,
		Dt:           cfg.Dt,
		Trajectories: cfg.Trajectories,
		Noise:        cfg.Noise,
		Seed:         cfg.Seed,
		Initial:      initial,
		diag:         diag,
		coupling:     cfg.Coupling,
	}, nil
}

// Nonzeros calls fn exactly once for every nonzero operator entry. The
// operator is a ring: each site couples to its two neighbours, with a
// disordered on-site term.
func (p *Problem) Nonzeros(fn func(i, j int, v float64)) {
	n := p.Dim
	for i := 0; i < n; i++ {
		fn(i, (i-1+n)%n, p.coupling)
		fn(i, i, p.diag[i])
		fn(i, (i+1)%n, p.coupling)
	}
}

// DenseOperator returns the operator as a row-major Dim x Dim matrix.
func (p *Problem) DenseOperator() []float64 {
	n := p.Dim
	data := make([]float64, n*n)

	p.Nonzeros(func(i, j int, v float64) {
		data[i*n+j] = v
	})

	return data
}

// NNZ returns the number of nonzero operator entries.
func (p *Problem) NNZ() int {
	var nnz int

	p.Nonzeros(func(_, _ int, _ float64) { nnz++ })

	return nnz
}
