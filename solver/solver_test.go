package solver

import (
	"math"
	"testing"

	"github.com/dklyne/simbench/workload"
)

func testProblem(t *testing.T) *workload.Problem {
	t.Helper()

	p, err := workload.New(workload.Config{
		Dim:          8,
		Coupling:     1.0,
		Decay:        0.1,
		Disorder:     0.3,
		Steps:        50,
		Dt:           0.01,
		Trajectories: 5,
		Noise:        0.02,
		Seed:         7,
	})
	if err != nil {
		t.Fatalf("build problem: %v", err)
	}

	return p
}

func TestNewUnknownSolver(t *testing.T) {
	if _, err := New("fortran"); err == nil {
		t.Error("expected error for unknown solver")
	}
}

func TestAdaptUnknownKind(t *testing.T) {
	p := testProblem(t)

	for _, name := range Known() {
		s, err := New(name)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", name, err)
		}

		if _, err := s.Adapt("dissipate", p); err == nil {
			t.Errorf("%s: expected error for unknown workload kind", name)
		}
	}
}

func TestAllBackendsRun(t *testing.T) {
	p := testProblem(t)

	for _, name := range Known() {
		for _, kind := range workload.Kinds() {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%s) failed: %v", name, err)
			}

			run, err := s.Adapt(kind, p)
			if err != nil {
				t.Fatalf("adapt %s/%s: %v", name, kind, err)
			}

			if err := run.Thunk(); err != nil {
				t.Fatalf("invoke %s/%s: %v", name, kind, err)
			}

			sum := run.Checksum()
			if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
				t.Errorf("%s/%s: checksum = %g, want finite nonzero",
					name, kind, sum)
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	p := testProblem(t)

	for _, kind := range workload.Kinds() {
		var reference float64

		for i, name := range Known() {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%s) failed: %v", name, err)
			}

			run, err := s.Adapt(kind, p)
			if err != nil {
				t.Fatalf("adapt %s/%s: %v", name, kind, err)
			}

			if err := run.Thunk(); err != nil {
				t.Fatalf("invoke %s/%s: %v", name, kind, err)
			}

			sum := run.Checksum()
			if i == 0 {
				reference = sum

				continue
			}

			rel := math.Abs(sum-reference) / math.Max(1, math.Abs(reference))
			if rel > 1e-6 {
				t.Errorf("%s/%s: checksum %g differs from %s %g (rel %g)",
					name, kind, sum, Known()[0], reference, rel)
			}
		}
	}
}

func TestThunkRepeatable(t *testing.T) {
	// Repeated invocations of one thunk must reproduce the same state:
	// the harness relies on calls being comparable.
	p := testProblem(t)

	for _, name := range Known() {
		for _, kind := range workload.Kinds() {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%s) failed: %v", name, err)
			}

			run, err := s.Adapt(kind, p)
			if err != nil {
				t.Fatalf("adapt %s/%s: %v", name, kind, err)
			}

			if err := run.Thunk(); err != nil {
				t.Fatalf("invoke %s/%s: %v", name, kind, err)
			}

			first := run.Checksum()

			if err := run.Thunk(); err != nil {
				t.Fatalf("second invoke %s/%s: %v", name, kind, err)
			}

			if second := run.Checksum(); second != first {
				t.Errorf("%s/%s: checksum changed between calls: %g vs %g",
					name, kind, first, second)
			}
		}
	}
}

func TestAdaptBuildsSpec(t *testing.T) {
	p := testProblem(t)

	s, err := New(NameDense)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	spec, run, err := Adapt(s, workload.KindRelax, p)
	if err != nil {
		t.Fatalf("Adapt failed: %v", err)
	}

	if spec.Solver != NameDense || spec.Workload != workload.KindRelax {
		t.Errorf("spec identity = %s/%s, want %s/%s",
			spec.Solver, spec.Workload, NameDense, workload.KindRelax)
	}
	if spec.Invoke == nil {
		t.Error("spec has no invocation")
	}
	if run == nil || run.Checksum == nil {
		t.Error("run has no checksum")
	}
}
