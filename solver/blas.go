package solver

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/dklyne/simbench/workload"
)

// blasSolver evolves the state through raw level-1/level-2 BLAS calls
// on packed data, skipping the mat layer entirely.
type blasSolver struct{}

func (*blasSolver) Name() string { return NameBLAS }

func (s *blasSolver) Adapt(kind string, p *workload.Problem) (*Run, error) {
	n := p.Dim

	a := blas64.General{
		Rows:   n,
		Cols:   n,
		Stride: n,
		Data:   p.DenseOperator(),
	}

	init := blas64.Vector{
		N:    n,
		Inc:  1,
		Data: append([]float64(nil), p.Initial...),
	}

	final := make([]float64, n)

	x := blas64.Vector{N: n, Inc: 1, Data: make([]float64, n)}
	y := blas64.Vector{N: n, Inc: 1, Data: make([]float64, n)}

	step := func() {
		blas64.Gemv(blas.NoTrans, 1, a, x, 0, y)
		blas64.Axpy(p.Dt, y, x)
		blas64.Scal(1-p.Decay*p.Dt, x)
	}

	switch kind {
	case workload.KindRelax:
		thunk := func() error {
			blas64.Copy(init, x)

			for i := 0; i < p.Steps; i++ {
				step()
			}

			copy(final, x.Data)

			return nil
		}

		return &Run{Thunk: thunk, Checksum: checksum(final)}, nil

	case workload.KindTraject:
		thunk := func() error {
			for i := range final {
				final[i] = 0
			}

			for traj := 0; traj < p.Trajectories; traj++ {
				dist := noise(p, traj)
				blas64.Copy(init, x)

				for i := 0; i < p.Steps; i++ {
					step()
					kick(x.Data, dist, p.Dt)
				}

				average(final, x.Data, p.Trajectories)
			}

			return nil
		}

		return &Run{Thunk: thunk, Checksum: checksum(final)}, nil

	default:
		return nil, fmt.Errorf("unknown workload kind %q", kind)
	}
}
