package solver

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/dklyne/simbench/workload"
)

// sparseSolver evolves the state with a compressed-sparse-row operator.
// The ring operator has three nonzeros per row, so the CSR form skips
// almost the whole matrix on every step.
type sparseSolver struct{}

func (*sparseSolver) Name() string { return NameSparse }

func (s *sparseSolver) Adapt(kind string, p *workload.Problem) (*Run, error) {
	dok := sparse.NewDOK(p.Dim, p.Dim)
	p.Nonzeros(func(i, j int, v float64) {
		dok.Set(i, j, v)
	})
	csr := dok.ToCSR()

	init := mat.NewVecDense(p.Dim, append([]float64(nil), p.Initial...))
	final := make([]float64, p.Dim)

	x := mat.NewVecDense(p.Dim, nil)
	y := mat.NewVecDense(p.Dim, nil)

	step := func() {
		y.MulVec(csr, x)
		x.AddScaledVec(x, p.Dt, y)
		x.ScaleVec(1-p.Decay*p.Dt, x)
	}

	switch kind {
	case workload.KindRelax:
		thunk := func() error {
			x.CopyVec(init)

			for i := 0; i < p.Steps; i++ {
				step()
			}

			copy(final, x.RawVector().Data)

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
				x.CopyVec(init)

				for i := 0; i < p.Steps; i++ {
					step()
					kick(x.RawVector().Data, dist, p.Dt)
				}

				average(final, x.RawVector().Data, p.Trajectories)
			}

			return nil
		}

		return &Run{Thunk: thunk, Checksum: checksum(final)}, nil

	default:
		return nil, fmt.Errorf("unknown workload kind %q", kind)
	}
}
