package solver

import (
	"math"

	"powerflow/pkg/matrix"
	"powerflow/pkg/ybus"
)

// Jacobian holds the four dense submatrices of power-injection partials:
//
//	H = ∂P/∂θ   N = ∂P/∂V
//	M = ∂Q/∂θ   L = ∂Q/∂V
//
// Rows and columns follow the same Ordering as the mismatch vector: H is
// Angle×Angle, L is VMag×VMag, N and M are the mixed blocks. SWING rows and
// columns are zeroed except the H and L diagonals, which carry the big number
// that pins the slack state.
type Jacobian struct {
	H, N, M, L [][]float64

	ord Ordering
}

// NewJacobian assembles the submatrices for the given voltage state. pCalc
// and qCalc are the injections already evaluated for this state: the diagonal
// terms fold them in, and an off-by-term error there breaks convergence
// without any louder symptom, so the self-referential identities are used
// exactly:
//
//	H_kk = −Q_k − V_k²·B_kk        N_kk = (P_k + V_k²·G_kk) / V_k
//	M_kk = P_k − V_k²·G_kk         L_kk = (Q_k − V_k²·B_kk) / V_k
func NewJacobian(y *ybus.Matrix, v, theta, pCalc, qCalc []float64, ord Ordering, bigNumber float64) *Jacobian {
	j := &Jacobian{
		H:   zeros(len(ord.Angle), len(ord.Angle)),
		N:   zeros(len(ord.Angle), len(ord.VMag)),
		M:   zeros(len(ord.VMag), len(ord.Angle)),
		L:   zeros(len(ord.VMag), len(ord.VMag)),
		ord: ord,
	}

	for i, k := range ord.Angle {
		for jj, m := range ord.Angle {
			switch {
			case ord.IsSlack(k) || ord.IsSlack(m):
				if k == m {
					j.H[i][jj] = bigNumber
				}
			case k == m:
				j.H[i][jj] = -qCalc[k] - v[k]*v[k]*y.B(k, k)
			default:
				g, b := y.G(k, m), y.B(k, m)
				if g == 0 && b == 0 {
					continue
				}
				sin, cos := math.Sincos(theta[k] - theta[m])
				j.H[i][jj] = v[k] * v[m] * (g*sin - b*cos)
			}
		}
	}

	for i, k := range ord.Angle {
		for jj, m := range ord.VMag {
			switch {
			case ord.IsSlack(k) || ord.IsSlack(m):
			case k == m:
				j.N[i][jj] = (pCalc[k] + v[k]*v[k]*y.G(k, k)) / v[k]
			default:
				g, b := y.G(k, m), y.B(k, m)
				if g == 0 && b == 0 {
					continue
				}
				sin, cos := math.Sincos(theta[k] - theta[m])
				j.N[i][jj] = v[k] * (g*cos + b*sin)
			}
		}
	}

	for i, k := range ord.VMag {
		for jj, m := range ord.Angle {
			switch {
			case ord.IsSlack(k) || ord.IsSlack(m):
			case k == m:
				j.M[i][jj] = pCalc[k] - v[k]*v[k]*y.G(k, k)
			default:
				g, b := y.G(k, m), y.B(k, m)
				if g == 0 && b == 0 {
					continue
				}
				sin, cos := math.Sincos(theta[k] - theta[m])
				j.M[i][jj] = -v[k] * v[m] * (g*cos + b*sin)
			}
		}
	}

	for i, k := range ord.VMag {
		for jj, m := range ord.VMag {
			switch {
			case ord.IsSlack(k) || ord.IsSlack(m):
				if k == m {
					j.L[i][jj] = bigNumber
				}
			case k == m:
				j.L[i][jj] = (qCalc[k] - v[k]*v[k]*y.B(k, k)) / v[k]
			default:
				g, b := y.G(k, m), y.B(k, m)
				if g == 0 && b == 0 {
					continue
				}
				sin, cos := math.Sincos(theta[k] - theta[m])
				j.L[i][jj] = v[k] * (g*sin - b*cos)
			}
		}
	}

	return j
}

// Stamp loads the nonzero entries of the block matrix [[H, N], [M, L]] into
// the linear system. Rows and columns are 1-based: angle slots first, then
// magnitude slots.
func (j *Jacobian) Stamp(ls *matrix.LinearSystem) {
	na := len(j.ord.Angle)
	for i, row := range j.H {
		for jj, val := range row {
			if val != 0 {
				ls.AddElement(i+1, jj+1, val)
			}
		}
	}
	for i, row := range j.N {
		for jj, val := range row {
			if val != 0 {
				ls.AddElement(i+1, na+jj+1, val)
			}
		}
	}
	for i, row := range j.M {
		for jj, val := range row {
			if val != 0 {
				ls.AddElement(na+i+1, jj+1, val)
			}
		}
	}
	for i, row := range j.L {
		for jj, val := range row {
			if val != 0 {
				ls.AddElement(na+i+1, na+jj+1, val)
			}
		}
	}
}

func zeros(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
