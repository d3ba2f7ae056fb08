package solver

import (
	"math"

	"powerflow/pkg/network"
	"powerflow/pkg/ybus"
)

// Ordering fixes the layout of the unknown and mismatch vectors. Angles span
// every bus in model order; magnitudes span the SWING buses followed by the
// PQ buses. The SWING slots stay in the system and are pinned by the big
// number regularization instead of being renumbered away.
type Ordering struct {
	Angle []int // bus positions with a θ unknown (all buses)
	VMag  []int // bus positions with a V unknown (SWING then PQ)

	slack map[int]bool
}

func NewOrdering(sys *network.System) Ordering {
	ord := Ordering{slack: make(map[int]bool)}
	for i := range sys.Buses {
		ord.Angle = append(ord.Angle, i)
	}
	for _, i := range sys.SlackBuses() {
		ord.VMag = append(ord.VMag, i)
		ord.slack[i] = true
	}
	ord.VMag = append(ord.VMag, sys.PQBuses()...)
	return ord
}

// IsSlack reports whether bus position i is a SWING bus.
func (o Ordering) IsSlack(i int) bool { return o.slack[i] }

// InjectedPower evaluates the calculated injections at every bus for the
// given voltage state:
//
//	P(i) = V_i · Σ_k V_k · (G_ik·cos θ_ik + B_ik·sin θ_ik)
//	Q(i) = V_i · Σ_k V_k · (G_ik·sin θ_ik − B_ik·cos θ_ik)
func InjectedPower(y *ybus.Matrix, v, theta []float64) (p, q []float64) {
	n := y.Size()
	p = make([]float64, n)
	q = make([]float64, n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			g, b := y.G(i, k), y.B(i, k)
			if g == 0 && b == 0 {
				continue
			}
			dth := theta[i] - theta[k]
			sin, cos := math.Sincos(dth)
			p[i] += v[i] * v[k] * (g*cos + b*sin)
			q[i] += v[i] * v[k] * (g*sin - b*cos)
		}
	}
	return p, q
}

// Mismatch returns the specified-minus-calculated residuals laid out per ord:
// ΔP over the angle slots and ΔQ over the magnitude slots. SWING entries are
// forced to zero so the regularized Jacobian rows see a null target.
func Mismatch(ord Ordering, pCalc, qCalc, pSpec, qSpec []float64) (deltaP, deltaQ []float64) {
	deltaP = make([]float64, len(ord.Angle))
	for i, k := range ord.Angle {
		if ord.IsSlack(k) {
			continue
		}
		deltaP[i] = pSpec[k] - pCalc[k]
	}
	deltaQ = make([]float64, len(ord.VMag))
	for i, k := range ord.VMag {
		if ord.IsSlack(k) {
			continue
		}
		deltaQ[i] = qSpec[k] - qCalc[k]
	}
	return deltaP, deltaQ
}

// InfinityNorm is the largest absolute entry across the given vectors.
func InfinityNorm(vecs ...[]float64) float64 {
	max := 0.0
	for _, vec := range vecs {
		for _, x := range vec {
			if a := math.Abs(x); a > max {
				max = a
			}
		}
	}
	return max
}
