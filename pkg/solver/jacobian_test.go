package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerflow/pkg/network"
	"powerflow/pkg/ybus"
)

func jacobianFixture() (*network.System, *ybus.Matrix, Ordering) {
	buses := []*network.Bus{
		{Number: 1, Name: "A", Type: network.Slack, V: 1.06},
		{Number: 2, Name: "B", Type: network.PV, V: 1.04,
			Generators: []network.Generator{{ID: 1, Bus: "B", P: 0.4}}},
		{Number: 3, Name: "C", Type: network.PQ, V: 1.0,
			Loads: []network.Load{{Bus: "C", P: 0.6, Q: 0.25}}},
	}
	lines := []network.Line{
		{From: "A", To: "B", R: 0.02, X: 0.06, B: 0.03, Status: true},
		{From: "A", To: "C", R: 0.08, X: 0.24, B: 0.025, Status: true},
		{From: "B", To: "C", R: 0.06, X: 0.18, B: 0.02, Status: true},
	}
	sys := network.NewSystem("jac3", 100, buses, lines, nil)
	return sys, ybus.Build(sys), NewOrdering(sys)
}

func TestJacobianSlackRegularization(t *testing.T) {
	_, y, ord := jacobianFixture()

	v := []float64{1.06, 1.04, 1.0}
	theta := []float64{0, -0.02, -0.05}
	p, q := InjectedPower(y, v, theta)
	big := 1e10
	jac := NewJacobian(y, v, theta, p, q, ord, big)

	// Slack is bus 0: Angle slot 0 and VMag slot 0.
	assert.Equal(t, big, jac.H[0][0])
	assert.Equal(t, big, jac.L[0][0])
	for jj := 1; jj < len(ord.Angle); jj++ {
		assert.Zero(t, jac.H[0][jj], "slack row of H must be zero off the diagonal")
		assert.Zero(t, jac.H[jj][0], "slack column of H must be zero off the diagonal")
	}
	for jj := range ord.VMag {
		assert.Zero(t, jac.N[0][jj], "slack row of N must be zero")
		assert.Zero(t, jac.M[jj][0], "slack column of M must be zero")
	}
	for jj := 1; jj < len(ord.VMag); jj++ {
		assert.Zero(t, jac.L[0][jj])
		assert.Zero(t, jac.L[jj][0])
	}
}

// The analytic partials must agree with central finite differences of the
// injection equations at a non-flat operating point.
func TestJacobianFiniteDifference(t *testing.T) {
	_, y, ord := jacobianFixture()

	v := []float64{1.06, 1.04, 0.98}
	theta := []float64{0, -0.03, -0.07}
	p, q := InjectedPower(y, v, theta)
	jac := NewJacobian(y, v, theta, p, q, ord, 1e10)

	const h = 1e-6
	const tol = 1e-5

	dPdTheta := func(i, m int) float64 {
		up := append([]float64(nil), theta...)
		dn := append([]float64(nil), theta...)
		up[m] += h
		dn[m] -= h
		pu, _ := InjectedPower(y, v, up)
		pd, _ := InjectedPower(y, v, dn)
		return (pu[i] - pd[i]) / (2 * h)
	}
	dQdTheta := func(i, m int) float64 {
		up := append([]float64(nil), theta...)
		dn := append([]float64(nil), theta...)
		up[m] += h
		dn[m] -= h
		_, qu := InjectedPower(y, v, up)
		_, qd := InjectedPower(y, v, dn)
		return (qu[i] - qd[i]) / (2 * h)
	}
	dPdV := func(i, m int) float64 {
		up := append([]float64(nil), v...)
		dn := append([]float64(nil), v...)
		up[m] += h
		dn[m] -= h
		pu, _ := InjectedPower(y, up, theta)
		pd, _ := InjectedPower(y, dn, theta)
		return (pu[i] - pd[i]) / (2 * h)
	}
	dQdV := func(i, m int) float64 {
		up := append([]float64(nil), v...)
		dn := append([]float64(nil), v...)
		up[m] += h
		dn[m] -= h
		_, qu := InjectedPower(y, up, theta)
		_, qd := InjectedPower(y, dn, theta)
		return (qu[i] - qd[i]) / (2 * h)
	}

	for i, k := range ord.Angle {
		if ord.IsSlack(k) {
			continue
		}
		for jj, m := range ord.Angle {
			if ord.IsSlack(m) {
				continue
			}
			assert.InDelta(t, dPdTheta(k, m), jac.H[i][jj], tol, "H[%d][%d]", i, jj)
		}
		for jj, m := range ord.VMag {
			if ord.IsSlack(m) {
				continue
			}
			assert.InDelta(t, dPdV(k, m), jac.N[i][jj], tol, "N[%d][%d]", i, jj)
		}
	}
	for i, k := range ord.VMag {
		if ord.IsSlack(k) {
			continue
		}
		for jj, m := range ord.Angle {
			if ord.IsSlack(m) {
				continue
			}
			assert.InDelta(t, dQdTheta(k, m), jac.M[i][jj], tol, "M[%d][%d]", i, jj)
		}
		for jj, m := range ord.VMag {
			if ord.IsSlack(m) {
				continue
			}
			assert.InDelta(t, dQdV(k, m), jac.L[i][jj], tol, "L[%d][%d]", i, jj)
		}
	}
}

func TestJacobianBlockShapes(t *testing.T) {
	_, y, ord := jacobianFixture()
	v := []float64{1.06, 1.04, 1.0}
	theta := []float64{0, 0, 0}
	p, q := InjectedPower(y, v, theta)
	jac := NewJacobian(y, v, theta, p, q, ord, 1e10)

	na, nv := len(ord.Angle), len(ord.VMag)
	require.Len(t, jac.H, na)
	require.Len(t, jac.H[0], na)
	require.Len(t, jac.N, na)
	require.Len(t, jac.N[0], nv)
	require.Len(t, jac.M, nv)
	require.Len(t, jac.M[0], na)
	require.Len(t, jac.L, nv)
	require.Len(t, jac.L[0], nv)
}
