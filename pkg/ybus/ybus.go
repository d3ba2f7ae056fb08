// Package ybus assembles the nodal admittance matrix of a network. The matrix
// is dense complex, indexed by bus position in the owning System, and built
// once per solve: the solver and the exporters only ever read it.
package ybus

import (
	"math/cmplx"

	"powerflow/pkg/network"
)

// Matrix is an N×N complex admittance matrix. Symmetric unless a transformer
// carries an off-nominal tap or phase shift.
type Matrix struct {
	n    int
	data []complex128
}

func New(n int) *Matrix {
	return &Matrix{n: n, data: make([]complex128, n*n)}
}

func (m *Matrix) Size() int { return m.n }

func (m *Matrix) At(i, j int) complex128 { return m.data[i*m.n+j] }

func (m *Matrix) Add(i, j int, y complex128) { m.data[i*m.n+j] += y }

// G is the conductance (real) part of entry i,j.
func (m *Matrix) G(i, j int) float64 { return real(m.At(i, j)) }

// B is the susceptance (imaginary) part of entry i,j.
func (m *Matrix) B(i, j int) float64 { return imag(m.At(i, j)) }

// Build stamps every in-service line, transformer and bus shunt into a fresh
// matrix. Stamping order is irrelevant: contributions only accumulate.
func Build(sys *network.System) *Matrix {
	m := New(sys.N())

	for _, l := range sys.Lines {
		if !l.Status {
			continue
		}
		i, _ := sys.BusIndex(l.From)
		j, _ := sys.BusIndex(l.To)
		y := 1 / l.Z()
		half := complex(0, l.B/2)
		m.Add(i, i, y+half)
		m.Add(j, j, y+half)
		m.Add(i, j, -y)
		m.Add(j, i, -y)
	}

	for _, t := range sys.Transformers {
		if !t.Status {
			continue
		}
		i, _ := sys.BusIndex(t.From)
		j, _ := sys.BusIndex(t.To)
		y := 1 / t.Z()
		half := complex(0, t.B/2)
		tap := complex(t.Tap, 0) * cmplx.Exp(complex(0, t.Phase))

		// Off-nominal tap on the From side breaks the i,j / j,i symmetry.
		m.Add(i, i, y/(tap*cmplx.Conj(tap))+half)
		m.Add(j, j, y+half)
		m.Add(i, j, -y/cmplx.Conj(tap))
		m.Add(j, i, -y/tap)
	}

	for i, b := range sys.Buses {
		if bsh := b.ShuntSusceptance(); bsh != 0 {
			m.Add(i, i, complex(0, bsh))
		}
	}

	return m
}
