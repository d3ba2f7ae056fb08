// Package matrix wraps the sparse LU solver behind the real-valued linear
// system the Newton-Raphson iteration needs. Indices are 1-based, following
// the sparse package convention.
package matrix

import (
	"errors"
	"fmt"

	"github.com/edp1096/sparse"
)

// ErrSingular marks a factorization failure: the system cannot be solved to
// working precision. Callers test for it with errors.Is.
var ErrSingular = errors.New("singular system")

type LinearSystem struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewLinearSystem(size int) (*LinearSystem, error) {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		Translate:      false,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	return &LinearSystem{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
	}, nil
}

func (m *LinearSystem) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *LinearSystem) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[i] += value
}

// Solve factors with Markowitz pivoting and back-substitutes. Any
// factorization failure surfaces as ErrSingular. Factoring reorders the
// matrix; a solved system cannot take new elements, build a fresh one.
func (m *LinearSystem) Solve() error {
	if err := m.matrix.OrderAndFactor(m.rhs, 0.001, 0, true); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %v", err)
	}
	m.solution = solution

	return nil
}

// Solution returns the 1-based solution vector from the last Solve.
func (m *LinearSystem) Solution() []float64 {
	return m.solution
}

func (m *LinearSystem) Destroy() {
	m.matrix.Destroy()
}
