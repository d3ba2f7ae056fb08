// Package solver drives the Newton-Raphson power-flow iteration: mismatch
// evaluation, Jacobian assembly, sparse linear solve, state update and
// convergence control. The SWING bus stays in the unknown vector and is held
// at its specified state by the big number regularization.
package solver

import (
	"errors"
	"fmt"
	"log"
	"math"

	"powerflow/internal/consts"
	"powerflow/pkg/matrix"
	"powerflow/pkg/network"
	"powerflow/pkg/ybus"
)

type Status int

const (
	Initialized Status = iota
	Iterating
	Converged
	Diverged
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// Config carries the convergence policy. Zero fields fall back to defaults,
// so Config{} is a valid value.
type Config struct {
	Tolerance     float64 // mismatch infinity-norm target (pu)
	MaxIterations int
	BigNumber     float64 // slack regularization constant
	Verbose       bool    // log the mismatch norm each iteration
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     consts.DefaultTolerance,
		MaxIterations: consts.DefaultMaxIter,
		BigNumber:     consts.DefaultBigNumber,
	}
}

func (c Config) withDefaults() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = consts.DefaultTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = consts.DefaultMaxIter
	}
	if c.BigNumber <= 0 {
		c.BigNumber = consts.DefaultBigNumber
	}
	return c
}

// Result is the outcome of a solve. Only a Converged result's state is
// authoritative; a Diverged result carries the last state for diagnostics.
type Result struct {
	Status       Status
	Iterations   int
	MismatchNorm float64
	V            []float64 // per bus, model order (pu)
	Theta        []float64 // per bus, model order (rad)
	Flows        []BranchFlow
}

// Solver owns the voltage state across iterations. Build one per solve; it is
// not safe for concurrent use, but independent solvers share nothing.
type Solver struct {
	sys *network.System
	y   *ybus.Matrix
	cfg Config
	ord Ordering

	v, theta     []float64
	pSpec, qSpec []float64
	status       Status
	iterations   int
	norm         float64
}

// New validates the system, builds the unknown ordering and seeds the voltage
// state from the bus profile (readers leave PQ buses at the flat 1.0∠0
// profile; SWING and PV buses carry their setpoints, which the solve keeps).
func New(sys *network.System, y *ybus.Matrix, cfg Config) (*Solver, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}

	n := sys.N()
	s := &Solver{
		sys:    sys,
		y:      y,
		cfg:    cfg.withDefaults(),
		ord:    NewOrdering(sys),
		v:      make([]float64, n),
		theta:  make([]float64, n),
		pSpec:  make([]float64, n),
		qSpec:  make([]float64, n),
		status: Initialized,
	}
	for i, b := range sys.Buses {
		s.v[i] = b.V
		if s.v[i] == 0 {
			s.v[i] = 1.0
		}
		s.theta[i] = b.Theta
		s.pSpec[i] = b.PSpec()
		s.qSpec[i] = b.QSpec()
	}
	return s, nil
}

// SetState installs a warm-start voltage profile, replacing the one taken
// from the bus data.
func (s *Solver) SetState(v, theta []float64) error {
	if len(v) != s.sys.N() || len(theta) != s.sys.N() {
		return fmt.Errorf("state length %d/%d, want %d", len(v), len(theta), s.sys.N())
	}
	copy(s.v, v)
	copy(s.theta, theta)
	return nil
}

func (s *Solver) Status() Status { return s.status }

// Solve runs the iteration until the mismatch infinity norm drops under the
// tolerance or the iteration budget runs out. The linear step solves
// J·Δx = −[ΔP; ΔQ] and applies θ −= Δθ, V −= ΔV; the big number keeps the
// SWING corrections at zero without reshaping the system.
func (s *Solver) Solve() (*Result, error) {
	na := len(s.ord.Angle)
	s.status = Iterating

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		pCalc, qCalc := InjectedPower(s.y, s.v, s.theta)
		deltaP, deltaQ := Mismatch(s.ord, pCalc, qCalc, s.pSpec, s.qSpec)
		s.norm = InfinityNorm(deltaP, deltaQ)
		s.iterations = iter + 1
		if s.cfg.Verbose {
			log.Printf("iteration %d: max mismatch %.4e pu", iter+1, s.norm)
		}

		if s.norm < s.cfg.Tolerance {
			s.status = Converged
			return s.result(), nil
		}

		jac := NewJacobian(s.y, s.v, s.theta, pCalc, qCalc, s.ord, s.cfg.BigNumber)
		delta, err := s.step(jac, deltaP, deltaQ)
		if err != nil {
			s.status = Diverged
			if errors.Is(err, matrix.ErrSingular) {
				return s.result(), &SingularError{Iteration: iter + 1}
			}
			return s.result(), err
		}

		for i, k := range s.ord.Angle {
			s.theta[k] -= delta[i+1]
		}
		for i, k := range s.ord.VMag {
			s.v[k] -= delta[na+i+1]
		}

		if err := s.checkState(); err != nil {
			s.status = Diverged
			return s.result(), err
		}
	}

	// The loop measures the mismatch before each update, so the last update
	// is still unmeasured here. Evaluate once more so the reported norm
	// belongs to the state actually returned.
	pCalc, qCalc := InjectedPower(s.y, s.v, s.theta)
	deltaP, deltaQ := Mismatch(s.ord, pCalc, qCalc, s.pSpec, s.qSpec)
	s.norm = InfinityNorm(deltaP, deltaQ)
	if s.norm < s.cfg.Tolerance {
		s.status = Converged
		return s.result(), nil
	}

	s.status = Diverged
	return s.result(), &ConvergenceError{Iterations: s.iterations, Norm: s.norm}
}

// step stamps and solves one Newton linear system. Factoring reorders the
// sparse matrix and the library refuses to restamp a reordered one, so every
// iteration builds a fresh system.
func (s *Solver) step(jac *Jacobian, deltaP, deltaQ []float64) ([]float64, error) {
	ls, err := matrix.NewLinearSystem(len(s.ord.Angle) + len(s.ord.VMag))
	if err != nil {
		return nil, fmt.Errorf("creating linear system: %v", err)
	}
	defer ls.Destroy()

	jac.Stamp(ls)
	na := len(s.ord.Angle)
	for i, dp := range deltaP {
		ls.AddRHS(i+1, -dp)
	}
	for i, dq := range deltaQ {
		ls.AddRHS(na+i+1, -dq)
	}

	if err := ls.Solve(); err != nil {
		return nil, err
	}
	return append([]float64(nil), ls.Solution()...), nil
}

// checkState guards against runaway updates: fail fast instead of iterating
// on garbage.
func (s *Solver) checkState() error {
	for i, b := range s.sys.Buses {
		v := s.v[i]
		if math.IsNaN(v) || math.IsNaN(s.theta[i]) || v <= 0 || v > consts.VoltageSanityBound {
			return &OverflowError{Bus: b.Name, V: v}
		}
	}
	return nil
}

func (s *Solver) result() *Result {
	r := &Result{
		Status:       s.status,
		Iterations:   s.iterations,
		MismatchNorm: s.norm,
		V:            append([]float64(nil), s.v...),
		Theta:        append([]float64(nil), s.theta...),
	}
	if s.status == Converged {
		r.Flows = BranchFlows(s.sys, r.V, r.Theta)
	}
	return r
}
