package solver

import "fmt"

// SingularError reports a Jacobian that could not be factored to working
// precision. A connected, validated network should never produce one.
type SingularError struct {
	Iteration int
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("singular jacobian at iteration %d", e.Iteration)
}

// ConvergenceError reports an exhausted iteration budget. The caller decides
// whether to retry with a looser tolerance, a higher cap, or a better start;
// the solver never retries on its own.
type ConvergenceError struct {
	Iterations int
	Norm       float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations (max mismatch %.3e pu)", e.Iterations, e.Norm)
}

// OverflowError reports a voltage magnitude driven to a non-physical value
// during the iteration.
type OverflowError struct {
	Bus string
	V   float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("voltage magnitude at bus %q ran away to %g pu", e.Bus, e.V)
}
