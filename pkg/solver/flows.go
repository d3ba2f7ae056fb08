package solver

import (
	"math/cmplx"

	"powerflow/pkg/network"
)

// BranchFlow is the complex power entering a branch at each end, in pu on the
// system base. Losses are the two injections summed: what goes in and never
// comes out.
type BranchFlow struct {
	From, To string
	Name     string

	PFrom, QFrom float64 // injection at the From end
	PTo, QTo     float64 // injection at the To end
	PLoss, QLoss float64
}

// BranchFlows derives per-branch flows and losses from a converged voltage
// state. Pure function of the state and branch parameters; it is not part of
// the iteration.
func BranchFlows(sys *network.System, v, theta []float64) []BranchFlow {
	volt := func(i int) complex128 {
		return cmplx.Rect(v[i], theta[i])
	}

	var flows []BranchFlow
	for _, l := range sys.Lines {
		if !l.Status {
			continue
		}
		i, _ := sys.BusIndex(l.From)
		j, _ := sys.BusIndex(l.To)
		y := 1 / l.Z()
		half := complex(0, l.B/2)
		vi, vj := volt(i), volt(j)

		sFrom := vi * cmplx.Conj(y*(vi-vj)+half*vi)
		sTo := vj * cmplx.Conj(y*(vj-vi)+half*vj)
		flows = append(flows, newFlow(l.From, l.To, l.Name, sFrom, sTo))
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
		vi, vj := volt(i), volt(j)

		// Same two-port admittances the Ybus stamping uses.
		iFrom := (y/(tap*cmplx.Conj(tap))+half)*vi - y/cmplx.Conj(tap)*vj
		iTo := (y+half)*vj - y/tap*vi
		sFrom := vi * cmplx.Conj(iFrom)
		sTo := vj * cmplx.Conj(iTo)
		flows = append(flows, newFlow(t.From, t.To, t.Name, sFrom, sTo))
	}

	return flows
}

func newFlow(from, to, name string, sFrom, sTo complex128) BranchFlow {
	return BranchFlow{
		From:  from,
		To:    to,
		Name:  name,
		PFrom: real(sFrom),
		QFrom: imag(sFrom),
		PTo:   real(sTo),
		QTo:   imag(sTo),
		PLoss: real(sFrom) + real(sTo),
		QLoss: imag(sFrom) + imag(sTo),
	}
}
