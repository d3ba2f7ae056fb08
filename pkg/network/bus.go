package network

type BusType int

const (
	PQ BusType = iota
	PV
	Slack
)

func (t BusType) String() string {
	switch t {
	case PQ:
		return "PQ"
	case PV:
		return "PV"
	case Slack:
		return "SWING"
	default:
		return "UNKNOWN"
	}
}

// Bus is one node of the network. V and Theta hold the initial profile before
// a solve and the converged state after; only the solver mutates them.
type Bus struct {
	Number int
	Name   string
	Type   BusType
	V      float64 // voltage magnitude (pu)
	Theta  float64 // voltage angle (rad)

	Generators []Generator
	Loads      []Load
	Shunts     []Shunt
}

// PSpec is the net specified active injection: generation minus load.
func (b *Bus) PSpec() float64 {
	p := 0.0
	for _, g := range b.Generators {
		p += g.P
	}
	for _, l := range b.Loads {
		p -= l.P
	}
	return p
}

// QSpec is the net specified reactive injection: generation minus load.
func (b *Bus) QSpec() float64 {
	q := 0.0
	for _, g := range b.Generators {
		q += g.Q
	}
	for _, l := range b.Loads {
		q -= l.Q
	}
	return q
}

// ShuntSusceptance sums the in-service shunt susceptance attached to the bus.
func (b *Bus) ShuntSusceptance() float64 {
	bsh := 0.0
	for _, s := range b.Shunts {
		if s.Status {
			bsh += s.B
		}
	}
	return bsh
}

// Generator holds a machine's setpoint. QMin/QMax are carried for reporting
// but reactive limits are not enforced by the solver.
type Generator struct {
	ID   int
	Bus  string
	P    float64 // active setpoint (pu); meaningless for the slack machine
	Q    float64
	QMin float64
	QMax float64
}

type Load struct {
	Bus string
	P   float64 // active demand (pu)
	Q   float64 // reactive demand (pu)
}

// Shunt is a pure susceptance tied to one bus: positive for a capacitor,
// negative for a reactor.
type Shunt struct {
	Bus    string
	B      float64
	Status bool
}
