package network

// System consolidates the model consumed by the solver: buses in a fixed
// order, branches, and the index sets derived from bus types. Build one from
// a reader, call Validate, then hand it to ybus.Build and solver.New.
type System struct {
	Name         string
	BaseMVA      float64
	Buses        []*Bus
	Lines        []Line
	Transformers []Transformer

	index map[string]int
}

func NewSystem(name string, baseMVA float64, buses []*Bus, lines []Line, trafos []Transformer) *System {
	s := &System{
		Name:         name,
		BaseMVA:      baseMVA,
		Buses:        buses,
		Lines:        lines,
		Transformers: trafos,
		index:        make(map[string]int, len(buses)),
	}
	for i, b := range buses {
		s.index[b.Name] = i
	}
	return s
}

// N is the bus count.
func (s *System) N() int { return len(s.Buses) }

// BusIndex maps a bus name to its position in Buses.
func (s *System) BusIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// SlackBuses returns the positions of SWING buses in model order.
func (s *System) SlackBuses() []int { return s.busesOfType(Slack) }

// PVBuses returns the positions of PV buses in model order.
func (s *System) PVBuses() []int { return s.busesOfType(PV) }

// PQBuses returns the positions of PQ buses in model order.
func (s *System) PQBuses() []int { return s.busesOfType(PQ) }

func (s *System) busesOfType(t BusType) []int {
	var idx []int
	for i, b := range s.Buses {
		if b.Type == t {
			idx = append(idx, i)
		}
	}
	return idx
}

// SetState writes a solved voltage profile back onto the buses.
func (s *System) SetState(v, theta []float64) {
	for i, b := range s.Buses {
		b.V = v[i]
		b.Theta = theta[i]
	}
}
