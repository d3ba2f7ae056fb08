package network

import "fmt"

// TopologyError reports a model defect found before any numeric work starts.
type TopologyError struct {
	Reason string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("invalid topology: %s", e.Reason)
}

func topologyErrorf(format string, args ...any) error {
	return &TopologyError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the model invariants the solver depends on: unique bus
// identifiers, exactly one SWING bus, no branch or shunt referencing a missing
// bus, and every bus electrically reachable from the SWING bus through
// in-service branches. A system failing here must never reach the iteration.
func (s *System) Validate() error {
	if len(s.Buses) == 0 {
		return topologyErrorf("system has no buses")
	}

	names := make(map[string]bool, len(s.Buses))
	numbers := make(map[int]bool, len(s.Buses))
	for _, b := range s.Buses {
		if names[b.Name] {
			return topologyErrorf("duplicate bus name %q", b.Name)
		}
		if numbers[b.Number] {
			return topologyErrorf("duplicate bus number %d", b.Number)
		}
		names[b.Name] = true
		numbers[b.Number] = true
	}

	slack := s.SlackBuses()
	if len(slack) == 0 {
		return topologyErrorf("no SWING bus defined")
	}
	if len(slack) > 1 {
		return topologyErrorf("%d SWING buses defined, want exactly one", len(slack))
	}

	for _, l := range s.Lines {
		if _, ok := s.index[l.From]; !ok {
			return topologyErrorf("line %s-%s references unknown bus %q", l.From, l.To, l.From)
		}
		if _, ok := s.index[l.To]; !ok {
			return topologyErrorf("line %s-%s references unknown bus %q", l.From, l.To, l.To)
		}
	}
	for _, t := range s.Transformers {
		if _, ok := s.index[t.From]; !ok {
			return topologyErrorf("transformer %s-%s references unknown bus %q", t.From, t.To, t.From)
		}
		if _, ok := s.index[t.To]; !ok {
			return topologyErrorf("transformer %s-%s references unknown bus %q", t.From, t.To, t.To)
		}
		if t.Tap == 0 {
			return topologyErrorf("transformer %s-%s has zero tap ratio", t.From, t.To)
		}
	}
	for _, b := range s.Buses {
		for _, sh := range b.Shunts {
			if sh.Bus != "" && sh.Bus != b.Name {
				return topologyErrorf("shunt on bus %q attached to bus %q", sh.Bus, b.Name)
			}
		}
	}

	if unreached := s.unreachableFrom(slack[0]); len(unreached) > 0 {
		return topologyErrorf("bus %q has no path to the SWING bus", s.Buses[unreached[0]].Name)
	}
	return nil
}

// unreachableFrom walks the in-service branch graph from the given bus and
// returns the positions it never reaches.
func (s *System) unreachableFrom(start int) []int {
	adj := make([][]int, len(s.Buses))
	addEdge := func(from, to string, inService bool) {
		if !inService {
			return
		}
		i, j := s.index[from], s.index[to]
		adj[i] = append(adj[i], j)
		adj[j] = append(adj[j], i)
	}
	for _, l := range s.Lines {
		addEdge(l.From, l.To, l.Status)
	}
	for _, t := range s.Transformers {
		addEdge(t.From, t.To, t.Status)
	}

	seen := make([]bool, len(s.Buses))
	queue := []int{start}
	seen[start] = true
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range adj[i] {
			if !seen[j] {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}

	var unreached []int
	for i, ok := range seen {
		if !ok {
			unreached = append(unreached, i)
		}
	}
	return unreached
}
