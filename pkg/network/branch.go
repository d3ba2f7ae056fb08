package network

// Line is a transmission line between two buses, standard pi-model:
// series impedance R+jX and total charging susceptance B split half per end.
type Line struct {
	From   string
	To     string
	Name   string
	R      float64 // series resistance (pu)
	X      float64 // series reactance (pu)
	B      float64 // total shunt susceptance (pu)
	Status bool
}

func (l Line) Z() complex128 { return complex(l.R, l.X) }

// Transformer is a branch with an off-nominal complex tap a·e^(j·phase) on the
// From side. A unity tap with zero phase degenerates to a plain line.
type Transformer struct {
	From   string
	To     string
	Name   string
	R      float64
	X      float64
	B      float64
	Tap    float64 // magnitude ratio
	Phase  float64 // phase shift (rad)
	Status bool
}

func (t Transformer) Z() complex128 { return complex(t.R, t.X) }
