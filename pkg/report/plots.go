package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"powerflow/pkg/network"
	"powerflow/pkg/solver"
)

// PlotVoltageProfile saves a per-bus voltage magnitude chart as PNG.
func PlotVoltageProfile(sys *network.System, res *solver.Result, path string, lang Language) error {
	p := plot.New()
	p.Title.Text = Label(lang, "profile_title")
	p.X.Label.Text = Label(lang, "bus")
	p.Y.Label.Text = Label(lang, "v_calc")

	pts := make(plotter.XYs, len(res.V))
	for i, v := range res.V {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("building voltage profile: %v", err)
	}
	p.Add(plotter.NewGrid(), line, points)

	names := make([]string, len(sys.Buses))
	for i, b := range sys.Buses {
		names[i] = b.Name
	}
	p.NominalX(names...)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving voltage profile: %v", err)
	}
	return nil
}

// PlotPhasorDiagram saves the bus voltage phasors V∠θ in rectangular
// coordinates as PNG.
func PlotPhasorDiagram(sys *network.System, res *solver.Result, path string, lang Language) error {
	p := plot.New()
	p.Title.Text = Label(lang, "phasor_title")
	p.X.Label.Text = "Re"
	p.Y.Label.Text = "Im"

	pts := make(plotter.XYs, len(res.V))
	for i := range res.V {
		pts[i] = plotter.XY{
			X: res.V[i] * math.Cos(res.Theta[i]),
			Y: res.V[i] * math.Sin(res.Theta[i]),
		}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building phasor diagram: %v", err)
	}
	p.Add(plotter.NewGrid(), scatter)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving phasor diagram: %v", err)
	}
	return nil
}
