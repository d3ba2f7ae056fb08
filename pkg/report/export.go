package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"powerflow/pkg/network"
	"powerflow/pkg/solver"
	"powerflow/pkg/ybus"
)

// WriteResultsCSV saves the solved voltage state, one row per bus.
func WriteResultsCSV(sys *network.System, res *solver.Result, path string, lang Language) error {
	rows := [][]string{{Label(lang, "bus"), Label(lang, "v_calc"), Label(lang, "theta_calc")}}
	for i, b := range sys.Buses {
		rows = append(rows, []string{
			b.Name,
			fmt.Sprintf("%.6f", res.V[i]),
			fmt.Sprintf("%.6f", res.Theta[i]),
		})
	}
	return writeCSV(path, rows)
}

// WriteSummaryCSV saves a per-bus summary: type, specified injections and the
// solved state.
func WriteSummaryCSV(sys *network.System, res *solver.Result, path string, lang Language) error {
	rows := [][]string{{
		Label(lang, "bus"), Label(lang, "type"),
		Label(lang, "p_spec"), Label(lang, "q_spec"), Label(lang, "shunt"),
		Label(lang, "v_calc"), Label(lang, "theta_calc"),
	}}
	for i, b := range sys.Buses {
		rows = append(rows, []string{
			b.Name, b.Type.String(),
			fmt.Sprintf("%.6f", b.PSpec()),
			fmt.Sprintf("%.6f", b.QSpec()),
			fmt.Sprintf("%.6f", b.ShuntSusceptance()),
			fmt.Sprintf("%.6f", res.V[i]),
			fmt.Sprintf("%.6f", res.Theta[i]),
		})
	}
	return writeCSV(path, rows)
}

// WriteFlowsCSV saves the derived branch flows and losses.
func WriteFlowsCSV(flows []solver.BranchFlow, path string, lang Language) error {
	rows := [][]string{{
		Label(lang, "from"), Label(lang, "to"),
		Label(lang, "p_from"), Label(lang, "q_from"),
		Label(lang, "p_to"), Label(lang, "q_to"),
		Label(lang, "p_loss"), Label(lang, "q_loss"),
	}}
	for _, f := range flows {
		rows = append(rows, []string{
			f.From, f.To,
			fmt.Sprintf("%.6f", f.PFrom), fmt.Sprintf("%.6f", f.QFrom),
			fmt.Sprintf("%.6f", f.PTo), fmt.Sprintf("%.6f", f.QTo),
			fmt.Sprintf("%.6f", f.PLoss), fmt.Sprintf("%.6f", f.QLoss),
		})
	}
	return writeCSV(path, rows)
}

// WriteYbusCSV saves the admittance matrix as two full tables, conductance
// and susceptance, indexed by bus name.
func WriteYbusCSV(sys *network.System, y *ybus.Matrix, realPath, imagPath string, lang Language) error {
	header := []string{Label(lang, "bus")}
	for _, b := range sys.Buses {
		header = append(header, b.Name)
	}

	part := func(f func(i, j int) float64) [][]string {
		rows := [][]string{header}
		for i, b := range sys.Buses {
			row := []string{b.Name}
			for j := range sys.Buses {
				row = append(row, fmt.Sprintf("%.6f", f(i, j)))
			}
			rows = append(rows, row)
		}
		return rows
	}

	if err := writeCSV(realPath, part(y.G)); err != nil {
		return err
	}
	return writeCSV(imagPath, part(y.B))
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
