package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"powerflow/pkg/network"
	"powerflow/pkg/solver"
)

// WriteMarkdown generates a run report: convergence summary, per-bus table,
// branch flows and chart references. Chart paths may be empty when plots were
// not generated.
func WriteMarkdown(sys *network.System, res *solver.Result, path string, lang Language, profilePath, phasorPath string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s – %s\n\n", Label(lang, "title"), sys.Name)

	converged := Label(lang, "no")
	if res.Status == solver.Converged {
		converged = Label(lang, "yes")
	}
	fmt.Fprintf(&b, "**%s:** %s – %s: %d – %s: %.3e\n\n",
		Label(lang, "convergence"), converged,
		Label(lang, "iterations"), res.Iterations,
		Label(lang, "mismatch"), res.MismatchNorm)

	fmt.Fprintf(&b, "## %s\n\n", Label(lang, "bus_results"))
	fmt.Fprintf(&b, "| %s | %s | %s |\n", Label(lang, "bus"), Label(lang, "v_calc"), Label(lang, "theta_calc"))
	b.WriteString("|---|---|---|\n")
	for i, bus := range sys.Buses {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f |\n", bus.Name, res.V[i], res.Theta[i])
	}

	if len(res.Flows) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", Label(lang, "branch_flows"))
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			Label(lang, "from"), Label(lang, "to"),
			Label(lang, "p_from"), Label(lang, "q_from"),
			Label(lang, "p_loss"), Label(lang, "q_loss"))
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, f := range res.Flows {
			fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %.4f | %.4f |\n",
				f.From, f.To, f.PFrom, f.QFrom, f.PLoss, f.QLoss)
		}
	}

	if profilePath != "" {
		fmt.Fprintf(&b, "\n## %s\n\n![](%s)\n", Label(lang, "profile_title"), filepath.Base(profilePath))
	}
	if phasorPath != "" {
		fmt.Fprintf(&b, "\n## %s\n\n![](%s)\n", Label(lang, "phasor_title"), filepath.Base(phasorPath))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing report: %v", err)
	}
	return nil
}
