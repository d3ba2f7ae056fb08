package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"powerflow/pkg/network"
	"powerflow/pkg/reader"
	"powerflow/pkg/report"
	"powerflow/pkg/solver"
	"powerflow/pkg/util"
	"powerflow/pkg/ybus"
)

var (
	format  = flag.String("format", "", "input format: json or pwf (default: by extension)")
	lang    = flag.String("lang", "en", "report language: pt or en")
	outDir  = flag.String("out", "", "directory for CSV/Markdown/chart exports (default: none)")
	tol     = flag.Float64("tol", 0, "convergence tolerance in pu (default 1e-6)")
	maxIter = flag.Int("max-iter", 0, "iteration cap (default 20)")
	bigNum  = flag.Float64("big", 0, "slack regularization constant (default 1e10)")
	plots   = flag.Bool("plots", true, "generate voltage charts when -out is set")
	verbose = flag.Bool("v", false, "log mismatch per iteration")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: powerflow [flags] <case file>")
	}
	path := flag.Arg(0)

	sys, err := readCase(path)
	if err != nil {
		log.Fatalf("Error reading case: %v", err)
	}

	y := ybus.Build(sys)
	cfg := solver.Config{
		Tolerance:     *tol,
		MaxIterations: *maxIter,
		BigNumber:     *bigNum,
		Verbose:       *verbose,
	}

	nr, err := solver.New(sys, y, cfg)
	if err != nil {
		log.Fatalf("Error setting up solver: %v", err)
	}

	res, err := nr.Solve()
	var convErr *solver.ConvergenceError
	switch {
	case err == nil:
		fmt.Printf("Converged in %d iterations (max mismatch %s)\n",
			res.Iterations, util.FormatMismatch(res.MismatchNorm))
	case errors.As(err, &convErr):
		fmt.Printf("Did not converge: %v\n", err)
	default:
		log.Fatalf("Solve failed: %v", err)
	}

	sys.SetState(res.V, res.Theta)
	printResults(sys, res)

	if *outDir != "" {
		if exportErr := export(sys, y, res); exportErr != nil {
			log.Fatalf("Export failed: %v", exportErr)
		}
		fmt.Printf("\nResults written to %s\n", *outDir)
	}

	if err != nil {
		os.Exit(1)
	}
}

func readCase(path string) (*network.System, error) {
	switch *format {
	case "":
		return reader.ReadFile(path)
	case "json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return reader.ParseJSON(caseName(path), data)
	case "pwf":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return reader.ParsePWF(caseName(path), string(data))
	default:
		return nil, fmt.Errorf("unknown format %q", *format)
	}
}

func caseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func printResults(sys *network.System, res *solver.Result) {
	fmt.Println("\nBus Voltages:")
	for i, b := range sys.Buses {
		fmt.Printf("  %-12s %-5s V=%s  theta=%s\n",
			b.Name, b.Type, util.FormatPU(res.V[i]), util.FormatAngle(res.Theta[i]))
	}

	if len(res.Flows) == 0 {
		return
	}
	fmt.Println("\nBranch Flows:")
	for _, f := range res.Flows {
		fmt.Printf("  %-12s -> %-12s P=%s  Q=%s  loss=%s\n",
			f.From, f.To,
			util.FormatMW(f.PFrom, sys.BaseMVA),
			util.FormatMVAr(f.QFrom, sys.BaseMVA),
			util.FormatMW(f.PLoss, sys.BaseMVA))
	}
}

func export(sys *network.System, y *ybus.Matrix, res *solver.Result) error {
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	language := report.Language(*lang)
	out := func(suffix string) string {
		return filepath.Join(*outDir, sys.Name+suffix)
	}

	if err := report.WriteResultsCSV(sys, res, out("_results.csv"), language); err != nil {
		return err
	}
	if err := report.WriteSummaryCSV(sys, res, out("_summary.csv"), language); err != nil {
		return err
	}
	if err := report.WriteYbusCSV(sys, y, out("_ybus_g.csv"), out("_ybus_b.csv"), language); err != nil {
		return err
	}
	if len(res.Flows) > 0 {
		if err := report.WriteFlowsCSV(res.Flows, out("_flows.csv"), language); err != nil {
			return err
		}
	}

	profilePath, phasorPath := "", ""
	if *plots {
		profilePath = out("_profile.png")
		phasorPath = out("_phasor.png")
		if err := report.PlotVoltageProfile(sys, res, profilePath, language); err != nil {
			return err
		}
		if err := report.PlotPhasorDiagram(sys, res, phasorPath, language); err != nil {
			return err
		}
	}

	return report.WriteMarkdown(sys, res, out("_report.md"), language, profilePath, phasorPath)
}
