package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerflow/pkg/network"
	"powerflow/pkg/solver"
	"powerflow/pkg/ybus"
)

func solvedFixture(t *testing.T) (*network.System, *ybus.Matrix, *solver.Result) {
	t.Helper()
	buses := []*network.Bus{
		{Number: 1, Name: "FONTE", Type: network.Slack, V: 1.0},
		{Number: 2, Name: "CARGA", Type: network.PQ, V: 1.0,
			Loads: []network.Load{{Bus: "CARGA", P: 0.3, Q: 0.1}}},
	}
	lines := []network.Line{{From: "FONTE", To: "CARGA", R: 0.02, X: 0.1, Status: true}}
	sys := network.NewSystem("caso2", 100, buses, lines, nil)
	y := ybus.Build(sys)

	s, err := solver.New(sys, y, solver.Config{})
	require.NoError(t, err)
	res, err := s.Solve()
	require.NoError(t, err)
	return sys, y, res
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteResultsCSV(t *testing.T) {
	sys, _, res := solvedFixture(t)
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteResultsCSV(sys, res, path, English))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Bus", "V Calc. (pu)", "θ Calc. (rad)"}, rows[0])
	assert.Equal(t, "FONTE", rows[1][0])
	assert.Equal(t, "1.000000", rows[1][1], "slack magnitude held at setpoint")
}

func TestWriteSummaryCSVPortuguese(t *testing.T) {
	sys, _, res := solvedFixture(t)
	path := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, WriteSummaryCSV(sys, res, path, Portuguese))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "Barra", rows[0][0])
	assert.Equal(t, "SWING", rows[1][1])
	assert.Equal(t, "PQ", rows[2][1])
	assert.Equal(t, "-0.300000", rows[2][2])
}

func TestWriteFlowsCSV(t *testing.T) {
	_, _, res := solvedFixture(t)
	path := filepath.Join(t.TempDir(), "flows.csv")
	require.NoError(t, WriteFlowsCSV(res.Flows, path, English))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "From", rows[0][0])
	assert.Equal(t, "FONTE", rows[1][0])
	assert.Equal(t, "CARGA", rows[1][1])
}

func TestWriteYbusCSV(t *testing.T) {
	sys, y, _ := solvedFixture(t)
	dir := t.TempDir()
	gPath := filepath.Join(dir, "g.csv")
	bPath := filepath.Join(dir, "b.csv")
	require.NoError(t, WriteYbusCSV(sys, y, gPath, bPath, English))

	for _, path := range []string{gPath, bPath} {
		rows := readCSV(t, path)
		require.Len(t, rows, 3, "header plus one row per bus")
		require.Len(t, rows[0], 3, "name column plus one column per bus")
		assert.Equal(t, "CARGA", rows[0][2])
		assert.Equal(t, "CARGA", rows[2][0])
	}
}

func TestWriteMarkdown(t *testing.T) {
	sys, _, res := solvedFixture(t)
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, WriteMarkdown(sys, res, path, English, "caso2_profile.png", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "# Power Flow Report – caso2"))
	assert.Contains(t, text, "**Convergence:** Yes")
	assert.Contains(t, text, "| FONTE |")
	assert.Contains(t, text, "## Branch Flows")
	assert.Contains(t, text, "![](caso2_profile.png)")
	assert.NotContains(t, text, "Phasor", "no phasor section without a chart path")
}

func TestWriteMarkdownPortuguese(t *testing.T) {
	sys, _, res := solvedFixture(t)
	path := filepath.Join(t.TempDir(), "relatorio.md")
	require.NoError(t, WriteMarkdown(sys, res, path, Portuguese, "", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Relatório de Fluxo de Potência")
	assert.Contains(t, text, "**Convergência:** Sim")
	assert.Contains(t, text, "Resultados por Barra")
}

func TestLabelFallback(t *testing.T) {
	assert.Equal(t, "Bus", Label("de", "bus"), "unknown language falls back to English")
	assert.Equal(t, "Barra", Label(Portuguese, "bus"))
}

func TestPlots(t *testing.T) {
	sys, _, res := solvedFixture(t)
	dir := t.TempDir()

	profile := filepath.Join(dir, "profile.png")
	require.NoError(t, PlotVoltageProfile(sys, res, profile, English))
	info, err := os.Stat(profile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	phasor := filepath.Join(dir, "phasor.png")
	require.NoError(t, PlotPhasorDiagram(sys, res, phasor, Portuguese))
	info, err = os.Stat(phasor)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
