package ybus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerflow/pkg/network"
)

func twoBus(lines []network.Line, trafos []network.Transformer) *network.System {
	buses := []*network.Bus{
		{Number: 1, Name: "A", Type: network.Slack, V: 1.0},
		{Number: 2, Name: "B", Type: network.PQ, V: 1.0},
	}
	return network.NewSystem("t", 100, buses, lines, trafos)
}

func TestBuildLine(t *testing.T) {
	sys := twoBus([]network.Line{
		{From: "A", To: "B", R: 0.01, X: 0.1, B: 0.04, Status: true},
	}, nil)
	m := Build(sys)

	y := 1 / complex(0.01, 0.1)
	half := complex(0, 0.02)
	assert.InDelta(t, real(y+half), real(m.At(0, 0)), 1e-12)
	assert.InDelta(t, imag(y+half), imag(m.At(0, 0)), 1e-12)
	assert.Equal(t, m.At(0, 1), m.At(1, 0), "plain line must stamp symmetrically")
	assert.InDelta(t, real(-y), real(m.At(0, 1)), 1e-12)

	// Row sum collapses to the shunt half: series terms cancel.
	rowSum := m.At(0, 0) + m.At(0, 1)
	assert.InDelta(t, 0, real(rowSum), 1e-12)
	assert.InDelta(t, 0.02, imag(rowSum), 1e-12)
}

func TestBuildTransformerTapAsymmetry(t *testing.T) {
	sys := twoBus(nil, []network.Transformer{
		{From: "A", To: "B", X: 0.2, Tap: 0.95, Status: true},
	})
	m := Build(sys)

	assert.NotEqual(t, m.At(0, 0), m.At(1, 1), "off-nominal tap must unbalance the diagonals")

	// Real tap keeps i,j == j,i; only a phase shift breaks it.
	assert.InDelta(t, real(m.At(0, 1)), real(m.At(1, 0)), 1e-12)
	assert.InDelta(t, imag(m.At(0, 1)), imag(m.At(1, 0)), 1e-12)

	shifted := twoBus(nil, []network.Transformer{
		{From: "A", To: "B", X: 0.2, Tap: 1.0, Phase: 10 * math.Pi / 180, Status: true},
	})
	ms := Build(shifted)
	assert.NotEqual(t, ms.At(0, 1), ms.At(1, 0), "phase shift must break i,j / j,i symmetry")
}

func TestBuildUnityTransformerMatchesLine(t *testing.T) {
	asLine := Build(twoBus([]network.Line{
		{From: "A", To: "B", R: 0.02, X: 0.15, B: 0.06, Status: true},
	}, nil))
	asTrafo := Build(twoBus(nil, []network.Transformer{
		{From: "A", To: "B", R: 0.02, X: 0.15, B: 0.06, Tap: 1.0, Phase: 0, Status: true},
	}))

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, real(asLine.At(i, j)), real(asTrafo.At(i, j)), 1e-12)
			assert.InDelta(t, imag(asLine.At(i, j)), imag(asTrafo.At(i, j)), 1e-12)
		}
	}
}

func TestBuildBusShuntAndStatus(t *testing.T) {
	sys := twoBus([]network.Line{
		{From: "A", To: "B", R: 0.01, X: 0.1, Status: true},
		{From: "A", To: "B", R: 0.01, X: 0.1, Status: false}, // out of service, no stamp
	}, nil)
	sys.Buses[1].Shunts = []network.Shunt{{Bus: "B", B: 0.19, Status: true}}
	m := Build(sys)

	y := 1 / complex(0.01, 0.1)
	assert.InDelta(t, imag(y)+0.19, imag(m.At(1, 1)), 1e-12)
	assert.InDelta(t, real(y), real(m.At(1, 1)), 1e-12)
}

func TestBuildPassiveConductance(t *testing.T) {
	sys := twoBus([]network.Line{
		{From: "A", To: "B", R: 0.03, X: 0.12, B: 0.02, Status: true},
	}, nil)
	m := Build(sys)
	require.Equal(t, 2, m.Size())
	for i := 0; i < m.Size(); i++ {
		assert.GreaterOrEqual(t, m.G(i, i), 0.0, "diagonal conductance of a passive network")
	}
}
