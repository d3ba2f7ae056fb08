// Package reader loads network models from case files. Two formats are
// supported: a JSON schema and the ANAREDE-style fixed-column PWF format.
// Readers only populate the model; validation lives in pkg/network.
package reader

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"powerflow/internal/consts"
	"powerflow/pkg/network"
)

type jsonCase struct {
	Name         string            `json:"name"`
	BaseMVA      float64           `json:"base_mva"`
	Buses        []jsonBus         `json:"buses"`
	Lines        []jsonBranch      `json:"lines"`
	Transformers []jsonTransformer `json:"transformers"`
}

type jsonBus struct {
	Number     int             `json:"number"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	V          float64         `json:"v"`
	Theta      float64         `json:"theta"`
	Generators []jsonGenerator `json:"generators"`
	Loads      []jsonLoad      `json:"loads"`
	Shunts     []jsonShunt     `json:"shunts"`
}

type jsonGenerator struct {
	ID   int     `json:"id"`
	P    float64 `json:"p"`
	Q    float64 `json:"q"`
	QMin float64 `json:"qmin"`
	QMax float64 `json:"qmax"`
}

type jsonLoad struct {
	P float64 `json:"p"`
	Q float64 `json:"q"`
}

type jsonShunt struct {
	B      float64 `json:"b"`
	Status *bool   `json:"status"`
}

type jsonBranch struct {
	From   busRef  `json:"from"`
	To     busRef  `json:"to"`
	R      float64 `json:"r"`
	X      float64 `json:"x"`
	B      float64 `json:"b"`
	Status *bool   `json:"status"`
}

type jsonTransformer struct {
	From   busRef  `json:"from"`
	To     busRef  `json:"to"`
	R      float64 `json:"r"`
	X      float64 `json:"x"`
	B      float64 `json:"b"`
	Tap    float64 `json:"tap"`
	Phase  float64 `json:"phase"` // degrees in the file
	Status *bool   `json:"status"`
}

// busRef accepts either a bus number or a bus name in branch endpoints.
type busRef struct {
	number int
	name   string
}

func (r *busRef) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.number); err == nil {
		return nil
	}
	return json.Unmarshal(data, &r.name)
}

func (r busRef) resolve(byNumber map[int]string) (string, error) {
	if r.name != "" {
		return r.name, nil
	}
	name, ok := byNumber[r.number]
	if !ok {
		return "", fmt.Errorf("branch references unknown bus number %d", r.number)
	}
	return name, nil
}

// ParseJSON builds a System from JSON case data. Missing voltages default to
// the flat 1.0 pu profile and missing status fields default to in-service.
func ParseJSON(name string, data []byte) (*network.System, error) {
	var c jsonCase
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing case JSON: %v", err)
	}
	if c.Name != "" {
		name = c.Name
	}
	if c.BaseMVA == 0 {
		c.BaseMVA = consts.DefaultBaseMVA
	}

	byNumber := make(map[int]string, len(c.Buses))
	var buses []*network.Bus
	for i, jb := range c.Buses {
		number := jb.Number
		if number == 0 {
			number = i + 1
		}
		busName := jb.Name
		if busName == "" {
			busName = "BUS-" + strconv.Itoa(number)
		}
		byNumber[number] = busName

		t, err := parseBusType(jb.Type)
		if err != nil {
			return nil, fmt.Errorf("bus %s: %v", busName, err)
		}
		v := jb.V
		if v == 0 {
			v = 1.0
		}

		b := &network.Bus{Number: number, Name: busName, Type: t, V: v, Theta: jb.Theta}
		for _, g := range jb.Generators {
			b.Generators = append(b.Generators, network.Generator{
				ID: g.ID, Bus: busName, P: g.P, Q: g.Q, QMin: g.QMin, QMax: g.QMax,
			})
		}
		for _, l := range jb.Loads {
			b.Loads = append(b.Loads, network.Load{Bus: busName, P: l.P, Q: l.Q})
		}
		for _, s := range jb.Shunts {
			b.Shunts = append(b.Shunts, network.Shunt{Bus: busName, B: s.B, Status: statusOf(s.Status)})
		}
		buses = append(buses, b)
	}

	var lines []network.Line
	for _, jl := range c.Lines {
		from, err := jl.From.resolve(byNumber)
		if err != nil {
			return nil, err
		}
		to, err := jl.To.resolve(byNumber)
		if err != nil {
			return nil, err
		}
		lines = append(lines, network.Line{
			From: from, To: to, R: jl.R, X: jl.X, B: jl.B, Status: statusOf(jl.Status),
		})
	}

	var trafos []network.Transformer
	for _, jt := range c.Transformers {
		from, err := jt.From.resolve(byNumber)
		if err != nil {
			return nil, err
		}
		to, err := jt.To.resolve(byNumber)
		if err != nil {
			return nil, err
		}
		tap := jt.Tap
		if tap == 0 {
			tap = 1.0
		}
		trafos = append(trafos, network.Transformer{
			From: from, To: to, Name: fmt.Sprintf("TRAFO-%s-%s", from, to),
			R: jt.R, X: jt.X, B: jt.B, Tap: tap,
			Phase:  jt.Phase * math.Pi / 180,
			Status: statusOf(jt.Status),
		})
	}

	return network.NewSystem(name, c.BaseMVA, buses, lines, trafos), nil
}

// ReadFile loads a case, choosing the format by file extension.
func ReadFile(path string) (*network.System, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading case file: %v", err)
		}
		return ParseJSON(name, data)
	case ".pwf":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading case file: %v", err)
		}
		return ParsePWF(name, string(data))
	default:
		return nil, fmt.Errorf("unsupported case format %q", filepath.Ext(path))
	}
}

func parseBusType(s string) (network.BusType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PQ", "":
		return network.PQ, nil
	case "PV":
		return network.PV, nil
	case "SWING", "SLACK", "VTHETA":
		return network.Slack, nil
	default:
		return 0, fmt.Errorf("unknown bus type %q", s)
	}
}

func statusOf(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
