package reader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"powerflow/pkg/network"
)

// ParsePWF reads an ANAREDE-style fixed-column case: a BASE record with the
// MVA base, a DBAR section with bus records and a DLIN section with branch
// records, each section closed by a 99999 line. Comment lines start with '('.
// DLIN entries with an off-nominal tap or a phase shift become transformers;
// the rest become lines.
func ParsePWF(name, content string) (*network.System, error) {
	lines := strings.Split(content, "\n")

	base, err := pwfBase(lines)
	if err != nil {
		return nil, err
	}

	buses, byNumber := pwfBuses(lines, base)
	if len(buses) == 0 {
		return nil, fmt.Errorf("no DBAR section in case %q", name)
	}
	netLines, trafos := pwfBranches(lines, base, byNumber)

	return network.NewSystem(name, base, buses, netLines, trafos), nil
}

func pwfBase(lines []string) (float64, error) {
	for _, line := range lines {
		if strings.Contains(line, "BASE") {
			if v, ok := pwfFloat(line, 5, 11); ok && v > 0 {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("no BASE record found")
}

func pwfBuses(lines []string, base float64) ([]*network.Bus, map[int]string) {
	var buses []*network.Bus
	byNumber := make(map[int]string)

	for _, line := range pwfSection(lines, "DBAR") {
		num, ok := pwfInt(line, 0, 5)
		if !ok {
			continue
		}
		typeCode, _ := pwfInt(line, 5, 8)
		busType := network.PQ
		switch typeCode {
		case 1:
			busType = network.PV
		case 2:
			busType = network.Slack
		}

		busName := strings.TrimSpace(pwfField(line, 10, 22))
		if busName == "" {
			busName = "BUS-" + strconv.Itoa(num)
		}
		v, ok := pwfFloat(line, 24, 28)
		if !ok {
			v = 1000
		}
		theta, _ := pwfFloat(line, 28, 32) // degrees in the file

		b := &network.Bus{
			Number: num,
			Name:   busName,
			Type:   busType,
			V:      v / 1000,
			Theta:  theta * math.Pi / 180,
		}
		byNumber[num] = busName

		pg, _ := pwfFloat(line, 32, 37)
		qg, _ := pwfFloat(line, 37, 42)
		qn, _ := pwfFloat(line, 42, 47)
		qm, _ := pwfFloat(line, 47, 52)
		if busType == network.PV || busType == network.Slack || pg != 0 || qg != 0 {
			b.Generators = append(b.Generators, network.Generator{
				ID: num, Bus: busName, P: pg / base, Q: qg / base, QMin: qn, QMax: qm,
			})
		}

		pl, _ := pwfFloat(line, 58, 63)
		ql, _ := pwfFloat(line, 63, 68)
		if pl != 0 || ql != 0 {
			b.Loads = append(b.Loads, network.Load{Bus: busName, P: pl / base, Q: ql / base})
		}

		if sh, _ := pwfFloat(line, 69, 74); sh != 0 {
			b.Shunts = append(b.Shunts, network.Shunt{Bus: busName, B: sh / base, Status: true})
		}

		buses = append(buses, b)
	}

	return buses, byNumber
}

func pwfBranches(lines []string, base float64, byNumber map[int]string) ([]network.Line, []network.Transformer) {
	var netLines []network.Line
	var trafos []network.Transformer

	for _, line := range pwfSection(lines, "DLIN") {
		fromNum, ok := pwfInt(line, 0, 5)
		if !ok {
			continue
		}
		toNum, ok := pwfInt(line, 10, 15)
		if !ok {
			continue
		}

		r, _ := pwfFloat(line, 15, 26)
		x, _ := pwfFloat(line, 26, 32)
		b, _ := pwfFloat(line, 32, 38)
		tap, ok := pwfFloat(line, 38, 44)
		if !ok || tap == 0 {
			tap = 1.0
		}
		phase, _ := pwfFloat(line, 54, 59) // degrees

		from := pwfBusName(byNumber, fromNum)
		to := pwfBusName(byNumber, toNum)
		r, x, b = r/100, x/100, b/base

		if tap != 1.0 || phase != 0 {
			trafos = append(trafos, network.Transformer{
				From: from, To: to, Name: fmt.Sprintf("TRAFO-%d-%d", fromNum, toNum),
				R: r, X: x, B: b, Tap: tap, Phase: phase * math.Pi / 180, Status: true,
			})
		} else {
			netLines = append(netLines, network.Line{
				From: from, To: to, R: r, X: x, B: b, Status: true,
			})
		}
	}

	return netLines, trafos
}

// pwfSection yields the data lines between the section header and its 99999
// terminator, skipping '(' comments and blanks.
func pwfSection(lines []string, header string) []string {
	var out []string
	capture := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !capture {
			if strings.Contains(line, header) {
				capture = true
			}
			continue
		}
		if trimmed == "99999" {
			break
		}
		if strings.HasPrefix(trimmed, "(") || len(trimmed) < 5 {
			continue
		}
		out = append(out, line)
	}
	return out
}

func pwfField(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return line[from:to]
}

func pwfFloat(line string, from, to int) (float64, bool) {
	s := strings.TrimSpace(pwfField(line, from, to))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func pwfInt(line string, from, to int) (int, bool) {
	s := strings.TrimSpace(pwfField(line, from, to))
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func pwfBusName(byNumber map[int]string, num int) string {
	if name, ok := byNumber[num]; ok {
		return name
	}
	return strconv.Itoa(num)
}
