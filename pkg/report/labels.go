// Package report presents solved cases: CSV exports, a Markdown run report
// and voltage charts. Labels are a pure lookup by language; numerical code
// never consults them.
package report

type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

var labels = map[Language]map[string]string{
	Portuguese: {
		"bus":           "Barra",
		"type":          "Tipo",
		"v_calc":        "V Calc. (pu)",
		"theta_calc":    "θ Calc. (rad)",
		"p_spec":        "P Esp. (pu)",
		"q_spec":        "Q Esp. (pu)",
		"shunt":         "Shunt (pu)",
		"from":          "De",
		"to":            "Para",
		"p_from":        "P De (pu)",
		"q_from":        "Q De (pu)",
		"p_to":          "P Para (pu)",
		"q_to":          "Q Para (pu)",
		"p_loss":        "Perdas P (pu)",
		"q_loss":        "Perdas Q (pu)",
		"title":         "Relatório de Fluxo de Potência",
		"convergence":   "Convergência",
		"iterations":    "Número de Iterações",
		"mismatch":      "Resíduo Final (pu)",
		"bus_results":   "Resultados por Barra",
		"branch_flows":  "Fluxos nos Ramos",
		"phasor_title":  "Diagrama Fasorial das Tensões",
		"profile_title": "Perfil de Tensão por Barra",
		"yes":           "Sim",
		"no":            "Não",
	},
	English: {
		"bus":           "Bus",
		"type":          "Type",
		"v_calc":        "V Calc. (pu)",
		"theta_calc":    "θ Calc. (rad)",
		"p_spec":        "P Setpoint (pu)",
		"q_spec":        "Q Setpoint (pu)",
		"shunt":         "Shunt (pu)",
		"from":          "From",
		"to":            "To",
		"p_from":        "P From (pu)",
		"q_from":        "Q From (pu)",
		"p_to":          "P To (pu)",
		"q_to":          "Q To (pu)",
		"p_loss":        "P Loss (pu)",
		"q_loss":        "Q Loss (pu)",
		"title":         "Power Flow Report",
		"convergence":   "Convergence",
		"iterations":    "Iterations",
		"mismatch":      "Final Mismatch (pu)",
		"bus_results":   "Bus Results",
		"branch_flows":  "Branch Flows",
		"phasor_title":  "Voltage Phasor Diagram",
		"profile_title": "Voltage Profile by Bus",
		"yes":           "Yes",
		"no":            "No",
	},
}

// Label resolves a presentation label, falling back to English for unknown
// languages.
func Label(lang Language, key string) string {
	if m, ok := labels[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return labels[English][key]
}
