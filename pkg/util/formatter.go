package util

import (
	"fmt"
	"math"
)

// FormatPU renders a per-unit quantity for terminal output.
func FormatPU(v float64) string {
	return fmt.Sprintf("%.4f pu", v)
}

// FormatAngle renders a radian angle in degrees.
func FormatAngle(rad float64) string {
	return fmt.Sprintf("%.2f deg", rad*180/math.Pi)
}

// FormatMW converts an active per-unit power to MW on the given base.
func FormatMW(pu, baseMVA float64) string {
	return fmt.Sprintf("%.2f MW", pu*baseMVA)
}

// FormatMVAr converts a reactive per-unit power to MVAr on the given base.
func FormatMVAr(pu, baseMVA float64) string {
	return fmt.Sprintf("%.2f MVAr", pu*baseMVA)
}

// FormatMismatch renders a residual norm.
func FormatMismatch(norm float64) string {
	return fmt.Sprintf("%.3e pu", norm)
}
