package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1.0450 pu", FormatPU(1.045))
	assert.Equal(t, "-30.00 deg", FormatAngle(-math.Pi/6))
	assert.Equal(t, "232.40 MW", FormatMW(2.324, 100))
	assert.Equal(t, "-16.90 MVAr", FormatMVAr(-0.169, 100))
	assert.Equal(t, "9.997e-07 pu", FormatMismatch(9.997e-7))
}
