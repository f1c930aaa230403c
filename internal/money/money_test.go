package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundHalfUp(t *testing.T) {
	step := d("0.01")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact value unchanged", "10.03", "10.03"},
		{"below half rounds down", "10.034", "10.03"},
		{"half rounds away from zero", "10.005", "10.01"},
		{"above half rounds up", "10.036", "10.04"},
		{"negative half rounds away from zero", "-10.005", "-10.01"},
		{"zero", "0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundHalfUp(d(tt.in), step)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestRoundHalfUpCustomStep(t *testing.T) {
	step := d("0.25")
	assert.True(t, d("10.25").Equal(RoundHalfUp(d("10.30"), step)))
	assert.True(t, d("10.50").Equal(RoundHalfUp(d("10.40"), step)))
	// exact midpoint between 10.25 and 10.50
	assert.True(t, d("10.50").Equal(RoundHalfUp(d("10.375"), step)))
}

func TestRoundDown(t *testing.T) {
	step := d("0.01")
	assert.True(t, d("10.03").Equal(RoundDown(d("10.037"), step)))
	assert.True(t, d("10.03").Equal(RoundDown(d("10.039"), step)))
	assert.True(t, d("10.03").Equal(RoundDown(d("10.03"), step)))
	// floor goes toward negative infinity
	assert.True(t, d("-10.04").Equal(RoundDown(d("-10.031"), step)))
}

func TestNonPositiveStepMeansNoRounding(t *testing.T) {
	x := d("10.0371")
	assert.True(t, x.Equal(RoundHalfUp(x, decimal.Zero)))
	assert.True(t, x.Equal(RoundDown(x, decimal.Zero)))
	assert.True(t, x.Equal(RoundHalfUp(x, d("-0.01"))))
}

func TestClampNonNegative(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(ClampNonNegative(d("-3"))))
	assert.True(t, decimal.Zero.Equal(ClampNonNegative(decimal.Zero)))
	assert.True(t, d("3.50").Equal(ClampNonNegative(d("3.50"))))
}

func TestClamp(t *testing.T) {
	assert.True(t, d("1").Equal(Clamp(d("0.5"), d("1"), d("2"))))
	assert.True(t, d("2").Equal(Clamp(d("2.5"), d("1"), d("2"))))
	assert.True(t, d("1.5").Equal(Clamp(d("1.5"), d("1"), d("2"))))
}

func TestStepOrDefault(t *testing.T) {
	assert.True(t, DefaultStep.Equal(StepOrDefault(decimal.Zero)))
	assert.True(t, d("0.05").Equal(StepOrDefault(d("0.05"))))
}
