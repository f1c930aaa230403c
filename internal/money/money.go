package money

import "github.com/shopspring/decimal"

// DefaultStep is the currency step used when a caller does not configure one.
var DefaultStep = decimal.New(1, -2) // 0.01

// RoundHalfUp rounds x to the nearest multiple of step, half away from zero
// at the boundary (financial convention). A non-positive step means no
// rounding: x is returned unchanged.
func RoundHalfUp(x, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return x
	}
	return x.Div(step).Round(0).Mul(step)
}

// RoundDown floors x to the nearest multiple of step, toward negative
// infinity. A non-positive step means no rounding.
func RoundDown(x, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return x
	}
	return x.Div(step).Floor().Mul(step)
}

// ClampNonNegative returns x when positive, zero otherwise.
func ClampNonNegative(x decimal.Decimal) decimal.Decimal {
	if x.Sign() > 0 {
		return x
	}
	return decimal.Zero
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi decimal.Decimal) decimal.Decimal {
	if x.LessThan(lo) {
		return lo
	}
	if x.GreaterThan(hi) {
		return hi
	}
	return x
}

// StepOrDefault returns step when positive, DefaultStep otherwise.
func StepOrDefault(step decimal.Decimal) decimal.Decimal {
	if step.Sign() > 0 {
		return step
	}
	return DefaultStep
}
