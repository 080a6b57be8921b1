package engine

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to 2 decimal places on the shortest
// decimal form of v, so 2.675 becomes 2.68.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// safeDiv returns 0 when the divisor is zero.
func safeDiv(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
