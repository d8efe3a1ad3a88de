package utils

import (
	"math"
	"math/big"
)

// Clamp clamps a value between min and max
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Round rounds a float64 to the specified number of decimal places. It works
// on the exact binary value, so 0.15 (stored just below 0.15) rounds to 0.1,
// and exact halves round away from zero.
func Round(value float64, decimals int) float64 {
	if decimals < 0 || decimals > 22 || math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= 1e21 {
		return value
	}
	multiplier := math.Pow(10, float64(decimals))

	// value*multiplier and the added half are exact at this precision.
	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(value))
	scaled.Mul(scaled, new(big.Float).SetFloat64(multiplier))
	scaled.Add(scaled, big.NewFloat(0.5))
	n, _ := scaled.Int(nil)

	rounded, _ := new(big.Float).SetInt(n).Float64()
	rounded /= multiplier
	if value < 0 {
		return -rounded
	}
	return rounded
}
