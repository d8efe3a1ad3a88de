package utils

import "math"

// RandSource is a seedable Mulberry32 generator.
//
// It is not safe for concurrent use. Each generation run owns one source and
// threads it through every step, so the order of draws is part of the output.
type RandSource struct {
	state uint32
}

// NewRandSource creates a random source from the low 32 bits of seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{state: uint32(seed)}
}

func (r *RandSource) next() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	z := (t ^ (t >> 15)) * (1 | t)
	z ^= z + (z^(z>>7))*(61|z)
	return z ^ (z >> 14)
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return float64(r.next()) / 4294967296.0
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(r.Float64() * float64(n)))
}

// IntRange returns a uniformly distributed int in [min, max], both inclusive.
func (r *RandSource) IntRange(min, max int) int {
	return int(math.Floor(r.Float64()*float64(max-min+1))) + min
}

// UniformFloat64 returns a uniformly distributed random number in [min, max)
func (r *RandSource) UniformFloat64(min, max float64) float64 {
	// The conversion keeps the product from being fused into an FMA, which
	// would make output differ across architectures.
	return min + float64(r.Float64()*(max-min))
}

// RoundedRange returns UniformFloat64(min, max) rounded to decimals places.
func (r *RandSource) RoundedRange(min, max float64, decimals int) float64 {
	return Round(r.UniformFloat64(min, max), decimals)
}

// WeightedIndex draws one value scaled by the total weight and returns the
// first index whose cumulative weight reaches it. The last index is returned
// if rounding leaves the target above every cumulative sum. It returns -1
// without drawing when weights is empty.
func (r *RandSource) WeightedIndex(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	target := r.Float64() * Sum(weights)
	c := 0.0
	for i, w := range weights {
		c += w
		if target <= c {
			return i
		}
	}
	return len(weights) - 1
}

// PickDistinct shuffles the indexes [0, n) with Fisher-Yates and returns the
// first k. The whole range is always shuffled, so it consumes n-1 draws
// regardless of k.
func (r *RandSource) PickDistinct(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:Clamp(k, 0, n)]
}
