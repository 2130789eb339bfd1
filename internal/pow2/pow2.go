// Package pow2 provides power-of-two helpers used for canvas sizing and
// mipmap level derivation.
package pow2

import (
	"math"
	"math/bits"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Next returns the smallest power of two >= n.
// Non-positive inputs return 1.
func Next(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Log2 returns the base-2 logarithm of n.
func Log2(n int) float64 {
	return math.Log2(float64(n))
}

// FloorLog2 returns floor(log2(n)) for n > 0, and 0 otherwise.
func FloorLog2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}
