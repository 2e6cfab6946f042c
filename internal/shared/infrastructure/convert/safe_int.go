// Package convert narrows integers taken from configuration and queries
// without silent wrap-around.
package convert

import "math"

// ClampInt32 converts v to int32, saturating at the int32 bounds.
func ClampInt32(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// ClampUint64 converts v to uint64. Negative values become 0.
func ClampUint64(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
