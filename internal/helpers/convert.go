// Package helpers provides clamped numeric conversions for wire fields.
//
// Lengths and counts are computed as int but written into fixed-width
// header fields; these helpers saturate instead of wrapping.
package helpers

import (
	"cmp"
	"math"
)

// Clamp restricts v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	return Clamp(v, lowerLimit, upperLimit)
}

// ClampIntToUint16 saturates v into a 16-bit length or count field.
func ClampIntToUint16(v int) uint16 {
	return uint16(Clamp(v, 0, math.MaxUint16)) //nolint:gosec // clamped to valid range
}

// ClampUint32ToUint8 saturates v into an 8-bit field such as the EDNS
// version.
func ClampUint32ToUint8(v uint32) uint8 {
	return uint8(min(v, math.MaxUint8))
}
