// Package conv provides safe integer conversion helpers used throughout the
// engine (state ids, group ids, counter values all live in small ints but
// are passed across arena boundaries as fixed-width types).
//
// These functions perform bounds checking before narrowing integer
// conversions to prevent silent overflow. They panic on overflow since
// this indicates a programming error (e.g. a pattern compiled to more
// states than the arena's index type can represent).
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("btregex/internal/conv: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts a uint32 back to an int.
// Panics on 32-bit platforms where the value would overflow int.
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("btregex/internal/conv: uint32 value out of int range")
	}
	return int(n)
}

// IntToUint16 safely converts an int to uint16.
// Panics if n < 0 or n > math.MaxUint16.
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("btregex/internal/conv: int value out of uint16 range")
	}
	return uint16(n)
}
