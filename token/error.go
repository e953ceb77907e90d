package token

import "fmt"

// ScanError reports an invalid code point encountered while scanning a
// pattern. Valid code points are {0x9, 0xA, 0xD} ∪ [0x20, 0xD7FF] ∪
// [0xE000, 0xFFFD] ∪ [0x10000, 0x10FFFF]; anything else fails the scan.
type ScanError struct {
	Pos  int
	Rune rune
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("token: invalid code point %U at position %d", e.Rune, e.Pos)
}
