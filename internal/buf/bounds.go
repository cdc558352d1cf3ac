// Package buf contains overflow-checked arithmetic and bounds-checked
// slicing for arena offsets.
package buf

import (
	"fmt"
	"math"
)

// AddU64 adds a and b, returning ok = false when the result would overflow.
func AddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// FromInt converts a non-negative int to uint64, returning ok = false for
// negative input.
func FromInt(n int) (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// CheckRange validates that [off, off+n) lies within a region of length
// limit. Returns the end offset if valid, or an error describing the
// specific failure (overflow or out of bounds).
//
//	end, err := buf.CheckRange(uint64(len(mem)), off, size)
//	if err != nil {
//	    return fmt.Errorf("block: %w", err)
//	}
func CheckRange(limit, off, n uint64) (uint64, error) {
	end, ok := AddU64(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", off, n)
	}
	if end > limit {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, limit)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n uint64) ([]byte, bool) {
	end, err := CheckRange(uint64(len(b)), off, n)
	if err != nil {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n uint64) bool {
	_, ok := Slice(b, off, n)
	return ok
}
