// Package buf contains overflow-checked size arithmetic shared by the
// allocators and the virtual memory backend.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative sizes, returning ok = false
// when the product would overflow int or either operand is negative.
// This guards count * elemSize in zeroed allocations.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// AlignUp rounds n up to the next multiple of align. ok is false when align
// is not a power of two or rounding would overflow int.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align int) (int, bool) {
	if !IsPow2(align) {
		return 0, false
	}
	mask := align - 1
	sum, ok := AddOverflowSafe(n, mask)
	if !ok {
		return 0, false
	}
	return sum &^ mask, true
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// CheckRange validates that a region of size bytes starting at off fits in
// a buffer of length bufLen. It returns the end offset, or an error
// describing the overflow or bounds failure.
func CheckRange(bufLen, off, size int) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset: %d", off)
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size: %d", size)
	}
	end, ok := AddOverflowSafe(off, size)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", off, size)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}
