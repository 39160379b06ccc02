// Package safe provides overflow-checked integer conversion and arithmetic.
package safe

import (
	"fmt"
	"math"
	"math/bits"
)

// Integer is the set of integer kinds accepted by the conversions.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Uint32 narrows v to uint32, rejecting negative and oversized values.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Add returns a+b and reports whether the sum fits in 64 bits.
func Add(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// AlignUp rounds v up to a multiple of align, a power of two.
// It reports false when the result does not fit in 64 bits.
func AlignUp(v, align uint64) (uint64, bool) {
	sum, ok := Add(v, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}
