package nio

import "golang.org/x/exp/constraints"

// Roundup rounds n up to the nearest multiple of align, which must be a power of two.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// GrowCapacity returns the capacity a buffer holding n elements should be
// reallocated to when it runs out of space: at least double, at least min,
// rounded up to a multiple of 16.
func GrowCapacity[T constraints.Integer](n, min T) T {
	c := 2*n + 1
	if c < min {
		c = min
	}
	return Roundup(c, 16)
}
