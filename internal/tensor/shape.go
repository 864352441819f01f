package tensor

import (
	"fmt"
	"iter"
	"strings"
)

// Shape represents the extents of a view, outermost dimension first.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape has at least one dimension and that every
// extent is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return invalidArgf("empty shape")
	}
	for i, dim := range s {
		if dim <= 0 {
			return invalidArgf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] = product of all extents after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String renders the shape as "(a, b, c)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Coords yields every coordinate tuple of the shape in row-major order.
// The yielded slice is reused between iterations; copy it to retain it.
func (s Shape) Coords() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if s.NumElements() == 0 {
			return
		}
		for it := NewIndex(s); !it.Done(); it.Next() {
			if !yield(it.Coord()) {
				return
			}
		}
	}
}

// Linear yields the linear positions 0..NumElements()-1.
func (s Shape) Linear() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := s.NumElements()
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// without returns a copy of the shape with dimension dim removed.
func (s Shape) without(dim int) Shape {
	out := make(Shape, 0, len(s)-1)
	out = append(out, s[:dim]...)
	return append(out, s[dim+1:]...)
}

// product multiplies the extents in [from, to).
func (s Shape) product(from, to int) int {
	n := 1
	for i := from; i < to; i++ {
		n *= s[i]
	}
	return n
}

// IsContiguous reports whether shape/stride describe a row-major ("C")
// layout: the last stride is 1 and each preceding stride equals the next
// stride times the next extent.
func IsContiguous(shape Shape, stride []int) bool {
	if len(shape) == 0 || stride[len(stride)-1] != 1 {
		return false
	}
	return IsContiguousRange(shape, stride, 0, len(shape))
}

// IsContiguousRange reports whether dimensions [from, to) chain into a single
// flat stride. The flat step is stride[to-1], which need not be 1.
func IsContiguousRange(shape Shape, stride []int, from, to int) bool {
	if from < 0 || to > len(shape) || from >= to {
		return false
	}
	for i := from; i < to-1; i++ {
		if stride[i] != stride[i+1]*shape[i+1] {
			return false
		}
	}
	return true
}

// reach returns the minimum and maximum buffer positions addressed by a view
// with the given geometry.
func reach(shape Shape, stride []int, offset int) (lo, hi int) {
	lo, hi = offset, offset
	for i, extent := range shape {
		span := (extent - 1) * stride[i]
		if span > 0 {
			hi += span
		} else {
			lo += span
		}
	}
	return lo, hi
}

// validateGeometry checks shape/stride consistency and that every reachable
// position lies in [0, size).
func validateGeometry(shape Shape, stride []int, offset, size int) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if len(stride) != len(shape) {
		return invalidArgf("stride has %d entries, shape has %d", len(stride), len(shape))
	}
	lo, hi := reach(shape, stride, offset)
	if lo < 0 || hi >= size {
		return outOfRangef("view %v stride %v offset %d reaches [%d, %d], buffer size %d",
			shape, stride, offset, lo, hi, size)
	}
	return nil
}
