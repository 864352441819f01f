package tensor

import "sync"

// Index walks the coordinate tuples of a shape in row-major order (last
// dimension fastest). After the last coordinate it rests on the canonical
// sentinel [shape[0], 0, ..., 0]; advancing further is undefined.
type Index struct {
	shape Shape
	coord []int
}

// NewIndex returns an iterator positioned on the first coordinate of shape.
func NewIndex(shape Shape) *Index {
	return &Index{
		shape: shape.Clone(),
		coord: make([]int, len(shape)),
	}
}

// EndIndex returns an iterator positioned on the sentinel of shape.
func EndIndex(shape Shape) *Index {
	it := NewIndex(shape)
	it.coord[0] = shape[0]
	return it
}

// Shape returns the iterated shape.
func (it *Index) Shape() Shape {
	return it.shape
}

// Coord returns the current coordinate. The slice is owned by the iterator.
func (it *Index) Coord() []int {
	return it.coord
}

// Done reports whether the iterator reached the sentinel.
func (it *Index) Done() bool {
	return len(it.coord) == 0 || it.coord[0] >= it.shape[0]
}

// Next advances to the following coordinate, carrying into outer dimensions.
func (it *Index) Next() {
	for d := len(it.coord) - 1; d >= 0; d-- {
		it.coord[d]++
		if it.coord[d] < it.shape[d] || d == 0 {
			return
		}
		it.coord[d] = 0
	}
}

// Reset rewinds the iterator to the first coordinate.
func (it *Index) Reset() {
	clear(it.coord)
}

// Equal reports whether both iterators walk the same shape and sit on the
// same coordinate.
func (it *Index) Equal(other *Index) bool {
	if other == nil || !it.shape.Equal(other.shape) {
		return false
	}
	for i := range it.coord {
		if it.coord[i] != other.coord[i] {
			return false
		}
	}
	return true
}

// Offset maps the current coordinate to a buffer position.
func (it *Index) Offset(stride []int, base int) int {
	off := base
	for i, c := range it.coord {
		off += c * stride[i]
	}
	return off
}

// Linear returns the row-major position of the current coordinate.
func (it *Index) Linear() int {
	n := 0
	for i, c := range it.coord {
		n = n*it.shape[i] + c
	}
	return n
}

// unravel writes the coordinate of linear position n into coord.
func unravel(n int, shape Shape, coord []int) {
	for d := len(shape) - 1; d >= 0; d-- {
		coord[d] = n % shape[d]
		n /= shape[d]
	}
}

// Pools are indexed by rank; ranks beyond maxPooledRank are allocated.
const maxPooledRank = 8

var indexPools [maxPooledRank + 1]sync.Pool

// getIndex returns a pooled iterator positioned on the first coordinate of
// shape. The caller must call putIndex when done.
func getIndex(shape Shape) *Index {
	rank := len(shape)
	if rank > maxPooledRank {
		return NewIndex(shape)
	}
	if v := indexPools[rank].Get(); v != nil {
		it := v.(*Index)
		copy(it.shape, shape)
		clear(it.coord)
		return it
	}
	return NewIndex(shape)
}

// putIndex returns an iterator to its pool.
func putIndex(it *Index) {
	rank := len(it.coord)
	if rank <= maxPooledRank {
		indexPools[rank].Put(it)
	}
}
