// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/strided/internal/tensor"
)

// Type aliases for public API

// Element is a constraint for view element types.
// Supported types: int8, int16, int32, int64, uint8, float32, float64,
// complex64, complex128.
type Element = tensor.Element

// DataType represents the runtime element type of a buffer or view.
type DataType = tensor.DataType

// Data type constants.
const (
	Int8       DataType = tensor.Int8
	Int16      DataType = tensor.Int16
	Int32      DataType = tensor.Int32
	Int64      DataType = tensor.Int64
	Uint8      DataType = tensor.Uint8
	Float32    DataType = tensor.Float32
	Float64    DataType = tensor.Float64
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
)

// Shape represents the extents of a view.
// Example: Shape{2, 3, 4} represents a 3D view with dimensions 2×3×4.
type Shape = tensor.Shape

// View is a shaped, strided window onto a shared Buffer.
//
// Slicing methods (Select, Narrow, Transpose, Permute, Unfold, Diag, ...)
// return views over the same buffer; writes through any of them are visible
// through all of them. Clone, Contiguous and Unique copy.
//
// Example:
//
//	m := tensor.Must(tensor.Zeros[float64](3, 4))
//	row := tensor.Must(m.Select(0, 1)) // aliases m
//	t := tensor.Must(m.T())            // aliases m, stride (1, 4)
type View[T Element] = tensor.View[T]

// Index walks the coordinates of a shape in row-major order.
type Index = tensor.Index

// Plan is the traversal strategy derived from a geometry.
type Plan = tensor.Plan

// Comparison selects the predicate of Compare and CompareScalar.
type Comparison = tensor.Comparison

// Comparison predicates.
const (
	LT = tensor.LT
	LE = tensor.LE
	GT = tensor.GT
	GE = tensor.GE
	EQ = tensor.EQ
	NE = tensor.NE
)

// Errors returned by every operation. Match them with errors.Is.
var (
	ErrInvalidArgument = tensor.ErrInvalidArgument
	ErrOutOfRange      = tensor.ErrOutOfRange
	ErrContiguity      = tensor.ErrContiguity
	ErrDomain          = tensor.ErrDomain
	ErrLength          = tensor.ErrLength
)

// Must panics if err is non-nil and returns v otherwise.
func Must[V any](v V, err error) V {
	return tensor.Must(v, err)
}

// DataTypeOf returns the DataType of T.
func DataTypeOf[T Element]() DataType {
	return tensor.DataTypeOf[T]()
}

// ParseDataType converts a name such as "float32" to a DataType.
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// Creation functions

// New creates a zero-filled contiguous view.
//
// Example:
//
//	m, err := tensor.New[float32](3, 4)
func New[T Element](shape ...int) (*View[T], error) {
	return tensor.New[T](shape...)
}

// NewWith creates a zero-filled contiguous view backed by alloc.
func NewWith[T Element](alloc Allocator[T], shape ...int) (*View[T], error) {
	return tensor.NewWith[T](alloc, shape...)
}

// Zeros creates a zero-filled contiguous view.
func Zeros[T Element](shape ...int) (*View[T], error) {
	return tensor.Zeros[T](shape...)
}

// Ones creates a contiguous view filled with one.
func Ones[T Element](shape ...int) (*View[T], error) {
	return tensor.Ones[T](shape...)
}

// Full creates a contiguous view filled with x.
//
// Example:
//
//	x, err := tensor.Full(tensor.Shape{2, 3}, 3.14)
func Full[T Element](shape Shape, x T) (*View[T], error) {
	return tensor.Full(shape, x)
}

// FromSlice creates a contiguous view holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
func FromSlice[T Element](data []T, shape ...int) (*View[T], error) {
	return tensor.FromSlice(data, shape...)
}

// Arange creates the 1D view [0, 1, ..., n-1].
func Arange[T Element](n int) (*View[T], error) {
	return tensor.Arange[T](n)
}

// NewStrided creates a view with an explicit stride over a fresh buffer.
func NewStrided[T Element](shape Shape, stride []int) (*View[T], error) {
	return tensor.NewStrided[T](shape, stride)
}

// NewFromBuffer creates a view over an existing buffer. Geometry that
// reaches outside the buffer fails with ErrOutOfRange.
//
// Example:
//
//	buf := tensor.NewBuffer[float64](12)
//	m, err := tensor.NewFromBuffer(buf, 0, tensor.Shape{3, 4}, []int{4, 1})
//	t, err := tensor.NewFromBuffer(buf, 0, tensor.Shape{4, 3}, []int{1, 4})
func NewFromBuffer[T Element](buf *Buffer[T], offset int, shape Shape, stride []int) (*View[T], error) {
	return tensor.NewFromBuffer(buf, offset, shape, stride)
}

// NewLike creates a zero-filled contiguous view with the shape of like.
func NewLike[T, U Element](like *View[U]) (*View[T], error) {
	return tensor.NewLike[T](like)
}

// Convert returns a copy of src with elements cast to D. Layout is kept.
func Convert[D, S Element](src *View[S]) (*View[D], error) {
	return tensor.Convert[D](src)
}

// CopyCast copies src into dst, casting each element.
func CopyCast[D, S Element](dst *View[D], src *View[S]) error {
	return tensor.CopyCast(dst, src)
}

// Manipulation functions

// Cat concatenates a and b along dim into a new buffer.
//
// Example:
//
//	a := tensor.Must(tensor.Ones[float32](3, 4))
//	b := tensor.Must(tensor.Zeros[float32](5, 4))
//	c, err := tensor.Cat(a, b, 0) // Shape: (8, 4)
func Cat[T Element](a, b *View[T], dim int) (*View[T], error) {
	return tensor.Cat(a, b, dim)
}

// CatAll concatenates views along dim into a new buffer.
func CatAll[T Element](views []*View[T], dim int) (*View[T], error) {
	return tensor.CatAll(views, dim)
}

// Gather collects src values along dim at the positions given by index.
func Gather[T Element](src *View[T], dim int, index *View[int64]) (*View[T], error) {
	return tensor.Gather(src, dim, index)
}

// IndexSelect returns the entries of src at indices along dim.
func IndexSelect[T Element](src *View[T], dim int, indices *View[int64]) (*View[T], error) {
	return tensor.IndexSelect(src, dim, indices)
}

// Equal reports whether a and b have the same shape and elements.
func Equal[T Element](a, b *View[T]) bool {
	return tensor.Equal(a, b)
}

// Utility functions

// IsContiguous reports whether shape/stride describe a row-major layout.
func IsContiguous(shape Shape, stride []int) bool {
	return tensor.IsContiguous(shape, stride)
}

// NewIndex returns an iterator positioned on the first coordinate of shape.
func NewIndex(shape Shape) *Index {
	return tensor.NewIndex(shape)
}

// PlanOf derives the traversal strategy of a geometry.
func PlanOf(shape Shape, stride []int) Plan {
	return tensor.PlanOf(shape, stride)
}
