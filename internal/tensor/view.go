package tensor

import (
	"runtime"
	"slices"

	"github.com/sirupsen/logrus"
)

// View is a shaped, strided window onto a shared Buffer.
//
// Element (i0, i1, ..., in) lives at buffer position
// offset + i0*stride[0] + ... + in*stride[n]. Strides may be zero or negative.
// Every reachable position is validated to lie inside the buffer whenever the
// geometry is supplied from outside.
//
// Many views may alias one buffer. Slicing operations (Select, Narrow,
// Transpose, ...) return new views over the same buffer; mutators (Set,
// Resize, Contiguous, Unique, ...) may replace the buffer in place.
//
// A View that becomes unreachable releases its buffer reference through a
// runtime cleanup. Call Release to detach deterministically.
//
// Example:
//
//	m := tensor.Must(tensor.New[float64](3, 4))
//	row := tensor.Must(m.Select(0, 1))  // aliases m
//	col := tensor.Must(m.Select(1, 2))  // aliases m, stride 4
//	col.Contiguous()                    // col now owns a fresh buffer
type View[T Element] struct {
	buf    *Buffer[T]
	shape  Shape
	stride []int
	offset int

	cleanup runtime.Cleanup
}

// newView attaches a view to buf without validating the geometry.
// shape and stride are owned by the new view.
func newView[T Element](buf *Buffer[T], shape Shape, stride []int, offset int) *View[T] {
	v := &View[T]{shape: shape, stride: stride, offset: offset}
	v.attach(buf)
	return v
}

// attach retains buf and registers the GC release.
func (v *View[T]) attach(buf *Buffer[T]) {
	v.buf = buf
	if buf == nil {
		return
	}
	buf.Retain()
	v.cleanup = runtime.AddCleanup(v, func(b *Buffer[T]) { b.drop() }, buf)
}

// detach releases the current buffer reference, if any.
func (v *View[T]) detach() {
	if v.buf == nil {
		return
	}
	v.cleanup.Stop()
	v.buf.Release()
	v.buf = nil
}

// swap replaces the buffer and geometry of v.
func (v *View[T]) swap(buf *Buffer[T], shape Shape, stride []int, offset int) {
	if buf != v.buf {
		old := v.buf
		if old != nil {
			v.cleanup.Stop()
		}
		v.attach(buf)
		if old != nil {
			old.Release()
		}
	}
	v.shape, v.stride, v.offset = shape, stride, offset
}

// Release detaches the view from its buffer and leaves it empty.
// Releasing the last reference returns the storage to its allocator.
func (v *View[T]) Release() {
	v.detach()
	v.shape, v.stride, v.offset = nil, nil, 0
}

// Empty reports whether the view has no buffer (after Move or Release).
func (v *View[T]) Empty() bool {
	return v.buf == nil
}

// Dim returns the number of dimensions.
func (v *View[T]) Dim() int {
	return len(v.shape)
}

// Shape returns a copy of the extents.
func (v *View[T]) Shape() Shape {
	return v.shape.Clone()
}

// Size returns the extent of dimension d.
func (v *View[T]) Size(d int) int {
	return v.shape[d]
}

// Stride returns a copy of the strides.
func (v *View[T]) Stride() []int {
	s := make([]int, len(v.stride))
	copy(s, v.stride)
	return s
}

// StrideAt returns the stride of dimension d.
func (v *View[T]) StrideAt(d int) int {
	return v.stride[d]
}

// Offset returns the buffer position of the first element.
func (v *View[T]) Offset() int {
	return v.offset
}

// Len returns the number of elements.
func (v *View[T]) Len() int {
	return v.shape.NumElements()
}

// Buffer returns the underlying buffer.
func (v *View[T]) Buffer() *Buffer[T] {
	return v.buf
}

// DType returns the runtime element type.
func (v *View[T]) DType() DataType {
	return DataTypeOf[T]()
}

// IsContiguous reports whether the view is in row-major layout.
func (v *View[T]) IsContiguous() bool {
	return IsContiguous(v.shape, v.stride)
}

// IsContiguousRange reports partial contiguity over dimensions [from, to).
func (v *View[T]) IsContiguousRange(from, to int) bool {
	return IsContiguousRange(v.shape, v.stride, from, to)
}

// Shared reports whether other views alias the buffer.
func (v *View[T]) Shared() bool {
	return v.buf != nil && !v.buf.Unique()
}

// SameBuffer reports whether both views alias one buffer.
func (v *View[T]) SameBuffer(other *View[T]) bool {
	return v.buf != nil && v.buf == other.buf
}

// SameGeometry reports whether both views address the same elements of one
// buffer in the same order.
func (v *View[T]) SameGeometry(other *View[T]) bool {
	return v.buf == other.buf && v.offset == other.offset &&
		v.shape.Equal(other.shape) && slices.Equal(v.stride, other.stride)
}

// Plan returns the traversal strategy for the current geometry.
func (v *View[T]) Plan() Plan {
	return PlanOf(v.shape, v.stride)
}

// position maps a coordinate to a buffer position without bounds checks.
func (v *View[T]) position(idx []int) int {
	p := v.offset
	for i, c := range idx {
		p += c * v.stride[i]
	}
	return p
}

// checkIndex validates a coordinate tuple.
func (v *View[T]) checkIndex(idx []int) error {
	if len(idx) != len(v.shape) {
		return outOfRangef("expected %d indices, got %d", len(v.shape), len(idx))
	}
	for i, c := range idx {
		if c < 0 || c >= v.shape[i] {
			return outOfRangef("index %d out of bounds for dimension %d (size %d)", c, i, v.shape[i])
		}
	}
	return nil
}

// At returns the element at the given coordinate.
//
// Example:
//
//	m := tensor.Must(tensor.New[float32](3, 4))
//	x, err := m.At(1, 2) // row 1, column 2
func (v *View[T]) At(idx ...int) (T, error) {
	if err := v.checkIndex(idx); err != nil {
		var zero T
		return zero, err
	}
	return v.buf.data[v.position(idx)], nil
}

// SetAt stores x at the given coordinate.
func (v *View[T]) SetAt(x T, idx ...int) error {
	if err := v.checkIndex(idx); err != nil {
		return err
	}
	v.buf.data[v.position(idx)] = x
	return nil
}

// Item returns the value of a single-element view.
func (v *View[T]) Item() (T, error) {
	if v.Len() != 1 {
		var zero T
		return zero, outOfRangef("item requires exactly one element, got shape %v", v.shape)
	}
	return v.buf.data[v.offset], nil
}

// Data returns the elements of a contiguous view without copying.
// Writes through the slice are visible to every aliasing view.
func (v *View[T]) Data() ([]T, error) {
	if !v.IsContiguous() {
		return nil, contiguityf("data: view %v stride %v is not contiguous", v.shape, v.stride)
	}
	return v.buf.data[v.offset : v.offset+v.Len()], nil
}

// ToSlice copies the elements into a new slice in row-major order.
func (v *View[T]) ToSlice() []T {
	out := make([]T, v.Len())
	i := 0
	forEach(v, func(p int) {
		out[i] = v.buf.data[p]
		i++
	})
	return out
}

// Share returns a new view aliasing the same buffer and geometry.
func (v *View[T]) Share() *View[T] {
	return newView(v.buf, v.shape.Clone(), v.Stride(), v.offset)
}

// Clone returns a contiguous deep copy on a fresh buffer.
func (v *View[T]) Clone() *View[T] {
	buf := NewBufferWith[T](v.Len(), v.allocator())
	dst := newView(buf, v.shape.Clone(), v.shape.ComputeStrides(), 0)
	copyElements(dst, v)
	return dst
}

// Move transfers the buffer and geometry to a new view and leaves v empty.
// The buffer reference count is unchanged.
func (v *View[T]) Move() *View[T] {
	m := &View[T]{shape: v.shape, stride: v.stride, offset: v.offset}
	if v.buf != nil {
		m.attach(v.buf)
		v.detach()
	}
	v.shape, v.stride, v.offset = nil, nil, 0
	return m
}

// Set makes v share other's buffer and geometry.
func (v *View[T]) Set(other *View[T]) {
	v.swap(other.buf, other.shape.Clone(), other.Stride(), other.offset)
}

// SetBuffer points v at buf with an explicit geometry, validating that every
// reachable position lies in the buffer.
func (v *View[T]) SetBuffer(buf *Buffer[T], offset int, shape Shape, stride []int) error {
	if buf == nil {
		return invalidArgf("set buffer: nil buffer")
	}
	if err := validateGeometry(shape, stride, offset, buf.Len()); err != nil {
		return err
	}
	st := make([]int, len(stride))
	copy(st, stride)
	v.swap(buf, shape.Clone(), st, offset)
	return nil
}

// Resize gives v a contiguous geometry of the requested shape. The buffer is
// reused when v holds it exclusively, otherwise a fresh buffer is attached.
// Element values are unspecified afterwards unless shape is unchanged.
func (v *View[T]) Resize(shape ...int) error {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return err
	}
	if v.buf != nil && s.Equal(v.shape) && v.IsContiguous() {
		return nil
	}
	n := s.NumElements()
	if v.buf != nil && v.buf.Unique() {
		v.buf.Resize(n)
		v.shape, v.stride, v.offset = s.Clone(), s.ComputeStrides(), 0
		return nil
	}
	v.swap(NewBufferWith[T](n, v.allocator()), s.Clone(), s.ComputeStrides(), 0)
	return nil
}

// ResizeAs resizes v to the shape of other.
func (v *View[T]) ResizeAs(other *View[T]) error {
	return v.Resize(other.shape...)
}

// Squeeze removes every dimension of extent 1. A view of all ones keeps a
// single dimension.
func (v *View[T]) Squeeze() {
	shape := make(Shape, 0, len(v.shape))
	stride := make([]int, 0, len(v.stride))
	for i, d := range v.shape {
		if d != 1 {
			shape = append(shape, d)
			stride = append(stride, v.stride[i])
		}
	}
	if len(shape) == 0 {
		shape, stride = Shape{1}, []int{1}
	}
	v.shape, v.stride = shape, stride
}

// SqueezeDim removes dimension d if its extent is 1 and the view has more
// than one dimension.
func (v *View[T]) SqueezeDim(d int) error {
	if d < 0 || d >= len(v.shape) {
		return outOfRangef("squeeze: dimension %d out of range for %d-D view", d, len(v.shape))
	}
	if v.shape[d] != 1 || len(v.shape) == 1 {
		return nil
	}
	v.shape = v.shape.without(d)
	v.stride = append(v.stride[:d:d], v.stride[d+1:]...)
	return nil
}

// Contiguous compacts v into row-major layout. It is a no-op when v is
// already contiguous; otherwise the elements are copied into a fresh buffer
// that replaces the current one.
func (v *View[T]) Contiguous() {
	if v.buf == nil || v.IsContiguous() {
		return
	}
	v.materialize("contiguous")
}

// Unique isolates v from every aliasing view. It is a no-op when v already
// holds its buffer exclusively; otherwise the elements are copied into a
// fresh contiguous buffer.
func (v *View[T]) Unique() {
	if v.buf == nil || v.buf.Unique() {
		return
	}
	v.materialize("unique")
}

func (v *View[T]) materialize(op string) {
	logrus.WithFields(logrus.Fields{
		"op":     op,
		"shape":  v.shape.String(),
		"stride": v.stride,
		"refs":   v.buf.RefCount(),
	}).Debug("materializing view into a fresh buffer")

	c := v.Clone()
	v.swap(c.buf, c.shape, c.stride, 0)
	c.Release()
}

func (v *View[T]) allocator() Allocator[T] {
	if v.buf == nil {
		return HeapAllocator[T]{}
	}
	return v.buf.alloc
}

// requireView returns ErrInvalidArgument for nil or empty views.
func requireView[T Element](op string, views ...*View[T]) error {
	for _, v := range views {
		if v == nil || v.buf == nil {
			return invalidArgf("%s: empty view", op)
		}
	}
	return nil
}

// checkDim validates a dimension index.
func (v *View[T]) checkDim(op string, d int) error {
	if d < 0 || d >= len(v.shape) {
		return outOfRangef("%s: dimension %d out of range for %d-D view", op, d, len(v.shape))
	}
	return nil
}
