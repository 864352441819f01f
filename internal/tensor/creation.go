package tensor

// New creates a zero-filled contiguous view of the given shape.
//
// Example:
//
//	m, err := tensor.New[float32](3, 4)
func New[T Element](shape ...int) (*View[T], error) {
	return NewWith[T](HeapAllocator[T]{}, shape...)
}

// NewWith is New with an explicit allocator for the backing buffer.
func NewWith[T Element](alloc Allocator[T], shape ...int) (*View[T], error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return newContiguous(s, alloc), nil
}

// Zeros creates a zero-filled contiguous view.
func Zeros[T Element](shape ...int) (*View[T], error) {
	return New[T](shape...)
}

// Ones creates a contiguous view filled with one.
func Ones[T Element](shape ...int) (*View[T], error) {
	return Full(Shape(shape), CapabilitiesOf[T]().FromInt(1))
}

// Full creates a contiguous view filled with x.
//
// Example:
//
//	t, err := tensor.Full(tensor.Shape{3, 3}, 3.14)
func Full[T Element](shape Shape, x T) (*View[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	buf := NewBufferFilled(shape.NumElements(), x)
	return newView(buf, shape.Clone(), shape.ComputeStrides(), 0), nil
}

// FromSlice creates a contiguous view holding a copy of data.
func FromSlice[T Element](data []T, shape ...int) (*View[T], error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(data) {
		return nil, invalidArgf("shape %v requires %d elements, got %d", s, s.NumElements(), len(data))
	}
	v := newContiguous(s, HeapAllocator[T]{})
	copy(v.buf.data, data)
	return v, nil
}

// Arange creates the 1-D view [0, 1, ..., n-1].
func Arange[T Element](n int) (*View[T], error) {
	v, err := New[T](n)
	if err != nil {
		return nil, err
	}
	c := CapabilitiesOf[T]()
	for i := range v.buf.data {
		v.buf.data[i] = c.FromInt(int64(i))
	}
	return v, nil
}

// NewStrided creates a view with an explicit stride over a fresh buffer sized
// to cover every reachable position. Negative strides shift the offset so the
// lowest reachable position is 0.
func NewStrided[T Element](shape Shape, stride []int) (*View[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(stride) != len(shape) {
		return nil, invalidArgf("stride has %d entries, shape has %d", len(stride), len(shape))
	}
	lo, hi := reach(shape, stride, 0)
	buf := NewBuffer[T](hi - lo + 1)
	st := make([]int, len(stride))
	copy(st, stride)
	return newView(buf, shape.Clone(), st, -lo), nil
}

// NewFromBuffer creates a view over an existing buffer. Every reachable
// position offset + sum(i[d]*stride[d]) must lie in [0, buf.Len()).
//
// Errors:
//   - ErrInvalidArgument: nil buffer, empty or zero-containing shape,
//     stride/shape length mismatch
//   - ErrOutOfRange: a reachable position falls outside the buffer
func NewFromBuffer[T Element](buf *Buffer[T], offset int, shape Shape, stride []int) (*View[T], error) {
	if buf == nil {
		return nil, invalidArgf("nil buffer")
	}
	if err := validateGeometry(shape, stride, offset, buf.Len()); err != nil {
		return nil, err
	}
	st := make([]int, len(stride))
	copy(st, stride)
	return newView(buf, shape.Clone(), st, offset), nil
}

// NewLike creates a zero-filled contiguous view with the shape of like.
func NewLike[T, U Element](like *View[U]) (*View[T], error) {
	if err := requireView("new like", like); err != nil {
		return nil, err
	}
	return newContiguous[T](like.shape, HeapAllocator[T]{}), nil
}

// newContiguous allocates a contiguous view without validating shape.
func newContiguous[T Element](shape Shape, alloc Allocator[T]) *View[T] {
	buf := NewBufferWith[T](shape.NumElements(), alloc)
	return newView(buf, shape.Clone(), shape.ComputeStrides(), 0)
}
