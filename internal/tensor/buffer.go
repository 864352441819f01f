package tensor

import "sync/atomic"

// Buffer is a flat, reference-counted allocation of a single element type.
//
// The reference count tracks how many Views are attached to the buffer.
// A freshly created buffer has no references; attaching a View retains it
// and releasing the last View returns the storage to its Allocator.
//
// Element access is unchecked: bounds belong to the View layer.
// Buffers carry no internal locking. Concurrent mutation through aliasing
// Views must be synchronized by the caller, typically keyed on Unique.
type Buffer[T Element] struct {
	data  []T
	refs  atomic.Int32
	alloc Allocator[T]
}

// NewBuffer creates a zeroed buffer of n elements on the heap.
func NewBuffer[T Element](n int) *Buffer[T] {
	return NewBufferWith[T](n, HeapAllocator[T]{})
}

// NewBufferWith creates a zeroed buffer of n elements obtained from alloc.
func NewBufferWith[T Element](n int, alloc Allocator[T]) *Buffer[T] {
	if n < 0 {
		panic("tensor: negative buffer size")
	}
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}
	b := &Buffer[T]{alloc: alloc}
	if n > 0 {
		b.data = alloc.Allocate(n)
	}
	return b
}

// NewBufferFilled creates a buffer of n elements all set to v.
func NewBufferFilled[T Element](n int, v T) *Buffer[T] {
	b := NewBuffer[T](n)
	for i := range b.data {
		b.data[i] = v
	}
	return b
}

// WrapBuffer adopts data without copying. The caller must not retain data
// for other purposes.
func WrapBuffer[T Element](data []T) *Buffer[T] {
	b := &Buffer[T]{alloc: HeapAllocator[T]{}}
	if len(data) > 0 {
		b.data = data
	}
	return b
}

// CastBuffer builds a new buffer with the size of src, converting every
// element from S to D.
func CastBuffer[D, S Element](src *Buffer[S]) *Buffer[D] {
	dst := NewBuffer[D](src.Len())
	cast := castFunc[D, S]()
	for i, x := range src.data {
		dst.data[i] = cast(x)
	}
	return dst
}

// Clone returns a deep copy using the same allocator.
func (b *Buffer[T]) Clone() *Buffer[T] {
	c := NewBufferWith[T](len(b.data), b.alloc)
	copy(c.data, b.data)
	return c
}

// Move transfers the allocation to a new buffer and leaves b empty.
// The reference count stays with b.
func (b *Buffer[T]) Move() *Buffer[T] {
	m := &Buffer[T]{data: b.data, alloc: b.alloc}
	b.data = nil
	return m
}

// Resize reallocates to n elements when the size differs. Contents are not
// preserved: the new allocation is zeroed.
func (b *Buffer[T]) Resize(n int) {
	if n < 0 {
		panic("tensor: negative buffer size")
	}
	if n == len(b.data) {
		return
	}
	if b.data != nil {
		b.alloc.Free(b.data)
		b.data = nil
	}
	if n > 0 {
		b.data = b.alloc.Allocate(n)
	}
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// At returns element i without bounds checks beyond Go's own.
func (b *Buffer[T]) At(i int) T {
	return b.data[i]
}

// Set stores v at position i.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[i] = v
}

// Data exposes the underlying storage.
// WARNING: the slice aliases every View attached to the buffer.
func (b *Buffer[T]) Data() []T {
	return b.data
}

// DType returns the runtime element type.
func (b *Buffer[T]) DType() DataType {
	return DataTypeOf[T]()
}

// Allocator returns the allocation strategy of the buffer.
func (b *Buffer[T]) Allocator() Allocator[T] {
	return b.alloc
}

// Retain adds a reference.
func (b *Buffer[T]) Retain() {
	b.refs.Add(1)
}

// Release drops a reference. Releasing the last one returns the storage to
// the allocator and leaves the buffer empty.
func (b *Buffer[T]) Release() {
	if b.refs.Add(-1) == 0 {
		if b.data != nil {
			b.alloc.Free(b.data)
		}
		b.data = nil
	}
}

// drop is Release for views collected by the GC. The storage is left to the
// GC rather than recycled: slices obtained from the buffer may still be live
// in a caller that no longer references the View.
func (b *Buffer[T]) drop() {
	b.refs.Add(-1)
}

// RefCount returns the number of attached references.
func (b *Buffer[T]) RefCount() int {
	return int(b.refs.Load())
}

// Unique reports whether exactly one reference is attached.
func (b *Buffer[T]) Unique() bool {
	return b.refs.Load() == 1
}
