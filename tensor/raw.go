// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/strided/internal/tensor"
)

// Buffer is the flat, reference-counted storage behind views.
//
// Buffer provides:
//   - Unchecked element access via At, Set and Data
//   - Reference counting via Retain, Release and RefCount
//   - Pluggable allocation via Allocator
//
// Most users should work with View instead; views retain and release their
// buffer automatically.
//
// Example:
//
//	buf := tensor.NewBuffer[float32](6)
//	m, _ := tensor.NewFromBuffer(buf, 0, tensor.Shape{2, 3}, []int{3, 1})
//	buf.RefCount() // 1
type Buffer[T Element] = tensor.Buffer[T]

// Allocator obtains and recycles buffer storage.
type Allocator[T Element] = tensor.Allocator[T]

// HeapAllocator allocates from the Go heap.
type HeapAllocator[T Element] = tensor.HeapAllocator[T]

// PoolAllocator recycles storage through power-of-two buckets.
type PoolAllocator[T Element] = tensor.PoolAllocator[T]

// PoolStats reports pool hits and misses.
type PoolStats = tensor.PoolStats

// NewBuffer creates a zeroed heap buffer of n elements.
func NewBuffer[T Element](n int) *Buffer[T] {
	return tensor.NewBuffer[T](n)
}

// NewBufferWith creates a zeroed buffer of n elements obtained from alloc.
func NewBufferWith[T Element](n int, alloc Allocator[T]) *Buffer[T] {
	return tensor.NewBufferWith(n, alloc)
}

// WrapBuffer adopts data without copying.
func WrapBuffer[T Element](data []T) *Buffer[T] {
	return tensor.WrapBuffer(data)
}

// NewPoolAllocator creates an empty pool.
func NewPoolAllocator[T Element]() *PoolAllocator[T] {
	return tensor.NewPoolAllocator[T]()
}
