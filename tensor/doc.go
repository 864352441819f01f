// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided N-dimensional views over shared,
// reference-counted buffers.
//
// # Overview
//
// A View addresses element (i0, ..., in) of its Buffer at
// offset + i0*stride[0] + ... + in*stride[n]. This package provides:
//   - Zero-copy slicing: Select, Narrow, Transpose, Permute, Unfold, Diag
//   - Reshape without copying whenever the layout allows it
//   - Elementwise, comparison and reduction algorithms over any geometry
//   - Quicksort along a dimension with permutation indices
//   - BLAS-backed linear algebra through a pluggable Backend
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/strided/tensor"
//	)
//
//	func main() {
//	    m := tensor.Must(tensor.Arange[float64](12))
//	    g := tensor.Must(m.View(3, 4))
//
//	    col := tensor.Must(g.Select(1, 2)) // [2, 6, 10], stride 4
//	    _ = tensor.Fill(col, 0)            // writes through to g
//
//	    sums := tensor.Must(tensor.SumDim(g, 1)) // (3, 1)
//	}
//
// # Supported Data Types
//
// Views hold one of the Element types:
//   - int8, int16, int32, int64, uint8 (integers)
//   - float32, float64 (floating-point)
//   - complex64, complex128 (unordered: sorting, Max/Min and ordering
//     comparisons fail with ErrDomain)
//
// # Memory Management
//
// Buffers count the views attached to them. Releasing the last view returns
// the storage to the buffer's Allocator; views that become unreachable are
// detached by the garbage collector. Use PoolAllocator to recycle storage for
// temporary-heavy workloads.
//
// # Errors
//
// Every failure matches exactly one of ErrInvalidArgument, ErrOutOfRange,
// ErrContiguity, ErrDomain or ErrLength via errors.Is.
package tensor
