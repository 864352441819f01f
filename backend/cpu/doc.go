// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go BLAS backend for tensor views.
//
// # Overview
//
// This package implements tensor.Backend with:
//   - Pure Go implementation (no CGO) on top of gonum's BLAS
//   - float32, float64, complex64 and complex128 support
//   - Level 1 (Dot, Axpy, Scal), level 2 (Gemv, Ger) and level 3 (Gemm)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/strided/backend/cpu"
//	    "github.com/born-ml/strided/tensor"
//	)
//
//	func main() {
//	    be := cpu.Float64{}
//
//	    a := tensor.Must(tensor.Ones[float64](2, 3))
//	    b := tensor.Must(tensor.Ones[float64](3, 4))
//	    c := tensor.Must(tensor.Mm(be, a, b)) // (2, 4), every element 3
//
//	    // Transposed operands are passed to BLAS without copying.
//	    ct := tensor.Must(c.T())
//	    d := tensor.Must(tensor.Mm(be, ct, a)) // (4, 3)
//	}
//
// # Thread Safety
//
// The backends are stateless and safe for concurrent use. Callers must not
// write to the same destination view from several goroutines.
package cpu
