// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/strided/internal/backend/cpu"
	"github.com/born-ml/strided/tensor"
)

// Name identifies the backend in logs and the CLI.
const Name = internalcpu.Name

// Float32 routes float32 BLAS calls to gonum.
type Float32 = internalcpu.Float32

// Float64 routes float64 BLAS calls to gonum.
type Float64 = internalcpu.Float64

// Complex64 routes complex64 BLAS calls to gonum.
type Complex64 = internalcpu.Complex64

// Complex128 routes complex128 BLAS calls to gonum.
type Complex128 = internalcpu.Complex128

// Compile-time checks that the backends implement tensor.Backend.
var (
	_ tensor.Backend[float32]    = Float32{}
	_ tensor.Backend[float64]    = Float64{}
	_ tensor.Backend[complex64]  = Complex64{}
	_ tensor.Backend[complex128] = Complex128{}
)

// For returns the backend for T. Integer element types have no BLAS
// routines and fail with tensor.ErrDomain.
//
// Example:
//
//	import (
//	    "github.com/born-ml/strided/backend/cpu"
//	    "github.com/born-ml/strided/tensor"
//	)
//
//	func main() {
//	    be, err := cpu.For[float32]()
//	    x := tensor.Must(tensor.Ones[float32](4))
//	    d, err := tensor.Dot(be, x, x) // 4
//	}
func For[T tensor.Element]() (tensor.Backend[T], error) {
	return internalcpu.For[T]()
}
