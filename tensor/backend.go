// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/strided/internal/tensor"

// Backend supplies BLAS level 1/2/3 routines for one element type.
// The view-level functions below validate shapes, derive leading dimensions
// and transpose flags from strides, and stage operands BLAS cannot address
// through contiguous copies.
//
// Implementations:
//   - backend/cpu: gonum's pure Go BLAS (float32, float64, complex64,
//     complex128)
//
// Example:
//
//	import (
//	    "github.com/born-ml/strided/backend/cpu"
//	    "github.com/born-ml/strided/tensor"
//	)
//
//	be, _ := cpu.For[float64]()
//	a := tensor.Must(tensor.Ones[float64](2, 3))
//	b := tensor.Must(tensor.Ones[float64](3, 4))
//	c, err := tensor.Mm(be, a, b) // (2, 4)
type Backend[T Element] = tensor.Backend[T]

// Transpose selects whether a BLAS matrix operand is used as stored or
// transposed.
type Transpose = tensor.Transpose

// Transpose flags.
const (
	NoTrans = tensor.NoTrans
	Trans   = tensor.Trans
)

// Dot returns the inner product of x and y.
func Dot[T Element](b Backend[T], x, y *View[T]) (T, error) {
	return tensor.Dot(b, x, y)
}

// Axpy computes y += alpha*x.
func Axpy[T Element](b Backend[T], alpha T, x, y *View[T]) error {
	return tensor.Axpy(b, alpha, x, y)
}

// Scale computes v *= alpha.
func Scale[T Element](b Backend[T], v *View[T], alpha T) error {
	return tensor.Scale(b, v, alpha)
}

// Addmv computes dst = beta*dst + alpha*m*x.
func Addmv[T Element](b Backend[T], dst *View[T], beta, alpha T, m, x *View[T]) error {
	return tensor.Addmv(b, dst, beta, alpha, m, x)
}

// Mv returns m*x in a new view.
func Mv[T Element](b Backend[T], m, x *View[T]) (*View[T], error) {
	return tensor.Mv(b, m, x)
}

// Addr computes dst += alpha*x*y^T.
func Addr[T Element](b Backend[T], dst *View[T], alpha T, x, y *View[T]) error {
	return tensor.Addr(b, dst, alpha, x, y)
}

// Addmm computes dst = beta*dst + alpha*a*m.
func Addmm[T Element](b Backend[T], dst *View[T], beta, alpha T, a, m *View[T]) error {
	return tensor.Addmm(b, dst, beta, alpha, a, m)
}

// Mm returns a*m in a new view.
func Mm[T Element](b Backend[T], a, m *View[T]) (*View[T], error) {
	return tensor.Mm(b, a, m)
}
