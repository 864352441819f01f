// Package cpu provides the CPU linear-algebra backend on top of gonum's pure
// Go BLAS implementation.
package cpu

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/born-ml/strided/internal/tensor"
)

// Name is reported by every backend of this package.
const Name = "cpu/gonum"

// impl is stateless and safe for concurrent use.
var impl gonum.Implementation

func transpose(t tensor.Transpose) blas.Transpose {
	if t == tensor.Trans {
		return blas.Trans
	}
	return blas.NoTrans
}

// For returns the backend for element type T. Integer element types have no
// BLAS routines and fail with tensor.ErrDomain.
//
// Example:
//
//	be, err := cpu.For[float64]()
//	c, err := tensor.Mm(be, a, b)
func For[T tensor.Element]() (tensor.Backend[T], error) {
	var zero T
	var b any
	switch any(zero).(type) {
	case float32:
		b = Float32{}
	case float64:
		b = Float64{}
	case complex64:
		b = Complex64{}
	case complex128:
		b = Complex128{}
	default:
		return nil, errors.Wrapf(tensor.ErrDomain, "cpu: no BLAS routines for %s", tensor.DataTypeOf[T]())
	}
	return b.(tensor.Backend[T]), nil
}

// Float64 implements tensor.Backend[float64] with the D-prefixed routines.
type Float64 struct{}

var _ tensor.Backend[float64] = Float64{}

// Name returns the backend name.
func (Float64) Name() string { return Name }

// Dot computes x . y.
func (Float64) Dot(n int, x []float64, incX int, y []float64, incY int) float64 {
	return impl.Ddot(n, x, incX, y, incY)
}

// Axpy computes y += alpha*x.
func (Float64) Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) {
	impl.Daxpy(n, alpha, x, incX, y, incY)
}

// Scal computes x *= alpha.
func (Float64) Scal(n int, alpha float64, x []float64, incX int) {
	impl.Dscal(n, alpha, x, incX)
}

// Gemv computes y = alpha*op(A)*x + beta*y.
func (Float64) Gemv(tA tensor.Transpose, m, n int, alpha float64, a []float64, lda int,
	x []float64, incX int, beta float64, y []float64, incY int) {
	impl.Dgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY)
}

// Ger computes A += alpha*x*y^T.
func (Float64) Ger(m, n int, alpha float64, x []float64, incX int, y []float64, incY int, a []float64, lda int) {
	impl.Dger(m, n, alpha, x, incX, y, incY, a, lda)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func (Float64) Gemm(tA, tB tensor.Transpose, m, n, k int, alpha float64, a []float64, lda int,
	b []float64, ldb int, beta float64, c []float64, ldc int) {
	impl.Dgemm(transpose(tA), transpose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Float32 implements tensor.Backend[float32] with the S-prefixed routines.
type Float32 struct{}

var _ tensor.Backend[float32] = Float32{}

// Name returns the backend name.
func (Float32) Name() string { return Name }

// Dot computes x . y.
func (Float32) Dot(n int, x []float32, incX int, y []float32, incY int) float32 {
	return impl.Sdot(n, x, incX, y, incY)
}

// Axpy computes y += alpha*x.
func (Float32) Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) {
	impl.Saxpy(n, alpha, x, incX, y, incY)
}

// Scal computes x *= alpha.
func (Float32) Scal(n int, alpha float32, x []float32, incX int) {
	impl.Sscal(n, alpha, x, incX)
}

// Gemv computes y = alpha*op(A)*x + beta*y.
func (Float32) Gemv(tA tensor.Transpose, m, n int, alpha float32, a []float32, lda int,
	x []float32, incX int, beta float32, y []float32, incY int) {
	impl.Sgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY)
}

// Ger computes A += alpha*x*y^T.
func (Float32) Ger(m, n int, alpha float32, x []float32, incX int, y []float32, incY int, a []float32, lda int) {
	impl.Sger(m, n, alpha, x, incX, y, incY, a, lda)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func (Float32) Gemm(tA, tB tensor.Transpose, m, n, k int, alpha float32, a []float32, lda int,
	b []float32, ldb int, beta float32, c []float32, ldc int) {
	impl.Sgemm(transpose(tA), transpose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Complex128 implements tensor.Backend[complex128] with the Z-prefixed
// routines. Dot and Ger are the unconjugated variants.
type Complex128 struct{}

var _ tensor.Backend[complex128] = Complex128{}

// Name returns the backend name.
func (Complex128) Name() string { return Name }

// Dot computes x . y without conjugation.
func (Complex128) Dot(n int, x []complex128, incX int, y []complex128, incY int) complex128 {
	return impl.Zdotu(n, x, incX, y, incY)
}

// Axpy computes y += alpha*x.
func (Complex128) Axpy(n int, alpha complex128, x []complex128, incX int, y []complex128, incY int) {
	impl.Zaxpy(n, alpha, x, incX, y, incY)
}

// Scal computes x *= alpha.
func (Complex128) Scal(n int, alpha complex128, x []complex128, incX int) {
	impl.Zscal(n, alpha, x, incX)
}

// Gemv computes y = alpha*op(A)*x + beta*y.
func (Complex128) Gemv(tA tensor.Transpose, m, n int, alpha complex128, a []complex128, lda int,
	x []complex128, incX int, beta complex128, y []complex128, incY int) {
	impl.Zgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY)
}

// Ger computes A += alpha*x*y^T.
func (Complex128) Ger(m, n int, alpha complex128, x []complex128, incX int, y []complex128, incY int,
	a []complex128, lda int) {
	impl.Zgeru(m, n, alpha, x, incX, y, incY, a, lda)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func (Complex128) Gemm(tA, tB tensor.Transpose, m, n, k int, alpha complex128, a []complex128, lda int,
	b []complex128, ldb int, beta complex128, c []complex128, ldc int) {
	impl.Zgemm(transpose(tA), transpose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Complex64 implements tensor.Backend[complex64] with the C-prefixed
// routines. Dot and Ger are the unconjugated variants.
type Complex64 struct{}

var _ tensor.Backend[complex64] = Complex64{}

// Name returns the backend name.
func (Complex64) Name() string { return Name }

// Dot computes x . y without conjugation.
func (Complex64) Dot(n int, x []complex64, incX int, y []complex64, incY int) complex64 {
	return impl.Cdotu(n, x, incX, y, incY)
}

// Axpy computes y += alpha*x.
func (Complex64) Axpy(n int, alpha complex64, x []complex64, incX int, y []complex64, incY int) {
	impl.Caxpy(n, alpha, x, incX, y, incY)
}

// Scal computes x *= alpha.
func (Complex64) Scal(n int, alpha complex64, x []complex64, incX int) {
	impl.Cscal(n, alpha, x, incX)
}

// Gemv computes y = alpha*op(A)*x + beta*y.
func (Complex64) Gemv(tA tensor.Transpose, m, n int, alpha complex64, a []complex64, lda int,
	x []complex64, incX int, beta complex64, y []complex64, incY int) {
	impl.Cgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY)
}

// Ger computes A += alpha*x*y^T.
func (Complex64) Ger(m, n int, alpha complex64, x []complex64, incX int, y []complex64, incY int,
	a []complex64, lda int) {
	impl.Cgeru(m, n, alpha, x, incX, y, incY, a, lda)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func (Complex64) Gemm(tA, tB tensor.Transpose, m, n, k int, alpha complex64, a []complex64, lda int,
	b []complex64, ldb int, beta complex64, c []complex64, ldc int) {
	impl.Cgemm(transpose(tA), transpose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}
