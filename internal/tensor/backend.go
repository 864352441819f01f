package tensor

// Transpose selects whether a BLAS matrix operand is used as stored or
// transposed.
type Transpose byte

// Transpose flags.
const (
	NoTrans Transpose = 'N'
	Trans   Transpose = 'T'
)

// Backend is the linear-algebra capability consumed by the view-level
// wrappers in linalg.go. Implementations provide BLAS level 1/2/3 routines
// for one element type over strided slices in row-major convention:
// vectors are (slice, increment) pairs and matrices are (slice, leading
// dimension) pairs.
//
// Implementations:
//   - internal/backend/cpu: gonum's pure Go BLAS for float32, float64,
//     complex64 and complex128
type Backend[T Element] interface {
	// Name identifies the implementation in logs.
	Name() string

	// Level 1
	Dot(n int, x []T, incX int, y []T, incY int) T
	Axpy(n int, alpha T, x []T, incX int, y []T, incY int)
	Scal(n int, alpha T, x []T, incX int)

	// Level 2
	Gemv(tA Transpose, m, n int, alpha T, a []T, lda int, x []T, incX int, beta T, y []T, incY int)
	Ger(m, n int, alpha T, x []T, incX int, y []T, incY int, a []T, lda int)

	// Level 3
	Gemm(tA, tB Transpose, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)
}
