// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/strided/internal/tensor"

// Elementwise operations write into dst, which is resized to the first
// operand when its element count differs. Operands are matched by element
// count in row-major order, not by shape.

// Apply1 calls fn with a pointer to every element of a.
func Apply1[A Element](a *View[A], fn func(x *A)) error {
	return tensor.Apply1(a, fn)
}

// Apply2 calls fn with pointers to corresponding elements of a and b.
func Apply2[A, B Element](a *View[A], b *View[B], fn func(x *A, y *B)) error {
	return tensor.Apply2(a, b, fn)
}

// Apply3 calls fn with pointers to corresponding elements of a, b and c.
func Apply3[A, B, C Element](a *View[A], b *View[B], c *View[C], fn func(x *A, y *B, z *C)) error {
	return tensor.Apply3(a, b, c, fn)
}

// Fill sets every element of v to x.
func Fill[T Element](v *View[T], x T) error { return tensor.Fill(v, x) }

// Zero sets every element of v to zero.
func Zero[T Element](v *View[T]) error { return tensor.Zero(v) }

// Copy copies src into dst in row-major order.
func Copy[T Element](dst, src *View[T]) error { return tensor.Copy(dst, src) }

// Map writes fn(src[i]) into dst.
func Map[T, U Element](dst *View[U], src *View[T], fn func(T) U) error {
	return tensor.Map(dst, src, fn)
}

// Add writes a + b into dst.
//
// Example:
//
//	a := tensor.Must(tensor.FromSlice([]float64{1, 2, 3}, 3))
//	b := tensor.Must(tensor.FromSlice([]float64{4, 5, 6}, 3))
//	out := tensor.Must(tensor.New[float64](3))
//	err := tensor.Add(out, a, b) // [5, 7, 9]
func Add[T Element](dst, a, b *View[T]) error { return tensor.Add(dst, a, b) }

// Sub writes a - b into dst.
func Sub[T Element](dst, a, b *View[T]) error { return tensor.Sub(dst, a, b) }

// Mul writes a * b into dst.
func Mul[T Element](dst, a, b *View[T]) error { return tensor.Mul(dst, a, b) }

// Div writes a / b into dst. Integer division by zero fails with ErrDomain.
func Div[T Element](dst, a, b *View[T]) error { return tensor.Div(dst, a, b) }

// AddScalar writes a + s into dst.
func AddScalar[T Element](dst, a *View[T], s T) error { return tensor.AddScalar(dst, a, s) }

// SubScalar writes a - s into dst.
func SubScalar[T Element](dst, a *View[T], s T) error { return tensor.SubScalar(dst, a, s) }

// MulScalar writes a * s into dst.
func MulScalar[T Element](dst, a *View[T], s T) error { return tensor.MulScalar(dst, a, s) }

// DivScalar writes a / s into dst.
func DivScalar[T Element](dst, a *View[T], s T) error { return tensor.DivScalar(dst, a, s) }

// Neg writes -a into dst.
func Neg[T Element](dst, a *View[T]) error { return tensor.Neg(dst, a) }

// Abs writes |a| into dst.
func Abs[T Element](dst, a *View[T]) error { return tensor.Abs(dst, a) }

// Clamp writes a limited to [lo, hi] into dst.
func Clamp[T Element](dst, a *View[T], lo, hi T) error { return tensor.Clamp(dst, a, lo, hi) }

// Sqrt writes the square root of a into dst.
func Sqrt[T Element](dst, a *View[T]) error { return tensor.Sqrt(dst, a) }

// Exp writes e**a into dst.
func Exp[T Element](dst, a *View[T]) error { return tensor.Exp(dst, a) }

// Log writes the natural logarithm of a into dst.
func Log[T Element](dst, a *View[T]) error { return tensor.Log(dst, a) }

// Pow writes a**p into dst.
func Pow[T Element](dst, a *View[T], p float64) error { return tensor.Pow(dst, a, p) }

// Addcmul writes a + value*b*c into dst.
func Addcmul[T Element](dst, a, b, c *View[T], value T) error {
	return tensor.Addcmul(dst, a, b, c, value)
}

// Addcdiv writes a + value*b/c into dst.
func Addcdiv[T Element](dst, a, b, c *View[T], value T) error {
	return tensor.Addcdiv(dst, a, b, c, value)
}

// Compare writes 1 into mask where a[i] <op> b[i] holds and 0 elsewhere.
func Compare[T Element](mask *View[uint8], a, b *View[T], op Comparison) error {
	return tensor.Compare(mask, a, b, op)
}

// CompareScalar writes 1 into mask where a[i] <op> s holds and 0 elsewhere.
func CompareScalar[T Element](mask *View[uint8], a *View[T], s T, op Comparison) error {
	return tensor.CompareScalar(mask, a, s, op)
}

// MaskedFill sets v[i] to x wherever mask[i] is non-zero.
func MaskedFill[T Element](v *View[T], mask *View[uint8], x T) error {
	return tensor.MaskedFill(v, mask, x)
}

// CountNonZero returns the number of non-zero mask entries.
func CountNonZero(mask *View[uint8]) (int, error) { return tensor.CountNonZero(mask) }

// Reductions

// Sum returns the sum of all elements, accumulated in T.
func Sum[T Element](v *View[T]) (T, error) { return tensor.Sum(v) }

// Prod returns the product of all elements, accumulated in T.
func Prod[T Element](v *View[T]) (T, error) { return tensor.Prod(v) }

// Mean returns the arithmetic mean as float64.
func Mean[T Element](v *View[T]) (float64, error) { return tensor.Mean(v) }

// Variance returns the two-pass variance of all elements.
func Variance[T Element](v *View[T], unbiased bool) (float64, error) {
	return tensor.Variance(v, unbiased)
}

// Std returns the standard deviation of all elements.
func Std[T Element](v *View[T], unbiased bool) (float64, error) { return tensor.Std(v, unbiased) }

// Max returns the largest element and its coordinate.
func Max[T Element](v *View[T]) (T, []int, error) { return tensor.Max(v) }

// Min returns the smallest element and its coordinate.
func Min[T Element](v *View[T]) (T, []int, error) { return tensor.Min(v) }

// SumDim sums src along dim, keeping dim with extent 1.
//
// Example:
//
//	x := tensor.Must(tensor.Ones[float32](2, 3, 4))
//	y, err := tensor.SumDim(x, 2) // (2, 3, 1), every element 4
func SumDim[T Element](src *View[T], dim int) (*View[T], error) { return tensor.SumDim(src, dim) }

// SumDimInto writes the sums of src along dim into dst.
func SumDimInto[T Element](dst, src *View[T], dim int) error { return tensor.SumDimInto(dst, src, dim) }

// ProdDim multiplies src along dim.
func ProdDim[T Element](src *View[T], dim int) (*View[T], error) { return tensor.ProdDim(src, dim) }

// MeanDim averages src along dim.
func MeanDim[T Element](src *View[T], dim int) (*View[float64], error) {
	return tensor.MeanDim(src, dim)
}

// VarDim computes the variance of src along dim.
func VarDim[T Element](src *View[T], dim int, unbiased bool) (*View[float64], error) {
	return tensor.VarDim(src, dim, unbiased)
}

// StdDim computes the standard deviation of src along dim.
func StdDim[T Element](src *View[T], dim int, unbiased bool) (*View[float64], error) {
	return tensor.StdDim(src, dim, unbiased)
}

// MaxDim returns the maxima of src along dim and their positions.
func MaxDim[T Element](src *View[T], dim int) (*View[T], *View[int64], error) {
	return tensor.MaxDim(src, dim)
}

// MinDim returns the minima of src along dim and their positions.
func MinDim[T Element](src *View[T], dim int) (*View[T], *View[int64], error) {
	return tensor.MinDim(src, dim)
}

// CumSum writes the running sums of src along dim into dst.
func CumSum[T Element](dst, src *View[T], dim int) error { return tensor.CumSum(dst, src, dim) }

// CumProd writes the running products of src along dim into dst.
func CumProd[T Element](dst, src *View[T], dim int) error { return tensor.CumProd(dst, src, dim) }

// Sorting

// Sort orders every slice of v along dim in place.
func Sort[T Element](v *View[T], dim int, descending bool) error {
	return tensor.Sort(v, dim, descending)
}

// SortIndexed orders v along dim in place and records the source positions
// in idx.
func SortIndexed[T Element](v *View[T], idx *View[int64], dim int, descending bool) error {
	return tensor.SortIndexed(v, idx, dim, descending)
}

// Sorted returns a sorted copy of v and the permutation indices.
func Sorted[T Element](v *View[T], dim int, descending bool) (*View[T], *View[int64], error) {
	return tensor.Sorted(v, dim, descending)
}
