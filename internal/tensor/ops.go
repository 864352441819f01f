package tensor

import "math"

// Fill sets every element of v to x.
func Fill[T Element](v *View[T], x T) error {
	return Apply1(v, func(p *T) { *p = x })
}

// Zero sets every element of v to the zero value.
func Zero[T Element](v *View[T]) error {
	var zero T
	return Fill(v, zero)
}

// Copy copies src into dst element by element in row-major order. The views
// may have different shapes but must hold the same number of elements.
func Copy[T Element](dst, src *View[T]) error {
	if err := requireView("copy", dst, src); err != nil {
		return err
	}
	if dst.Len() != src.Len() {
		return lengthf("copy: destination holds %d elements, source %d", dst.Len(), src.Len())
	}
	if overlaps(dst, src) {
		tmp := src.Clone()
		defer tmp.Release()
		copyElements(dst, tmp)
		return nil
	}
	copyElements(dst, src)
	return nil
}

// Map writes fn(src[i]) into dst. dst is resized to src when their lengths
// differ.
func Map[T, U Element](dst *View[U], src *View[T], fn func(T) U) error {
	if err := requireView("map", src); err != nil {
		return err
	}
	if err := prepareDst(dst, src); err != nil {
		return err
	}
	if same, ok := any(src).(*View[U]); ok && overlaps(dst, same) {
		tmp := newContiguous[U](src.shape, dst.allocator())
		defer tmp.Release()
		if err := Apply2(tmp, src, func(d *U, s *T) { *d = fn(*s) }); err != nil {
			return err
		}
		copyElements(dst, tmp)
		return nil
	}
	return Apply2(dst, src, func(d *U, s *T) { *d = fn(*s) })
}

// binary writes fn(a[i], b[i]) into dst.
func binary[T Element](op string, dst, a, b *View[T], fn func(x, y T) T) error {
	if err := requireView(op, a, b); err != nil {
		return err
	}
	if a.Len() != b.Len() {
		return outOfRangef("%s: element count mismatch %v (%d) vs %v (%d)",
			op, a.shape, a.Len(), b.shape, b.Len())
	}
	if err := prepareDst(dst, a); err != nil {
		return err
	}
	if overlaps(dst, a) || overlaps(dst, b) {
		tmp := newContiguous[T](a.shape, dst.allocator())
		defer tmp.Release()
		if err := Apply3(tmp, a, b, func(d, x, y *T) { *d = fn(*x, *y) }); err != nil {
			return err
		}
		copyElements(dst, tmp)
		return nil
	}
	return Apply3(dst, a, b, func(d, x, y *T) { *d = fn(*x, *y) })
}

// overlaps reports whether writing dst element i could clobber src element
// j > i. Views with identical geometry over one buffer are safe.
func overlaps[T Element](dst, src *View[T]) bool {
	return dst.buf == src.buf && !dst.SameGeometry(src)
}

// Add writes a + b into dst.
//
// Example:
//
//	a := tensor.Must(tensor.FromSlice([]float64{1, 2, 3}, 3))
//	b := tensor.Must(tensor.FromSlice([]float64{4, 5, 6}, 3))
//	out := tensor.Must(tensor.New[float64](3))
//	err := tensor.Add(out, a, b) // [5, 7, 9]
func Add[T Element](dst, a, b *View[T]) error {
	c := CapabilitiesOf[T]()
	return binary("add", dst, a, b, c.Add)
}

// Sub writes a - b into dst.
func Sub[T Element](dst, a, b *View[T]) error {
	c := CapabilitiesOf[T]()
	return binary("sub", dst, a, b, c.Sub)
}

// Mul writes a * b into dst.
func Mul[T Element](dst, a, b *View[T]) error {
	c := CapabilitiesOf[T]()
	return binary("mul", dst, a, b, c.Mul)
}

// Div writes a / b into dst. Integer division by zero fails with ErrDomain
// before any element is written.
func Div[T Element](dst, a, b *View[T]) error {
	c := CapabilitiesOf[T]()
	if c.Kind() == KindInteger {
		if err := checkDivisor("div", b); err != nil {
			return err
		}
	}
	return binary("div", dst, a, b, c.Div)
}

// scalarOp writes fn(a[i]) into dst.
func scalarOp[T Element](op string, dst, a *View[T], fn func(x T) T) error {
	if err := requireView(op, a); err != nil {
		return err
	}
	if err := prepareDst(dst, a); err != nil {
		return err
	}
	if overlaps(dst, a) {
		tmp := newContiguous[T](a.shape, dst.allocator())
		defer tmp.Release()
		if err := Apply2(tmp, a, func(d, x *T) { *d = fn(*x) }); err != nil {
			return err
		}
		copyElements(dst, tmp)
		return nil
	}
	return Apply2(dst, a, func(d, x *T) { *d = fn(*x) })
}

// AddScalar writes a + s into dst.
func AddScalar[T Element](dst, a *View[T], s T) error {
	c := CapabilitiesOf[T]()
	return scalarOp("add", dst, a, func(x T) T { return c.Add(x, s) })
}

// SubScalar writes a - s into dst.
func SubScalar[T Element](dst, a *View[T], s T) error {
	c := CapabilitiesOf[T]()
	return scalarOp("sub", dst, a, func(x T) T { return c.Sub(x, s) })
}

// MulScalar writes a * s into dst.
func MulScalar[T Element](dst, a *View[T], s T) error {
	c := CapabilitiesOf[T]()
	return scalarOp("mul", dst, a, func(x T) T { return c.Mul(x, s) })
}

// DivScalar writes a / s into dst.
func DivScalar[T Element](dst, a *View[T], s T) error {
	c := CapabilitiesOf[T]()
	if c.Kind() == KindInteger && s == 0 {
		return domainf("div: integer division by zero")
	}
	return scalarOp("div", dst, a, func(x T) T { return c.Div(x, s) })
}

// Neg writes -a into dst.
func Neg[T Element](dst, a *View[T]) error {
	c := CapabilitiesOf[T]()
	return scalarOp("neg", dst, a, c.Neg)
}

// Abs writes |a| into dst. Complex magnitudes are stored in the real part.
func Abs[T Element](dst, a *View[T]) error {
	c := CapabilitiesOf[T]()
	return scalarOp("abs", dst, a, c.Abs)
}

// Clamp writes a limited to [lo, hi] into dst. NaN elements are kept.
func Clamp[T Element](dst, a *View[T], lo, hi T) error {
	c, err := requireOrdered[T]("clamp")
	if err != nil {
		return err
	}
	if c.Less(hi, lo) {
		return invalidArgf("clamp: lower bound %v exceeds upper bound %v", lo, hi)
	}
	return scalarOp("clamp", dst, a, func(x T) T {
		if c.Less(x, lo) {
			return lo
		}
		if c.Less(hi, x) {
			return hi
		}
		return x
	})
}

// floatOp applies a float64 function to floating-point elements.
func floatOp[T Element](op string, dst, a *View[T], fn func(float64) float64) error {
	c, err := requireFloat[T](op)
	if err != nil {
		return err
	}
	return scalarOp(op, dst, a, func(x T) T { return c.FromFloat(fn(c.Float(x))) })
}

// Sqrt writes the square root of a into dst.
func Sqrt[T Element](dst, a *View[T]) error {
	return floatOp("sqrt", dst, a, math.Sqrt)
}

// Exp writes e**a into dst.
func Exp[T Element](dst, a *View[T]) error {
	return floatOp("exp", dst, a, math.Exp)
}

// Log writes the natural logarithm of a into dst.
func Log[T Element](dst, a *View[T]) error {
	return floatOp("log", dst, a, math.Log)
}

// Pow writes a**p into dst.
func Pow[T Element](dst, a *View[T], p float64) error {
	return floatOp("pow", dst, a, func(x float64) float64 { return math.Pow(x, p) })
}

// Addcmul writes a + value*b*c into dst.
func Addcmul[T Element](dst, a, b, c *View[T], value T) error {
	k := CapabilitiesOf[T]()
	return ternary("addcmul", dst, a, b, c, func(x, y, z T) T {
		return k.Add(x, k.Mul(value, k.Mul(y, z)))
	})
}

// Addcdiv writes a + value*b/c into dst.
func Addcdiv[T Element](dst, a, b, c *View[T], value T) error {
	k := CapabilitiesOf[T]()
	if k.Kind() == KindInteger {
		if err := checkDivisor("addcdiv", c); err != nil {
			return err
		}
	}
	return ternary("addcdiv", dst, a, b, c, func(x, y, z T) T {
		return k.Add(x, k.Mul(value, k.Div(y, z)))
	})
}

// ternary writes fn(a[i], b[i], c[i]) into dst. The result is staged in a
// scratch view so dst may alias any operand.
func ternary[T Element](op string, dst, a, b, c *View[T], fn func(x, y, z T) T) error {
	if err := requireView(op, a, b, c); err != nil {
		return err
	}
	if a.Len() != b.Len() || a.Len() != c.Len() {
		return outOfRangef("%s: element count mismatch %v, %v, %v", op, a.shape, b.shape, c.shape)
	}
	if err := prepareDst(dst, a); err != nil {
		return err
	}
	tmp := a.Clone()
	defer tmp.Release()
	if err := Apply3(tmp, b, c, func(x, y, z *T) { *x = fn(*x, *y, *z) }); err != nil {
		return err
	}
	copyElements(dst, tmp)
	return nil
}

// checkDivisor returns ErrDomain if any element of v is zero.
func checkDivisor[T Element](op string, v *View[T]) error {
	if err := requireView(op, v); err != nil {
		return err
	}
	zero := false
	forEach(v, func(p int) {
		if v.buf.data[p] == 0 {
			zero = true
		}
	})
	if zero {
		return domainf("%s: integer division by zero", op)
	}
	return nil
}
