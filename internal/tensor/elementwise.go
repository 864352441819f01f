package tensor

// Elementwise dispatch.
//
// Every entry point derives a Plan per operand on each call. When all
// operands are linear the elements are visited with one multiply-add per
// operand; otherwise synchronized Index iterators walk each operand's own
// shape in lockstep. Operands are matched by element count, not by shape.

// Apply1 calls fn with a pointer to every element of a in row-major order.
func Apply1[A Element](a *View[A], fn func(x *A)) error {
	if err := requireView("apply", a); err != nil {
		return err
	}
	pa := a.Plan()
	da := a.buf.data
	if pa.Linear {
		for i, p := 0, a.offset; i < pa.Length; i, p = i+1, p+pa.Step {
			fn(&da[p])
		}
		return nil
	}
	it := getIndex(a.shape)
	defer putIndex(it)
	for ; !it.Done(); it.Next() {
		fn(&da[it.Offset(a.stride, a.offset)])
	}
	return nil
}

// Apply2 calls fn with pointers to corresponding elements of a and b.
// Both views must hold the same number of elements.
func Apply2[A, B Element](a *View[A], b *View[B], fn func(x *A, y *B)) error {
	if err := requireView("apply", a); err != nil {
		return err
	}
	if err := requireView("apply", b); err != nil {
		return err
	}
	if a.Len() != b.Len() {
		return outOfRangef("apply: element count mismatch %v (%d) vs %v (%d)",
			a.shape, a.Len(), b.shape, b.Len())
	}
	pa, pb := a.Plan(), b.Plan()
	da, db := a.buf.data, b.buf.data
	if linearAll(pa, pb) {
		ia, ib := a.offset, b.offset
		for i := 0; i < pa.Length; i++ {
			fn(&da[ia], &db[ib])
			ia += pa.Step
			ib += pb.Step
		}
		return nil
	}
	ita, itb := getIndex(a.shape), getIndex(b.shape)
	defer putIndex(ita)
	defer putIndex(itb)
	for ; !ita.Done(); ita.Next() {
		fn(&da[ita.Offset(a.stride, a.offset)], &db[itb.Offset(b.stride, b.offset)])
		itb.Next()
	}
	return nil
}

// Apply3 calls fn with pointers to corresponding elements of a, b and c.
// All views must hold the same number of elements.
func Apply3[A, B, C Element](a *View[A], b *View[B], c *View[C], fn func(x *A, y *B, z *C)) error {
	if err := requireView("apply", a); err != nil {
		return err
	}
	if err := requireView("apply", b); err != nil {
		return err
	}
	if err := requireView("apply", c); err != nil {
		return err
	}
	if a.Len() != b.Len() || a.Len() != c.Len() {
		return outOfRangef("apply: element count mismatch %v (%d), %v (%d), %v (%d)",
			a.shape, a.Len(), b.shape, b.Len(), c.shape, c.Len())
	}
	pa, pb, pc := a.Plan(), b.Plan(), c.Plan()
	da, db, dc := a.buf.data, b.buf.data, c.buf.data
	if linearAll(pa, pb, pc) {
		ia, ib, ic := a.offset, b.offset, c.offset
		for i := 0; i < pa.Length; i++ {
			fn(&da[ia], &db[ib], &dc[ic])
			ia += pa.Step
			ib += pb.Step
			ic += pc.Step
		}
		return nil
	}
	ita, itb, itc := getIndex(a.shape), getIndex(b.shape), getIndex(c.shape)
	defer putIndex(ita)
	defer putIndex(itb)
	defer putIndex(itc)
	for ; !ita.Done(); ita.Next() {
		fn(&da[ita.Offset(a.stride, a.offset)],
			&db[itb.Offset(b.stride, b.offset)],
			&dc[itc.Offset(c.stride, c.offset)])
		itb.Next()
		itc.Next()
	}
	return nil
}

// forEach calls fn with the buffer position of every element of v in
// row-major order.
func forEach[T Element](v *View[T], fn func(p int)) {
	pl := v.Plan()
	if pl.Linear {
		for i, p := 0, v.offset; i < pl.Length; i, p = i+1, p+pl.Step {
			fn(p)
		}
		return
	}
	it := getIndex(v.shape)
	defer putIndex(it)
	for ; !it.Done(); it.Next() {
		fn(it.Offset(v.stride, v.offset))
	}
}

// copyElements copies src into dst in row-major order. Lengths must match.
func copyElements[T Element](dst, src *View[T]) {
	_ = Apply2(dst, src, func(x, y *T) { *x = *y })
}

// prepareDst resizes dst to the shape of like when their element counts
// differ. A dst of equal length keeps its geometry.
func prepareDst[T, U Element](dst *View[T], like *View[U]) error {
	if dst == nil {
		return invalidArgf("nil destination")
	}
	if dst.buf != nil && dst.Len() == like.Len() {
		return nil
	}
	return dst.Resize(like.shape...)
}
