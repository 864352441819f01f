package tensor

import "github.com/sirupsen/logrus"

// View-level BLAS wrappers. Shapes are validated here; leading dimensions
// and transpose flags are derived from strides. Operands whose strides BLAS
// cannot express (negative, zero, or neither dimension unit-stride) are
// staged through contiguous copies.

// operand is a BLAS-ready slice with an optional staging copy.
type operand[T Element] struct {
	data  []T
	inc   int // vector increment or matrix leading dimension
	trans Transpose
	tmp   *View[T]
}

func (o operand[T]) release() {
	if o.tmp != nil {
		o.tmp.Release()
	}
}

func stage[T Element](v *View[T], op string) *View[T] {
	logrus.WithFields(logrus.Fields{
		"op":     op,
		"shape":  v.shape.String(),
		"stride": v.stride,
	}).Debug("staging contiguous copy for BLAS operand")
	return v.Clone()
}

// vectorOperand exposes v as (data, increment).
func vectorOperand[T Element](op string, v *View[T]) operand[T] {
	if v.Len() == 1 {
		return operand[T]{data: v.buf.data[v.offset : v.offset+1], inc: 1}
	}
	if p := v.Plan(); p.Linear && p.Step > 0 {
		return operand[T]{data: v.buf.data[v.offset:], inc: p.Step}
	}
	tmp := stage(v, op)
	return operand[T]{data: tmp.buf.data, inc: 1, tmp: tmp}
}

// matrixOperand exposes a 2-D view as (data, lda, trans). With Trans the
// slice holds the transpose in row-major order.
func matrixOperand[T Element](op string, v *View[T], allowTrans bool) operand[T] {
	r, c := v.shape[0], v.shape[1]
	s0, s1 := v.stride[0], v.stride[1]
	if c == 1 {
		s1 = 1
	}
	if r == 1 {
		s0 = c
	}
	switch {
	case s1 == 1 && s0 >= c:
		return operand[T]{data: v.buf.data[v.offset:], inc: s0, trans: NoTrans}
	case allowTrans && s0 == 1 && s1 >= r:
		return operand[T]{data: v.buf.data[v.offset:], inc: s1, trans: Trans}
	}
	tmp := stage(v, op)
	return operand[T]{data: tmp.buf.data, inc: c, trans: NoTrans, tmp: tmp}
}

// writeBack copies a staged output into v.
func writeBack[T Element](v *View[T], o operand[T]) {
	if o.tmp != nil {
		copyElements(v, o.tmp)
		o.tmp.Release()
	}
}

func requireBackend[T Element](op string, b Backend[T]) error {
	if b == nil {
		return invalidArgf("%s: nil backend", op)
	}
	return nil
}

func requireRank[T Element](op string, v *View[T], rank int) error {
	if v.Dim() != rank {
		return invalidArgf("%s: expected %d-D view, got %d-D", op, rank, v.Dim())
	}
	return nil
}

// Dot returns the inner product of x and y, which must hold the same number
// of elements.
func Dot[T Element](b Backend[T], x, y *View[T]) (T, error) {
	var zero T
	if err := requireBackend("dot", b); err != nil {
		return zero, err
	}
	if err := requireView("dot", x, y); err != nil {
		return zero, err
	}
	if x.Len() != y.Len() {
		return zero, outOfRangef("dot: element count mismatch %d vs %d", x.Len(), y.Len())
	}
	ox, oy := vectorOperand("dot", x), vectorOperand("dot", y)
	defer ox.release()
	defer oy.release()
	return b.Dot(x.Len(), ox.data, ox.inc, oy.data, oy.inc), nil
}

// Axpy computes y += alpha*x.
func Axpy[T Element](b Backend[T], alpha T, x, y *View[T]) error {
	if err := requireBackend("axpy", b); err != nil {
		return err
	}
	if err := requireView("axpy", x, y); err != nil {
		return err
	}
	if x.Len() != y.Len() {
		return outOfRangef("axpy: element count mismatch %d vs %d", x.Len(), y.Len())
	}
	ox := vectorOperand("axpy", x)
	defer ox.release()
	oy := vectorOperand("axpy", y)
	b.Axpy(x.Len(), alpha, ox.data, ox.inc, oy.data, oy.inc)
	writeBack(y, oy)
	return nil
}

// Scale computes v *= alpha.
func Scale[T Element](b Backend[T], v *View[T], alpha T) error {
	if err := requireBackend("scal", b); err != nil {
		return err
	}
	if err := requireView("scal", v); err != nil {
		return err
	}
	o := vectorOperand("scal", v)
	b.Scal(v.Len(), alpha, o.data, o.inc)
	writeBack(v, o)
	return nil
}

// Addmv computes dst = beta*dst + alpha*(m @ x) for a 2-D m of shape (r, c)
// and a 1-D x of length c. dst is resized to (r) unless it already has that
// shape; a resized dst holds unspecified values, so pass beta = 0.
func Addmv[T Element](b Backend[T], dst *View[T], beta, alpha T, m, x *View[T]) error {
	if err := requireBackend("addmv", b); err != nil {
		return err
	}
	if err := requireView("addmv", m, x); err != nil {
		return err
	}
	if err := requireRank("addmv", m, 2); err != nil {
		return err
	}
	if err := requireRank("addmv", x, 1); err != nil {
		return err
	}
	r, c := m.shape[0], m.shape[1]
	if x.shape[0] != c {
		return outOfRangef("addmv: matrix %v cannot multiply vector of length %d", m.shape, x.shape[0])
	}
	if err := fitOutput(dst, Shape{r}); err != nil {
		return err
	}
	om := matrixOperand("addmv", m, true)
	defer om.release()
	ox := vectorOperand("addmv", x)
	defer ox.release()
	oy := outputVector("addmv", dst, m, x)

	rows, cols := r, c
	if om.trans == Trans {
		rows, cols = c, r
	}
	b.Gemv(om.trans, rows, cols, alpha, om.data, om.inc, ox.data, ox.inc, beta, oy.data, oy.inc)
	writeBack(dst, oy)
	return nil
}

// outputVector is vectorOperand for a destination, staging when dst shares
// a buffer with any input.
func outputVector[T Element](op string, dst *View[T], inputs ...*View[T]) operand[T] {
	for _, in := range inputs {
		if in.buf == dst.buf {
			tmp := stage(dst, op)
			return operand[T]{data: tmp.buf.data, inc: 1, tmp: tmp}
		}
	}
	return vectorOperand(op, dst)
}

// outputMatrix is matrixOperand for a destination: BLAS writes only
// untransposed row-major output, so other layouts are staged.
func outputMatrix[T Element](op string, dst *View[T], inputs ...*View[T]) operand[T] {
	for _, in := range inputs {
		if in.buf == dst.buf {
			tmp := stage(dst, op)
			return operand[T]{data: tmp.buf.data, inc: dst.shape[1], tmp: tmp}
		}
	}
	return matrixOperand(op, dst, false)
}

// Mv returns m @ x in a new view.
func Mv[T Element](b Backend[T], m, x *View[T]) (*View[T], error) {
	dst := &View[T]{}
	var zero T
	one := CapabilitiesOf[T]().FromInt(1)
	if err := Addmv(b, dst, zero, one, m, x); err != nil {
		return nil, err
	}
	return dst, nil
}

// Addr computes dst += alpha * outer(x, y) for 1-D x and y. dst must have
// shape (len(x), len(y)).
func Addr[T Element](b Backend[T], dst *View[T], alpha T, x, y *View[T]) error {
	if err := requireBackend("addr", b); err != nil {
		return err
	}
	if err := requireView("addr", dst, x, y); err != nil {
		return err
	}
	if err := requireRank("addr", x, 1); err != nil {
		return err
	}
	if err := requireRank("addr", y, 1); err != nil {
		return err
	}
	if !dst.shape.Equal(Shape{x.shape[0], y.shape[0]}) {
		return outOfRangef("addr: destination %v does not match outer product (%d, %d)",
			dst.shape, x.shape[0], y.shape[0])
	}
	ox, oy := vectorOperand("addr", x), vectorOperand("addr", y)
	defer ox.release()
	defer oy.release()
	oa := outputMatrix("addr", dst, x, y)
	b.Ger(x.shape[0], y.shape[0], alpha, ox.data, ox.inc, oy.data, oy.inc, oa.data, oa.inc)
	writeBack(dst, oa)
	return nil
}

// Addmm computes dst = beta*dst + alpha*(a @ m) for a of shape (n, k) and m
// of shape (k, p). dst is resized to (n, p) unless it already has that shape;
// a resized dst holds unspecified values, so pass beta = 0.
//
// Example:
//
//	be := tensor.Must(cpu.For[float64]())
//	a := tensor.Must(tensor.New[float64](3, 4))
//	m := tensor.Must(tensor.New[float64](4, 5))
//	c := tensor.Must(tensor.Mm(be, a, m)) // (3, 5)
func Addmm[T Element](b Backend[T], dst *View[T], beta, alpha T, a, m *View[T]) error {
	if err := requireBackend("addmm", b); err != nil {
		return err
	}
	if err := requireView("addmm", a, m); err != nil {
		return err
	}
	if err := requireRank("addmm", a, 2); err != nil {
		return err
	}
	if err := requireRank("addmm", m, 2); err != nil {
		return err
	}
	n, k, p := a.shape[0], a.shape[1], m.shape[1]
	if m.shape[0] != k {
		return outOfRangef("addmm: cannot multiply %v by %v", a.shape, m.shape)
	}
	if err := fitOutput(dst, Shape{n, p}); err != nil {
		return err
	}
	oa := matrixOperand("addmm", a, true)
	defer oa.release()
	om := matrixOperand("addmm", m, true)
	defer om.release()
	oc := outputMatrix("addmm", dst, a, m)
	b.Gemm(oa.trans, om.trans, n, p, k, alpha, oa.data, oa.inc, om.data, om.inc, beta, oc.data, oc.inc)
	writeBack(dst, oc)
	return nil
}

// Mm returns a @ m in a new view.
func Mm[T Element](b Backend[T], a, m *View[T]) (*View[T], error) {
	dst := &View[T]{}
	var zero T
	one := CapabilitiesOf[T]().FromInt(1)
	if err := Addmm(b, dst, zero, one, a, m); err != nil {
		return nil, err
	}
	return dst, nil
}
