package tensor

// Comparison selects the predicate of Compare and CompareScalar.
type Comparison uint8

// Comparison predicates. LT, LE, GT and GE need ordered elements.
const (
	LT Comparison = iota + 1
	LE
	GT
	GE
	EQ
	NE
)

// String returns the operator symbol.
func (c Comparison) String() string {
	switch c {
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case EQ:
		return "=="
	case NE:
		return "!="
	default:
		return "?"
	}
}

// predicate returns the element test for c. Ordering predicates on complex
// elements fail with ErrDomain.
func predicate[T Element](c Comparison) (func(a, b T) bool, error) {
	switch c {
	case EQ:
		return func(a, b T) bool { return a == b }, nil
	case NE:
		return func(a, b T) bool { return a != b }, nil
	case LT, LE, GT, GE:
	default:
		return nil, invalidArgf("compare: unknown comparison %d", c)
	}
	k, err := requireOrdered[T]("compare " + c.String())
	if err != nil {
		return nil, err
	}
	switch c {
	case LT:
		return k.Less, nil
	case LE:
		return func(a, b T) bool { return k.Less(a, b) || a == b }, nil
	case GT:
		return func(a, b T) bool { return k.Less(b, a) }, nil
	default:
		return func(a, b T) bool { return k.Less(b, a) || a == b }, nil
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Compare writes 1 into mask where a[i] <op> b[i] holds and 0 elsewhere.
// mask is resized to a when their lengths differ.
func Compare[T Element](mask *View[uint8], a, b *View[T], op Comparison) error {
	pred, err := predicate[T](op)
	if err != nil {
		return err
	}
	if err := requireView("compare", a, b); err != nil {
		return err
	}
	if a.Len() != b.Len() {
		return outOfRangef("compare: element count mismatch %v (%d) vs %v (%d)",
			a.shape, a.Len(), b.shape, b.Len())
	}
	if err := prepareDst(mask, a); err != nil {
		return err
	}
	return Apply3(mask, a, b, func(m *uint8, x, y *T) { *m = boolByte(pred(*x, *y)) })
}

// CompareScalar writes 1 into mask where a[i] <op> s holds and 0 elsewhere.
func CompareScalar[T Element](mask *View[uint8], a *View[T], s T, op Comparison) error {
	pred, err := predicate[T](op)
	if err != nil {
		return err
	}
	if err := requireView("compare", a); err != nil {
		return err
	}
	if err := prepareDst(mask, a); err != nil {
		return err
	}
	return Apply2(mask, a, func(m *uint8, x *T) { *m = boolByte(pred(*x, s)) })
}

// MaskedFill sets v[i] to x wherever mask[i] is non-zero.
func MaskedFill[T Element](v *View[T], mask *View[uint8], x T) error {
	return Apply2(v, mask, func(p *T, m *uint8) {
		if *m != 0 {
			*p = x
		}
	})
}

// CountNonZero returns the number of non-zero mask entries.
func CountNonZero(mask *View[uint8]) (int, error) {
	n := 0
	err := Apply1(mask, func(m *uint8) {
		if *m != 0 {
			n++
		}
	})
	return n, err
}
