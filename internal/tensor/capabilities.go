package tensor

import (
	"math"
	"math/cmplx"
)

// Kind groups element types by the operations they support.
type Kind uint8

// Element kinds.
const (
	KindInteger Kind = iota + 1
	KindFloat
	KindComplex
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Capabilities is the per-category arithmetic trait used by the generic
// algorithms. Ordered categories (integer, float) implement the full set;
// the complex category reports Ordered() == false and callers must return
// ErrDomain instead of calling Less.
type Capabilities[T Element] interface {
	Kind() Kind
	Ordered() bool

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T
	Neg(a T) T
	Abs(a T) T

	FromFloat(f float64) T
	FromInt(i int64) T
	// Float returns the real part of a as float64.
	Float(a T) float64

	Less(a, b T) bool
	IsNaN(a T) bool
	IsZero(a T) bool

	scalar(a T) scalar
	fromScalar(s scalar) T
}

// scalar is the widest intermediate used for cross-type casts.
type scalar struct {
	re, im  float64
	i       int64
	integer bool
}

// CapabilitiesOf returns the capability set for T.
func CapabilitiesOf[T Element]() Capabilities[T] {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(realCaps[int8]{kind: KindInteger}).(Capabilities[T])
	case int16:
		return any(realCaps[int16]{kind: KindInteger}).(Capabilities[T])
	case int32:
		return any(realCaps[int32]{kind: KindInteger}).(Capabilities[T])
	case int64:
		return any(realCaps[int64]{kind: KindInteger}).(Capabilities[T])
	case uint8:
		return any(realCaps[uint8]{kind: KindInteger}).(Capabilities[T])
	case float32:
		return any(realCaps[float32]{kind: KindFloat}).(Capabilities[T])
	case float64:
		return any(realCaps[float64]{kind: KindFloat}).(Capabilities[T])
	case complex64:
		return any(complexCaps[complex64]{}).(Capabilities[T])
	case complex128:
		return any(complexCaps[complex128]{}).(Capabilities[T])
	default:
		panic("unsupported type")
	}
}

// requireOrdered returns ErrDomain when T has no ordering.
func requireOrdered[T Element](op string) (Capabilities[T], error) {
	c := CapabilitiesOf[T]()
	if !c.Ordered() {
		return nil, domainf("%s: %s elements are not ordered", op, DataTypeOf[T]())
	}
	return c, nil
}

// requireReal is requireOrdered for statistics that need a real value.
func requireReal[T Element](op string) (Capabilities[T], error) {
	c := CapabilitiesOf[T]()
	if c.Kind() == KindComplex {
		return nil, domainf("%s: not defined for %s elements", op, DataTypeOf[T]())
	}
	return c, nil
}

// requireFloat returns ErrDomain unless T is a floating-point type.
func requireFloat[T Element](op string) (Capabilities[T], error) {
	c := CapabilitiesOf[T]()
	if c.Kind() != KindFloat {
		return nil, domainf("%s: requires floating-point elements, got %s", op, DataTypeOf[T]())
	}
	return c, nil
}

// castFunc returns a converter from S to D.
// Integer sources keep full int64 precision when the destination is an integer.
func castFunc[D, S Element]() func(S) D {
	if DataTypeOf[S]() == DataTypeOf[D]() {
		return func(x S) D { return any(x).(D) }
	}
	sc, dc := CapabilitiesOf[S](), CapabilitiesOf[D]()
	return func(x S) D { return dc.fromScalar(sc.scalar(x)) }
}

type realCaps[T Real] struct {
	kind Kind
}

func (c realCaps[T]) Kind() Kind     { return c.kind }
func (realCaps[T]) Ordered() bool    { return true }
func (realCaps[T]) Add(a, b T) T     { return a + b }
func (realCaps[T]) Sub(a, b T) T     { return a - b }
func (realCaps[T]) Mul(a, b T) T     { return a * b }
func (realCaps[T]) Div(a, b T) T     { return a / b }
func (realCaps[T]) Neg(a T) T        { return -a }
func (realCaps[T]) Less(a, b T) bool { return a < b }
func (realCaps[T]) IsZero(a T) bool  { return a == 0 }

func (realCaps[T]) Abs(a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func (realCaps[T]) FromFloat(f float64) T { return T(f) }
func (realCaps[T]) FromInt(i int64) T     { return T(i) }
func (realCaps[T]) Float(a T) float64     { return float64(a) }

func (c realCaps[T]) IsNaN(a T) bool {
	return c.kind == KindFloat && math.IsNaN(float64(a))
}

func (c realCaps[T]) scalar(a T) scalar {
	if c.kind == KindInteger {
		return scalar{re: float64(a), i: int64(a), integer: true}
	}
	return scalar{re: float64(a)}
}

func (c realCaps[T]) fromScalar(s scalar) T {
	if s.integer {
		return T(s.i)
	}
	return T(s.re)
}

type complexCaps[T Complex] struct{}

func (complexCaps[T]) Kind() Kind       { return KindComplex }
func (complexCaps[T]) Ordered() bool    { return false }
func (complexCaps[T]) Add(a, b T) T     { return a + b }
func (complexCaps[T]) Sub(a, b T) T     { return a - b }
func (complexCaps[T]) Mul(a, b T) T     { return a * b }
func (complexCaps[T]) Div(a, b T) T     { return a / b }
func (complexCaps[T]) Neg(a T) T        { return -a }
func (complexCaps[T]) Less(_, _ T) bool { return false }
func (complexCaps[T]) IsZero(a T) bool  { return a == 0 }

func (complexCaps[T]) Abs(a T) T {
	return T(complex(cmplx.Abs(complex128(a)), 0))
}

func (complexCaps[T]) FromFloat(f float64) T { return T(complex(f, 0)) }
func (complexCaps[T]) FromInt(i int64) T     { return T(complex(float64(i), 0)) }
func (complexCaps[T]) Float(a T) float64     { return real(complex128(a)) }
func (complexCaps[T]) IsNaN(a T) bool        { return cmplx.IsNaN(complex128(a)) }

func (complexCaps[T]) scalar(a T) scalar {
	c := complex128(a)
	return scalar{re: real(c), im: imag(c)}
}

func (complexCaps[T]) fromScalar(s scalar) T {
	if s.integer {
		return T(complex(float64(s.i), 0))
	}
	return T(complex(s.re, s.im))
}
