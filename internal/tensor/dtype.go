// Package tensor provides the strided view engine: reference-counted buffers,
// views with arbitrary shape/stride/offset, and the elementwise, reduction and
// sort algorithms that traverse them.
package tensor

// Integer is the set of supported integer element types.
type Integer interface {
	int8 | int16 | int32 | int64 | uint8
}

// Float is the set of supported floating-point element types.
type Float interface {
	float32 | float64
}

// Real is the set of ordered element types.
type Real interface {
	Integer | Float
}

// Complex is the set of supported complex element types.
// Complex elements have no ordering.
type Complex interface {
	complex64 | complex128
}

// Element is a constraint for every type a Buffer or View can hold.
// Type sets are exact (no ~) so runtime dispatch on the element type is total.
type Element interface {
	Real | Complex
}

// DataType represents runtime type information for buffers and views.
type DataType uint8

// Supported data types. Values are persisted by the serialization layer and
// must not be reordered.
const (
	Int8 DataType = iota + 1
	Int16
	Int32
	Int64
	Uint8
	Float32
	Float64
	Complex64
	Complex128
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// Valid reports whether dt names a supported data type.
func (dt DataType) Valid() bool {
	return dt >= Int8 && dt <= Complex128
}

// ParseDataType converts a name produced by String back to a DataType.
func ParseDataType(s string) (DataType, error) {
	for dt := Int8; dt <= Complex128; dt++ {
		if dt.String() == s {
			return dt, nil
		}
	}
	return 0, invalidArgf("unknown data type %q", s)
}

// DataTypeOf returns the DataType of the element type T.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
