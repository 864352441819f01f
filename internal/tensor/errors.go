package tensor

import "github.com/pkg/errors"

// Error taxonomy. Every failure returned by this package matches exactly one
// of these sentinels via errors.Is; call sites add context with errors.Wrapf.
var (
	// ErrInvalidArgument reports a malformed shape or stride, a zero extent,
	// a nil buffer or an otherwise unusable argument.
	ErrInvalidArgument = errors.New("tensor: invalid argument")

	// ErrOutOfRange reports an index, dimension or offset outside its bounds,
	// or operands whose element counts differ.
	ErrOutOfRange = errors.New("tensor: out of range")

	// ErrContiguity reports a reshape or view requested on a layout that is
	// not contiguous enough to be reinterpreted without a copy.
	ErrContiguity = errors.New("tensor: layout is not contiguous")

	// ErrDomain reports an operation that is undefined for the element type,
	// e.g. ordering complex numbers or integer division by zero.
	ErrDomain = errors.New("tensor: operation undefined for element type")

	// ErrLength reports a copy between operands of different element counts.
	ErrLength = errors.New("tensor: length mismatch")
)

func invalidArgf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func outOfRangef(format string, args ...any) error {
	return errors.Wrapf(ErrOutOfRange, format, args...)
}

func contiguityf(format string, args ...any) error {
	return errors.Wrapf(ErrContiguity, format, args...)
}

func domainf(format string, args ...any) error {
	return errors.Wrapf(ErrDomain, format, args...)
}

func lengthf(format string, args ...any) error {
	return errors.Wrapf(ErrLength, format, args...)
}

// Must panics if err is non-nil and returns v otherwise.
// Intended for tests and examples where a failure is a programming error.
func Must[V any](v V, err error) V {
	if err != nil {
		panic(err)
	}
	return v
}
