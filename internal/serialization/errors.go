package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTruncated          = errors.New("archive truncated")
	ErrUnknownBuffer      = errors.New("reference to a buffer that was never written")
	ErrDTypeMismatch      = errors.New("element type mismatch")
	ErrDuplicateName      = errors.New("duplicate entry name")
	ErrNotFound           = errors.New("entry not found")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // e.g. "too_many_entries", "invalid_name"
	Entry   string // entry name, if any
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s: entry %q: %s", e.Type, e.Entry, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
