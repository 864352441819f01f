package serialization

import (
	"fmt"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxPayloadSize  = 1 << 40 // 1 TiB
	MaxEntryCount   = 100_000
	MaxEntryNameLen = 4096
	MaxRank         = 64
	MaxMetadataSize = 10 * 1024 * 1024 // 10MB of keys and values
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic checks only.
	ValidationNormal
	// ValidationNone skips validation, including the checksum. Use only with
	// trusted input.
	ValidationNone
)

// String returns the level name used in configuration files.
func (l ValidationLevel) String() string {
	switch l {
	case ValidationStrict:
		return "strict"
	case ValidationNormal:
		return "normal"
	case ValidationNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseValidationLevel converts a level name to a ValidationLevel.
func ParseValidationLevel(s string) (ValidationLevel, error) {
	switch strings.ToLower(s) {
	case "strict", "":
		return ValidationStrict, nil
	case "normal":
		return ValidationNormal, nil
	case "none":
		return ValidationNone, nil
	default:
		return 0, &ValidationError{Type: "invalid_level", Details: fmt.Sprintf("unknown validation level %q", s)}
	}
}

// ValidateEntryName rejects names that are empty, too long, or that could be
// mistaken for paths when entries are exported.
func ValidateEntryName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty name"}
	}
	if len(name) > MaxEntryNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Entry:   name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxEntryNameLen),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{Type: "invalid_name", Entry: name, Details: "contains '..'"}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{Type: "invalid_name", Entry: name, Details: "contains path separator (/ or \\)"}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{Type: "invalid_name", Entry: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateShape checks a decoded shape/stride pair before it reaches the view
// constructor, which performs the authoritative bounds check.
func ValidateShape(shape, stride []int) error {
	if len(shape) > MaxRank {
		return &ValidationError{Type: "rank_too_large", Details: fmt.Sprintf("rank %d > max %d", len(shape), MaxRank)}
	}
	if len(shape) != len(stride) {
		return &ValidationError{
			Type:    "rank_mismatch",
			Details: fmt.Sprintf("shape has %d dims, stride has %d", len(shape), len(stride)),
		}
	}
	return nil
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if h.FormatVersion != FormatVersion {
		return &ValidationError{
			Type:    "version_mismatch",
			Details: fmt.Sprintf("header version %d, expected %d", h.FormatVersion, FormatVersion),
		}
	}
	if len(h.Entries) > MaxEntryCount {
		return &ValidationError{
			Type:    "too_many_entries",
			Details: fmt.Sprintf("got %d, max %d", len(h.Entries), MaxEntryCount),
		}
	}

	seen := make(map[string]struct{}, len(h.Entries))
	for _, e := range h.Entries {
		if err := ValidateEntryName(e.Name); err != nil {
			return err
		}
		if _, ok := seen[e.Name]; ok {
			return &ValidationError{Type: "duplicate_name", Entry: e.Name, Details: "name appears twice"}
		}
		seen[e.Name] = struct{}{}
	}

	if level == ValidationStrict {
		metaSize := 0
		for k, v := range h.Metadata {
			metaSize += len(k) + len(v)
		}
		if metaSize > MaxMetadataSize {
			return &ValidationError{
				Type:    "metadata_too_large",
				Details: fmt.Sprintf("%d bytes > max %d", metaSize, MaxMetadataSize),
			}
		}
		for _, e := range h.Entries {
			if _, ok := dataTypeName(e.DType); !ok {
				return &ValidationError{Type: "invalid_dtype", Entry: e.Name, Details: fmt.Sprintf("unknown dtype %q", e.DType)}
			}
			if len(e.Shape) > MaxRank {
				return &ValidationError{Type: "rank_too_large", Entry: e.Name, Details: fmt.Sprintf("rank %d", len(e.Shape))}
			}
			for _, n := range e.Shape {
				if n <= 0 {
					return &ValidationError{Type: "invalid_shape", Entry: e.Name, Details: fmt.Sprintf("shape %v", e.Shape)}
				}
			}
		}
	}

	return nil
}
