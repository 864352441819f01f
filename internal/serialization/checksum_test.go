package serialization

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// TestChecksum_KnownVectors checks both checksum entry points against
// published SHA-256 vectors.
func TestChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}

	for _, tt := range tests {
		sum := ComputeChecksum([]byte(tt.input))
		if got := hex.EncodeToString(sum[:]); got != tt.want {
			t.Errorf("ComputeChecksum(%q) = %s, want %s", tt.input, got, tt.want)
		}
		streamed, err := ComputeChecksumReader(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("ComputeChecksumReader: %v", err)
		}
		if streamed != sum {
			t.Errorf("reader checksum differs for %q", tt.input)
		}
	}
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("payload"))
	if err := ValidateChecksum(sum, sum); err != nil {
		t.Errorf("matching checksums: %v", err)
	}
	other := sum
	other[0] ^= 0xFF
	if err := ValidateChecksum(sum, other); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}
}
