package serialization

import (
	"time"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "STRD"
	FormatVersion   = 1
	FixedHeaderSize = 64   // fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x18 // checksum offset in the fixed header
)

// Fixed header layout (little endian):
//
//	0x00-0x03  magic "STRD"
//	0x04-0x07  version
//	0x08-0x0B  flags
//	0x0C-0x0F  reserved
//	0x10-0x17  payload size
//	0x18-0x37  SHA-256 of the payload
//	0x38-0x3F  reserved

// Flags for the archive format. The low byte carries the codec kind.
const (
	FlagCodecMask   uint32 = 0xFF
	FlagHasMetadata uint32 = 1 << 8
)

// Header is the first document of the payload stream.
type Header struct {
	FormatVersion int               `json:"format_version"`
	Codec         string            `json:"codec"`
	CreatedAt     time.Time         `json:"created_at"`
	Entries       []EntryMeta       `json:"entries"`
	Metadata      map[string]string `json:"metadata"`
}

// EntryMeta describes one named view in the archive. The payload record is
// authoritative; the header copy lets readers list an archive cheaply.
type EntryMeta struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
	Shape []int  `json:"shape"`
}

// flagsFor builds the fixed header flags.
func flagsFor(kind codec.Kind, metadata map[string]string) uint32 {
	flags := uint32(kind) & FlagCodecMask
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	return flags
}

// dataTypeName validates a header dtype string.
func dataTypeName(s string) (tensor.DataType, bool) {
	dt, err := tensor.ParseDataType(s)
	return dt, err == nil
}
