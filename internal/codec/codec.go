// Package codec provides the scalar wire codecs used by the serialization
// layer. An Encoder writes a flat stream of primitive values and JSON
// documents; the matching Decoder reads them back in the same order.
package codec

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects a codec implementation. Values are persisted in archive
// headers and must not be reordered.
type Kind uint8

// Supported codecs.
const (
	Msgpack Kind = 1
	JSON    Kind = 2
)

// ErrUnsupportedKind is returned for unknown codec kinds.
var ErrUnsupportedKind = errors.New("codec: unsupported kind")

// String returns the codec name.
func (k Kind) String() string {
	switch k {
	case Msgpack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseKind converts a codec name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "msgpack":
		return Msgpack, nil
	case "json":
		return JSON, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedKind, "%q", s)
	}
}

// Encoder writes primitive values. Method names follow msgpack.Encoder.
type Encoder interface {
	EncodeArrayLen(l int) error
	// EncodeJSON writes v as a self-describing document.
	EncodeJSON(v interface{}) error

	EncodeInt8(v int8) error
	EncodeUint8(v uint8) error
	EncodeInt16(v int16) error
	EncodeInt32(v int32) error
	EncodeInt64(v int64) error
	EncodeUint64(v uint64) error
	EncodeFloat32(f float32) error
	EncodeFloat64(f float64) error
	EncodeString(s string) error
	EncodeBool(b bool) error
	EncodeNil() error

	Flush() error
}

// Decoder reads values written by the Encoder of the same Kind.
type Decoder interface {
	DecodeArrayLen() (int, error)
	DecodeJSON(destination interface{}) error

	DecodeInt8() (int8, error)
	DecodeUint8() (uint8, error)
	DecodeInt16() (int16, error)
	DecodeInt32() (int32, error)
	DecodeInt64() (int64, error)
	DecodeUint64() (uint64, error)
	DecodeFloat32() (float32, error)
	DecodeFloat64() (float64, error)
	DecodeString() (string, error)
	DecodeBool() (bool, error)
	DecodeNil() error
}

// NewEncoder creates an encoder of the given kind writing to w.
func NewEncoder(kind Kind, w io.Writer) (Encoder, error) {
	switch kind {
	case Msgpack:
		return newMsgpackEncoder(w), nil
	case JSON:
		return newJSONEncoder(w), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedKind, "kind %d", kind)
	}
}

// NewDecoder creates a decoder of the given kind reading from r.
func NewDecoder(kind Kind, r io.Reader) (Decoder, error) {
	switch kind {
	case Msgpack:
		return newMsgpackDecoder(r), nil
	case JSON:
		return newJSONDecoder(r), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedKind, "kind %d", kind)
	}
}
