package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/tensor"
)

// Reader reads records written by Writer and restores buffer sharing.
type Reader struct {
	dec     codec.Decoder
	buffers map[uint64]any
	// limit bounds buffer sizes before allocation; 0 disables the check.
	limit int64
}

// NewReader creates a record reader over dec.
func NewReader(dec codec.Decoder) *Reader {
	return &Reader{dec: dec, buffers: make(map[uint64]any)}
}

type record struct {
	shape  tensor.Shape
	stride []int
	offset int
	buf    any
}

// Read reads the next record as a *tensor.View[T]. A record holding a
// different element type fails with ErrDTypeMismatch.
func Read[T tensor.Element](r *Reader) (*tensor.View[T], error) {
	v, err := r.ReadAny()
	if err != nil {
		return nil, err
	}
	typed, ok := v.(*tensor.View[T])
	if !ok {
		return nil, errors.Wrapf(ErrDTypeMismatch, "record is %s, not %s", describe(v).DType, tensor.DataTypeOf[T]())
	}
	return typed, nil
}

// ReadAny reads the next record and returns a *tensor.View[T] whose element
// type is the one recorded in the stream. Shape, stride and offset are
// validated the same way NewFromBuffer validates them.
func (r *Reader) ReadAny() (any, error) {
	rec, err := r.record()
	if err != nil {
		return nil, err
	}
	switch b := rec.buf.(type) {
	case *tensor.Buffer[int8]:
		return build(b, rec)
	case *tensor.Buffer[int16]:
		return build(b, rec)
	case *tensor.Buffer[int32]:
		return build(b, rec)
	case *tensor.Buffer[int64]:
		return build(b, rec)
	case *tensor.Buffer[uint8]:
		return build(b, rec)
	case *tensor.Buffer[float32]:
		return build(b, rec)
	case *tensor.Buffer[float64]:
		return build(b, rec)
	case *tensor.Buffer[complex64]:
		return build(b, rec)
	case *tensor.Buffer[complex128]:
		return build(b, rec)
	default:
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "serialization: unsupported buffer %T", b)
	}
}

func build[T tensor.Element](b *tensor.Buffer[T], rec *record) (any, error) {
	v, err := tensor.NewFromBuffer(b, rec.offset, rec.shape, rec.stride)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Reader) record() (*record, error) {
	shape, err := r.ints()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: shape")
	}
	stride, err := r.ints()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: stride")
	}
	if err := ValidateShape(shape, stride); err != nil {
		return nil, err
	}

	tag, err := r.dec.DecodeUint64()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: buffer tag")
	}
	first, err := r.dec.DecodeBool()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: buffer marker")
	}

	rec := &record{shape: tensor.Shape(shape), stride: stride}
	if first {
		if _, dup := r.buffers[tag]; dup {
			return nil, &ValidationError{Type: "duplicate_buffer", Details: "buffer tag written twice"}
		}
		if rec.buf, err = r.readBuffer(); err != nil {
			return nil, err
		}
		r.buffers[tag] = rec.buf
		logrus.WithField("tag", tag).Debug("restored buffer")
	} else {
		buf, ok := r.buffers[tag]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownBuffer, "tag %d", tag)
		}
		rec.buf = buf
	}

	offset, err := r.dec.DecodeInt64()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: offset")
	}
	rec.offset = int(offset)
	return rec, nil
}

func (r *Reader) ints() ([]int, error) {
	n, err := r.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n > MaxRank {
		return nil, &ValidationError{Type: "rank_too_large", Details: "array longer than the maximum rank"}
	}
	xs := make([]int, n)
	for i := range xs {
		x, err := r.dec.DecodeInt64()
		if err != nil {
			return nil, err
		}
		xs[i] = int(x)
	}
	return xs, nil
}

func (r *Reader) readBuffer() (any, error) {
	code, err := r.dec.DecodeUint8()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: dtype")
	}
	dt := tensor.DataType(code)
	if !dt.Valid() {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "serialization: unknown dtype %d", code)
	}
	size, err := r.dec.DecodeInt64()
	if err != nil {
		return nil, errors.Wrap(err, "serialization: buffer size")
	}
	if size < 0 || (r.limit > 0 && size > r.limit) {
		return nil, &ValidationError{Type: "buffer_too_large", Details: "buffer size exceeds the payload"}
	}

	n := int(size)
	switch dt {
	case tensor.Int8:
		return decodeBuffer[int8](r.dec, n)
	case tensor.Int16:
		return decodeBuffer[int16](r.dec, n)
	case tensor.Int32:
		return decodeBuffer[int32](r.dec, n)
	case tensor.Int64:
		return decodeBuffer[int64](r.dec, n)
	case tensor.Uint8:
		return decodeBuffer[uint8](r.dec, n)
	case tensor.Float32:
		return decodeBuffer[float32](r.dec, n)
	case tensor.Float64:
		return decodeBuffer[float64](r.dec, n)
	case tensor.Complex64:
		return decodeBuffer[complex64](r.dec, n)
	default:
		return decodeBuffer[complex128](r.dec, n)
	}
}

func decodeBuffer[T tensor.Element](dec codec.Decoder, n int) (any, error) {
	buf := tensor.NewBuffer[T](n)
	if err := decodeElements(dec, buf.Data()); err != nil {
		return nil, errors.Wrap(err, "serialization: elements")
	}
	return buf, nil
}

func decodeElements[T tensor.Element](dec codec.Decoder, data []T) error {
	var err error
	switch d := any(data).(type) {
	case []int8:
		for i := range d {
			if d[i], err = dec.DecodeInt8(); err != nil {
				return err
			}
		}
	case []int16:
		for i := range d {
			if d[i], err = dec.DecodeInt16(); err != nil {
				return err
			}
		}
	case []int32:
		for i := range d {
			if d[i], err = dec.DecodeInt32(); err != nil {
				return err
			}
		}
	case []int64:
		for i := range d {
			if d[i], err = dec.DecodeInt64(); err != nil {
				return err
			}
		}
	case []uint8:
		for i := range d {
			if d[i], err = dec.DecodeUint8(); err != nil {
				return err
			}
		}
	case []float32:
		for i := range d {
			if d[i], err = dec.DecodeFloat32(); err != nil {
				return err
			}
		}
	case []float64:
		for i := range d {
			if d[i], err = dec.DecodeFloat64(); err != nil {
				return err
			}
		}
	case []complex64:
		for i := range d {
			re, err := dec.DecodeFloat32()
			if err != nil {
				return err
			}
			im, err := dec.DecodeFloat32()
			if err != nil {
				return err
			}
			d[i] = complex(re, im)
		}
	case []complex128:
		for i := range d {
			re, err := dec.DecodeFloat64()
			if err != nil {
				return err
			}
			im, err := dec.DecodeFloat64()
			if err != nil {
				return err
			}
			d[i] = complex(re, im)
		}
	}
	return nil
}

// ReaderOptions configures archive decoding.
type ReaderOptions struct {
	SkipChecksumValidation bool
	ValidationLevel        ValidationLevel
	// MaxPayloadSize rejects larger payloads before any decoding; 0 means
	// the package limit MaxPayloadSize.
	MaxPayloadSize uint64
}

// fixedHeader is the decoded 64-byte prefix of an archive.
type fixedHeader struct {
	version     uint32
	flags       uint32
	payloadSize uint64
	checksum    [ChecksumSize]byte
}

func parseFixedHeader(data []byte) (fixedHeader, error) {
	var h fixedHeader
	if len(data) < FixedHeaderSize {
		return h, errors.Wrapf(ErrTruncated, "%d bytes, fixed header needs %d", len(data), FixedHeaderSize)
	}
	if string(data[0:4]) != MagicBytes {
		return h, ErrInvalidMagic
	}
	h.version = binary.LittleEndian.Uint32(data[4:8])
	if h.version != FormatVersion {
		return h, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", h.version, FormatVersion)
	}
	h.flags = binary.LittleEndian.Uint32(data[8:12])
	h.payloadSize = binary.LittleEndian.Uint64(data[16:24])
	if h.payloadSize > MaxPayloadSize {
		return h, &ValidationError{Type: "payload_too_large", Details: "payload exceeds the maximum size"}
	}
	copy(h.checksum[:], data[ChecksumOffset:ChecksumOffset+ChecksumSize])
	return h, nil
}

// Decode parses an archive from data. The returned views own fresh buffers
// and do not reference data.
func Decode(data []byte, opts ReaderOptions) (*Archive, error) {
	fixed, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	if opts.MaxPayloadSize > 0 && fixed.payloadSize > opts.MaxPayloadSize {
		return nil, &ValidationError{
			Type:    "payload_too_large",
			Details: fmt.Sprintf("%d bytes > max %d", fixed.payloadSize, opts.MaxPayloadSize),
		}
	}
	end := uint64(FixedHeaderSize) + fixed.payloadSize
	if uint64(len(data)) < end {
		return nil, errors.Wrapf(ErrTruncated, "payload needs %d bytes, have %d", fixed.payloadSize, len(data)-FixedHeaderSize)
	}
	payload := data[FixedHeaderSize:end]

	if opts.ValidationLevel != ValidationNone && !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(payload), fixed.checksum); err != nil {
			return nil, err
		}
	}

	kind := codec.Kind(fixed.flags & FlagCodecMask)
	dec, err := codec.NewDecoder(kind, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var header Header
	if err := dec.DecodeJSON(&header); err != nil {
		return nil, errors.Wrap(err, "failed to parse header")
	}
	if err := ValidateHeader(&header, opts.ValidationLevel); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	a := NewArchive()
	a.CreatedAt = header.CreatedAt
	if header.Metadata != nil {
		a.Metadata = header.Metadata
	}

	r := NewReader(dec)
	if opts.ValidationLevel != ValidationNone {
		r.limit = int64(len(payload))
	}
	for _, meta := range header.Entries {
		v, err := r.ReadAny()
		if err != nil {
			return nil, errors.Wrapf(err, "entry %q", meta.Name)
		}
		if opts.ValidationLevel == ValidationStrict {
			if err := checkEntry(meta, v); err != nil {
				return nil, err
			}
		}
		if err := a.add(meta.Name, v); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"entries": a.Len(),
		"buffers": len(r.buffers),
		"codec":   kind,
	}).Debug("decoded archive")
	return a, nil
}

// checkEntry compares a decoded record against its header description.
func checkEntry(meta EntryMeta, v any) error {
	d := describe(v)
	if d.DType.String() != meta.DType {
		return &ValidationError{Type: "header_mismatch", Entry: meta.Name, Details: "dtype " + d.DType.String() + " != " + meta.DType}
	}
	if !d.Shape.Equal(tensor.Shape(meta.Shape)) {
		return &ValidationError{Type: "header_mismatch", Entry: meta.Name, Details: "shape differs from header"}
	}
	return nil
}

// ReadFile reads and decodes the archive at path without memory mapping.
func ReadFile(path string, opts ReaderOptions) (*Archive, error) {
	//nolint:gosec // G304: path comes from the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return Decode(data, opts)
}
