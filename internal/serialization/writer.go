package serialization

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/tensor"
)

// Writer writes view records to a codec stream. A buffer is written in full
// the first time a view referencing it is written; later views over the same
// buffer write only its tag.
type Writer struct {
	enc  codec.Encoder
	seen map[any]uint64
	next uint64
}

// NewWriter creates a record writer over enc.
func NewWriter(enc codec.Encoder) *Writer {
	return &Writer{enc: enc, seen: make(map[any]uint64), next: 1}
}

// Write appends one record for v:
//
//	[shape][stride][buffer: tag, first, (dtype, size, elements if first)][offset]
func Write[T tensor.Element](w *Writer, v *tensor.View[T]) error {
	if v == nil || v.Empty() {
		return errors.Wrap(tensor.ErrInvalidArgument, "serialization: write of an empty view")
	}
	if err := w.ints(v.Shape()); err != nil {
		return err
	}
	if err := w.ints(v.Stride()); err != nil {
		return err
	}
	if err := writeBuffer(w, v.Buffer()); err != nil {
		return err
	}
	return errors.Wrap(w.enc.EncodeInt64(int64(v.Offset())), "serialization: offset")
}

// WriteAny writes a record for a *tensor.View[T] held in an interface.
func (w *Writer) WriteAny(v any) error {
	switch v := v.(type) {
	case *tensor.View[int8]:
		return Write(w, v)
	case *tensor.View[int16]:
		return Write(w, v)
	case *tensor.View[int32]:
		return Write(w, v)
	case *tensor.View[int64]:
		return Write(w, v)
	case *tensor.View[uint8]:
		return Write(w, v)
	case *tensor.View[float32]:
		return Write(w, v)
	case *tensor.View[float64]:
		return Write(w, v)
	case *tensor.View[complex64]:
		return Write(w, v)
	case *tensor.View[complex128]:
		return Write(w, v)
	default:
		return errors.Wrapf(tensor.ErrInvalidArgument, "serialization: unsupported value %T", v)
	}
}

// Flush flushes the underlying encoder.
func (w *Writer) Flush() error {
	return w.enc.Flush()
}

func (w *Writer) ints(xs []int) error {
	if err := w.enc.EncodeArrayLen(len(xs)); err != nil {
		return errors.Wrap(err, "serialization: array length")
	}
	for _, x := range xs {
		if err := w.enc.EncodeInt64(int64(x)); err != nil {
			return errors.Wrap(err, "serialization: array element")
		}
	}
	return nil
}

func writeBuffer[T tensor.Element](w *Writer, buf *tensor.Buffer[T]) error {
	if tag, ok := w.seen[buf]; ok {
		logrus.WithField("tag", tag).Debug("buffer already written, writing reference")
		if err := w.enc.EncodeUint64(tag); err != nil {
			return errors.Wrap(err, "serialization: buffer tag")
		}
		return errors.Wrap(w.enc.EncodeBool(false), "serialization: buffer marker")
	}

	tag := w.next
	w.next++
	w.seen[buf] = tag
	logrus.WithFields(logrus.Fields{
		"tag":   tag,
		"dtype": buf.DType(),
		"size":  buf.Len(),
	}).Debug("writing buffer")

	if err := w.enc.EncodeUint64(tag); err != nil {
		return errors.Wrap(err, "serialization: buffer tag")
	}
	if err := w.enc.EncodeBool(true); err != nil {
		return errors.Wrap(err, "serialization: buffer marker")
	}
	if err := w.enc.EncodeUint8(uint8(buf.DType())); err != nil {
		return errors.Wrap(err, "serialization: dtype")
	}
	if err := w.enc.EncodeInt64(int64(buf.Len())); err != nil {
		return errors.Wrap(err, "serialization: buffer size")
	}
	return errors.Wrap(encodeElements(w.enc, buf.Data()), "serialization: elements")
}

func encodeElements[T tensor.Element](enc codec.Encoder, data []T) error {
	switch d := any(data).(type) {
	case []int8:
		for _, x := range d {
			if err := enc.EncodeInt8(x); err != nil {
				return err
			}
		}
	case []int16:
		for _, x := range d {
			if err := enc.EncodeInt16(x); err != nil {
				return err
			}
		}
	case []int32:
		for _, x := range d {
			if err := enc.EncodeInt32(x); err != nil {
				return err
			}
		}
	case []int64:
		for _, x := range d {
			if err := enc.EncodeInt64(x); err != nil {
				return err
			}
		}
	case []uint8:
		for _, x := range d {
			if err := enc.EncodeUint8(x); err != nil {
				return err
			}
		}
	case []float32:
		for _, x := range d {
			if err := enc.EncodeFloat32(x); err != nil {
				return err
			}
		}
	case []float64:
		for _, x := range d {
			if err := enc.EncodeFloat64(x); err != nil {
				return err
			}
		}
	case []complex64:
		for _, x := range d {
			if err := enc.EncodeFloat32(real(x)); err != nil {
				return err
			}
			if err := enc.EncodeFloat32(imag(x)); err != nil {
				return err
			}
		}
	case []complex128:
		for _, x := range d {
			if err := enc.EncodeFloat64(real(x)); err != nil {
				return err
			}
			if err := enc.EncodeFloat64(imag(x)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteOptions configures archive encoding.
type WriteOptions struct {
	Codec codec.Kind
}

// DefaultWriteOptions uses the msgpack codec.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Codec: codec.Msgpack}
}

// Encode writes archive a to out: the fixed header followed by the payload.
func Encode(out io.Writer, a *Archive, opts WriteOptions) error {
	if opts.Codec == 0 {
		opts.Codec = codec.Msgpack
	}

	header := Header{
		FormatVersion: FormatVersion,
		Codec:         opts.Codec.String(),
		CreatedAt:     a.CreatedAt,
		Entries:       make([]EntryMeta, 0, a.Len()),
		Metadata:      a.Metadata,
	}
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}
	for _, e := range a.entries {
		d := describe(e.View)
		header.Entries = append(header.Entries, EntryMeta{
			Name:  e.Name,
			DType: d.DType.String(),
			Shape: d.Shape,
		})
	}

	var payload bytes.Buffer
	enc, err := codec.NewEncoder(opts.Codec, &payload)
	if err != nil {
		return err
	}
	if err := enc.EncodeJSON(header); err != nil {
		return errors.Wrap(err, "serialization: header")
	}
	w := NewWriter(enc)
	for _, e := range a.entries {
		if err := w.WriteAny(e.View); err != nil {
			return errors.Wrapf(err, "entry %q", e.Name)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"entries": a.Len(),
		"buffers": len(w.seen),
		"codec":   opts.Codec,
		"bytes":   payload.Len(),
	}).Debug("encoded archive")

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flagsFor(opts.Codec, a.Metadata))
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(payload.Len()))
	checksum := ComputeChecksum(payload.Bytes())
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := out.Write(fixed); err != nil {
		return errors.Wrap(err, "failed to write fixed header")
	}
	if _, err := out.Write(payload.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write payload")
	}
	return nil
}

// SaveFile encodes a into the file at path, replacing it if it exists.
func SaveFile(path string, a *Archive, opts WriteOptions) (err error) {
	//nolint:gosec // G304: path comes from the caller
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return Encode(f, a, opts)
}
