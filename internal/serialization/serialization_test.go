package serialization

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/tensor"
)

// buildArchive returns an archive in which "matrix", "row" and "transposed"
// share one buffer and "bias" has its own.
func buildArchive(t *testing.T) *Archive {
	t.Helper()
	data := make([]float64, 12)
	for i := range data {
		data[i] = float64(i) * 1.5
	}
	m := tensor.Must(tensor.FromSlice(data, 3, 4))
	row := tensor.Must(m.Select(0, 1))
	tr := tensor.Must(m.Transpose(0, 1))
	bias := tensor.Must(tensor.FromSlice([]float32{1, -2, 3.5}, 3))
	labels := tensor.Must(tensor.FromSlice([]complex128{1 + 2i, -3i}, 2))

	a := NewArchive()
	a.Metadata["origin"] = "test"
	for _, err := range []error{
		Add(a, "matrix", m),
		Add(a, "row", row),
		Add(a, "transposed", tr),
		Add(a, "bias", bias),
		Add(a, "labels", labels),
	} {
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return a
}

// TestRoundTrip_PreservesAliasing is the defining property of the format:
// views that shared a buffer before saving share one buffer after loading.
func TestRoundTrip_PreservesAliasing(t *testing.T) {
	for _, kind := range []codec.Kind{codec.Msgpack, codec.JSON} {
		t.Run(kind.String(), func(t *testing.T) {
			src := buildArchive(t)

			var buf bytes.Buffer
			if err := Encode(&buf, src, WriteOptions{Codec: kind}); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			dst, err := Decode(buf.Bytes(), ReaderOptions{})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if got := dst.Names(); len(got) != 5 || got[0] != "matrix" || got[4] != "labels" {
				t.Fatalf("Names() = %v", got)
			}
			if dst.Metadata["origin"] != "test" {
				t.Errorf("metadata lost: %v", dst.Metadata)
			}

			m, err := Get[float64](dst, "matrix")
			if err != nil {
				t.Fatal(err)
			}
			row, _ := Get[float64](dst, "row")
			tr, _ := Get[float64](dst, "transposed")
			bias, _ := Get[float32](dst, "bias")
			labels, _ := Get[complex128](dst, "labels")

			if !m.SameBuffer(row) || !m.SameBuffer(tr) {
				t.Fatal("aliased views were restored onto separate buffers")
			}
			if m.Buffer().RefCount() != 3 {
				t.Errorf("RefCount = %d, want 3", m.Buffer().RefCount())
			}

			orig, _ := Get[float64](src, "transposed")
			if !tr.Shape().Equal(orig.Shape()) || tr.Offset() != orig.Offset() {
				t.Errorf("geometry changed: %v/%d vs %v/%d", tr.Shape(), tr.Offset(), orig.Shape(), orig.Offset())
			}
			if s := tr.Stride(); s[0] != 1 || s[1] != 4 {
				t.Errorf("stride = %v, want [1 4]", s)
			}
			if r := row.Offset(); r != 4 {
				t.Errorf("row offset = %d, want 4", r)
			}
			for _, name := range []string{"matrix", "row", "transposed"} {
				want, _ := Get[float64](src, name)
				got, _ := Get[float64](dst, name)
				if !tensor.Equal(want, got) {
					t.Errorf("%s: values differ", name)
				}
			}
			if got := bias.ToSlice(); got[0] != 1 || got[1] != -2 || got[2] != 3.5 {
				t.Errorf("bias = %v", got)
			}
			if got := labels.ToSlice(); got[0] != 1+2i || got[1] != -3i {
				t.Errorf("labels = %v", got)
			}

			// A write through one restored view is visible through its aliases.
			if err := m.SetAt(-1, 1, 2); err != nil {
				t.Fatal(err)
			}
			if x, _ := row.At(2); x != -1 {
				t.Errorf("row[2] = %v after write through matrix", x)
			}
			if x, _ := tr.At(2, 1); x != -1 {
				t.Errorf("transposed[2,1] = %v after write through matrix", x)
			}
		})
	}
}

func TestArchive_Info(t *testing.T) {
	a := buildArchive(t)
	infos := a.Info()
	if len(infos) != 5 {
		t.Fatalf("len = %d", len(infos))
	}
	if infos[0].BufferID != 1 || infos[1].BufferID != 1 || infos[2].BufferID != 1 {
		t.Errorf("shared entries have different ids: %+v", infos[:3])
	}
	if infos[3].BufferID != 2 || infos[4].BufferID != 3 {
		t.Errorf("independent buffers share ids: %+v", infos[3:])
	}
	if infos[2].Contiguous {
		t.Error("transposed view reported contiguous")
	}
	if infos[3].DType != tensor.Float32 || infos[3].BufferLen != 3 {
		t.Errorf("bias info = %+v", infos[3])
	}
}

func TestArchive_Errors(t *testing.T) {
	a := buildArchive(t)
	v := tensor.Must(tensor.New[int8](2))
	if err := Add(a, "matrix", v); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate: %v", err)
	}
	if err := Add(a, "a/b", v); err == nil {
		t.Error("expected invalid name")
	}
	if err := Add(a, "empty", &tensor.View[int8]{}); !errors.Is(err, tensor.ErrInvalidArgument) {
		t.Errorf("empty view: %v", err)
	}
	if _, err := Get[float64](a, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, err := Get[int32](a, "matrix"); !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("dtype: %v", err)
	}
}

func TestDecode_Corruption(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, buildArchive(t), DefaultWriteOptions()); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		opts   ReaderOptions
		want   error
	}{
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, ReaderOptions{}, ErrInvalidMagic},
		{"version", func(b []byte) []byte { b[4] = 9; return b }, ReaderOptions{}, ErrUnsupportedVersion},
		{"payload flip", func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }, ReaderOptions{}, ErrChecksumMismatch},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-3] }, ReaderOptions{}, ErrTruncated},
		{"truncated header", func(b []byte) []byte { return b[:10] }, ReaderOptions{}, ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), good...))
			if _, err := Decode(data, tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}

	// A damaged stored checksum is only noticed when checksums are verified.
	data := append([]byte(nil), good...)
	data[ChecksumOffset] ^= 0x01
	if _, err := Decode(data, ReaderOptions{}); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("damaged checksum: %v", err)
	}
	if _, err := Decode(data, ReaderOptions{SkipChecksumValidation: true}); err != nil {
		t.Errorf("SkipChecksumValidation: %v", err)
	}
}

// encodeRecord writes a hand-built record for malformed-input tests.
func encodeRecord(t *testing.T, shape, stride []int64, elems []float64, offset int64) *Reader {
	t.Helper()
	var buf bytes.Buffer
	enc, _ := codec.NewEncoder(codec.Msgpack, &buf)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(enc.EncodeArrayLen(len(shape)))
	for _, x := range shape {
		must(enc.EncodeInt64(x))
	}
	must(enc.EncodeArrayLen(len(stride)))
	for _, x := range stride {
		must(enc.EncodeInt64(x))
	}
	must(enc.EncodeUint64(1))
	must(enc.EncodeBool(true))
	must(enc.EncodeUint8(uint8(tensor.Float64)))
	must(enc.EncodeInt64(int64(len(elems))))
	for _, x := range elems {
		must(enc.EncodeFloat64(x))
	}
	must(enc.EncodeInt64(offset))
	must(enc.Flush())

	dec, _ := codec.NewDecoder(codec.Msgpack, &buf)
	return NewReader(dec)
}

// TestReader_RevalidatesGeometry checks that loading fails exactly as the
// view constructor does.
func TestReader_RevalidatesGeometry(t *testing.T) {
	tests := []struct {
		name   string
		shape  []int64
		stride []int64
		offset int64
		want   error
	}{
		{"past end", []int64{3}, []int64{1}, 0, tensor.ErrOutOfRange},
		{"negative offset", []int64{2}, []int64{1}, -1, tensor.ErrOutOfRange},
		{"zero extent", []int64{0}, []int64{1}, 0, tensor.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := encodeRecord(t, tt.shape, tt.stride, []float64{1, 2}, tt.offset)
			if _, err := Read[float64](r); !errors.Is(err, tt.want) {
				t.Errorf("Read error = %v, want %v", err, tt.want)
			}
		})
	}

	r := encodeRecord(t, []int64{2}, []int64{-1}, []float64{1, 2}, 1)
	v, err := Read[float64](r)
	if err != nil {
		t.Fatalf("negative stride record: %v", err)
	}
	if got := v.ToSlice(); got[0] != 2 || got[1] != 1 {
		t.Errorf("reversed view = %v", got)
	}
}

func TestReader_DTypeMismatchAndUnknownTag(t *testing.T) {
	r := encodeRecord(t, []int64{2}, []int64{1}, []float64{1, 2}, 0)
	if _, err := Read[int64](r); !errors.Is(err, ErrDTypeMismatch) {
		t.Errorf("dtype mismatch: %v", err)
	}

	var buf bytes.Buffer
	enc, _ := codec.NewEncoder(codec.JSON, &buf)
	_ = enc.EncodeArrayLen(1)
	_ = enc.EncodeInt64(2)
	_ = enc.EncodeArrayLen(1)
	_ = enc.EncodeInt64(1)
	_ = enc.EncodeUint64(42)
	_ = enc.EncodeBool(false)
	_ = enc.EncodeInt64(0)
	_ = enc.Flush()
	dec, _ := codec.NewDecoder(codec.JSON, &buf)
	if _, err := NewReader(dec).ReadAny(); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("unknown tag: %v", err)
	}
}

// TestWriter_SharedBufferWrittenOnce checks that a second view over the same
// buffer costs only a reference.
func TestWriter_SharedBufferWrittenOnce(t *testing.T) {
	m := tensor.Must(tensor.Zeros[float64](64, 64))
	row := tensor.Must(m.Select(0, 3))

	size := func(views ...*tensor.View[float64]) int {
		var buf bytes.Buffer
		enc, _ := codec.NewEncoder(codec.Msgpack, &buf)
		w := NewWriter(enc)
		for _, v := range views {
			if err := Write(w, v); err != nil {
				t.Fatal(err)
			}
		}
		_ = w.Flush()
		return buf.Len()
	}

	one := size(m)
	two := size(m, row)
	if two-one > 64 {
		t.Errorf("aliased view added %d bytes", two-one)
	}
	independent := size(m, row.Clone())
	if independent-one < 64*4 {
		t.Errorf("independent copy added only %d bytes", independent-one)
	}
}

func TestSaveFile_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.strd")
	if err := SaveFile(path, buildArchive(t), WriteOptions{Codec: codec.JSON}); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	a, err := OpenFile(path, ReaderOptions{ValidationLevel: ValidationStrict})
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	m, _ := Get[float64](a, "matrix")
	row, _ := Get[float64](a, "row")
	if !m.SameBuffer(row) {
		t.Error("aliasing lost through mmap path")
	}

	r, err := NewMmapReader(path)
	if err != nil {
		t.Fatal(err)
	}
	st, _ := os.Stat(path)
	if got := r.PayloadSize() + FixedHeaderSize; int64(got) != st.Size() {
		t.Errorf("payload size %d + header != file size %d", r.PayloadSize(), st.Size())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := r.Archive(ReaderOptions{}); err == nil {
		t.Error("expected error after Close")
	}

	b, err := ReadFile(path, ReaderOptions{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if b.Len() != a.Len() {
		t.Errorf("ReadFile entries = %d, OpenFile entries = %d", b.Len(), a.Len())
	}
}

func TestNewMmapReader_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewMmapReader(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
	small := filepath.Join(dir, "small")
	if err := os.WriteFile(small, []byte("STRD"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMmapReader(small); !errors.Is(err, ErrTruncated) {
		t.Errorf("small file: %v", err)
	}
}
