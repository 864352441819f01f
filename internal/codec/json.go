package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// jsonEncoder writes one JSON value per line. Array lengths are written as
// plain integers, so the stream stays flat and readable with line tools.
// Non-finite floats are written as the strings "NaN", "+Inf" and "-Inf".
type jsonEncoder struct {
	w   *bufio.Writer
	buf []byte
}

func newJSONEncoder(w io.Writer) *jsonEncoder {
	return &jsonEncoder{w: bufio.NewWriter(w), buf: make([]byte, 0, 64)}
}

func (j *jsonEncoder) line(b []byte) error {
	b = append(b, '\n')
	_, err := j.w.Write(b)
	return err
}

func (j *jsonEncoder) int(v int64) error {
	return j.line(strconv.AppendInt(j.buf[:0], v, 10))
}

func (j *jsonEncoder) float(f float64, bits int) error {
	switch {
	case math.IsNaN(f):
		return j.line(append(j.buf[:0], `"NaN"`...))
	case math.IsInf(f, 1):
		return j.line(append(j.buf[:0], `"+Inf"`...))
	case math.IsInf(f, -1):
		return j.line(append(j.buf[:0], `"-Inf"`...))
	}
	return j.line(strconv.AppendFloat(j.buf[:0], f, 'g', -1, bits))
}

func (j *jsonEncoder) EncodeArrayLen(l int) error    { return j.int(int64(l)) }
func (j *jsonEncoder) EncodeInt8(v int8) error       { return j.int(int64(v)) }
func (j *jsonEncoder) EncodeUint8(v uint8) error     { return j.int(int64(v)) }
func (j *jsonEncoder) EncodeInt16(v int16) error     { return j.int(int64(v)) }
func (j *jsonEncoder) EncodeInt32(v int32) error     { return j.int(int64(v)) }
func (j *jsonEncoder) EncodeInt64(v int64) error     { return j.int(v) }
func (j *jsonEncoder) EncodeFloat32(f float32) error { return j.float(float64(f), 32) }
func (j *jsonEncoder) EncodeFloat64(f float64) error { return j.float(f, 64) }

func (j *jsonEncoder) EncodeUint64(v uint64) error {
	return j.line(strconv.AppendUint(j.buf[:0], v, 10))
}

func (j *jsonEncoder) EncodeBool(b bool) error {
	return j.line(strconv.AppendBool(j.buf[:0], b))
}

func (j *jsonEncoder) EncodeNil() error {
	return j.line(append(j.buf[:0], "null"...))
}

func (j *jsonEncoder) EncodeString(s string) error {
	return j.EncodeJSON(s)
}

func (j *jsonEncoder) EncodeJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "json: marshal")
	}
	return j.line(b)
}

func (j *jsonEncoder) Flush() error {
	return errors.Wrap(j.w.Flush(), "json: flush")
}

type jsonDecoder struct {
	r *bufio.Reader
}

func newJSONDecoder(r io.Reader) *jsonDecoder {
	return &jsonDecoder{r: bufio.NewReader(r)}
}

// next returns the next non-empty line without its terminator.
func (j *jsonDecoder) next() ([]byte, error) {
	for {
		line, err := j.r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

func (j *jsonDecoder) int(bits int) (int64, error) {
	line, err := j.next()
	if err != nil {
		return 0, err
	}
	v, err := jsonparser.ParseInt(line)
	if err != nil {
		return 0, errors.Wrapf(err, "json: integer %q", line)
	}
	if bits < 64 && (v < -(1<<(bits-1)) || v >= 1<<(bits-1)) {
		return 0, errors.Errorf("json: %d overflows int%d", v, bits)
	}
	return v, nil
}

func (j *jsonDecoder) float() (float64, error) {
	line, err := j.next()
	if err != nil {
		return 0, err
	}
	if len(line) >= 2 && line[0] == '"' {
		s, err := jsonparser.ParseString(line[1 : len(line)-1])
		if err != nil {
			return 0, errors.Wrapf(err, "json: float %q", line)
		}
		return strconv.ParseFloat(s, 64)
	}
	f, err := jsonparser.ParseFloat(line)
	return f, errors.Wrapf(err, "json: float %q", line)
}

func (j *jsonDecoder) DecodeArrayLen() (int, error) {
	v, err := j.int(64)
	if err == nil && v < 0 {
		return 0, errors.Errorf("json: negative array length %d", v)
	}
	return int(v), err
}

func (j *jsonDecoder) DecodeInt8() (int8, error) {
	v, err := j.int(8)
	return int8(v), err
}

func (j *jsonDecoder) DecodeInt16() (int16, error) {
	v, err := j.int(16)
	return int16(v), err
}

func (j *jsonDecoder) DecodeInt32() (int32, error) {
	v, err := j.int(32)
	return int32(v), err
}

func (j *jsonDecoder) DecodeInt64() (int64, error) {
	return j.int(64)
}

func (j *jsonDecoder) DecodeUint8() (uint8, error) {
	v, err := j.DecodeUint64()
	if err == nil && v > math.MaxUint8 {
		return 0, errors.Errorf("json: %d overflows uint8", v)
	}
	return uint8(v), err
}

func (j *jsonDecoder) DecodeUint64() (uint64, error) {
	line, err := j.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(string(line), 10, 64)
	return v, errors.Wrapf(err, "json: unsigned %q", line)
}

func (j *jsonDecoder) DecodeFloat32() (float32, error) {
	f, err := j.float()
	return float32(f), err
}

func (j *jsonDecoder) DecodeFloat64() (float64, error) {
	return j.float()
}

func (j *jsonDecoder) DecodeBool() (bool, error) {
	line, err := j.next()
	if err != nil {
		return false, err
	}
	b, err := jsonparser.ParseBoolean(line)
	return b, errors.Wrapf(err, "json: bool %q", line)
}

func (j *jsonDecoder) DecodeNil() error {
	line, err := j.next()
	if err != nil {
		return err
	}
	if string(line) != "null" {
		return errors.Errorf("json: expected null, got %q", line)
	}
	return nil
}

func (j *jsonDecoder) DecodeString() (string, error) {
	var s string
	err := j.DecodeJSON(&s)
	return s, err
}

func (j *jsonDecoder) DecodeJSON(destination interface{}) error {
	line, err := j.next()
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(line, destination), "json: unmarshal")
}
