package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
	"github.com/vmihailenco/msgpack/codes"
)

type msgpackEncoder struct {
	*msgpack.Encoder
	w *bufio.Writer
}

func newMsgpackEncoder(w io.Writer) *msgpackEncoder {
	bw := bufio.NewWriter(w)
	return &msgpackEncoder{Encoder: msgpack.NewEncoder(bw), w: bw}
}

func (m *msgpackEncoder) Flush() error {
	return errors.Wrap(m.w.Flush(), "msgpack: flush")
}

func (m *msgpackEncoder) EncodeJSON(v interface{}) error {
	// Marshal through encoding/json first so MarshalJSON methods and struct
	// tags apply, then transcode the document to msgpack.
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "msgpack: marshal json")
	}
	return m.EncodeRawJSON(raw)
}

// EncodeRawJSON transcodes a JSON document to msgpack.
func (m *msgpackEncoder) EncodeRawJSON(raw []byte) error {
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return errors.Wrap(err, "msgpack: parse json")
	}
	return m.encodeJSONValue(value, dataType)
}

func (m *msgpackEncoder) encodeJSONValue(value []byte, dataType jsonparser.ValueType) error {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return err
		}
		return m.EncodeString(s)
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(value); err == nil {
			return m.EncodeInt(i)
		}
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return err
		}
		return m.EncodeFloat64(f)
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return err
		}
		return m.EncodeBool(b)
	case jsonparser.Null:
		return m.EncodeNil()
	case jsonparser.Object:
		count := 0
		err := jsonparser.ObjectEach(value, func([]byte, []byte, jsonparser.ValueType, int) error {
			count++
			return nil
		})
		if err != nil {
			return err
		}
		if err := m.EncodeMapLen(count); err != nil {
			return err
		}
		return jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			if err := m.EncodeString(k); err != nil {
				return err
			}
			return m.encodeJSONValue(v, t)
		})
	case jsonparser.Array:
		var elems [][]byte
		var types []jsonparser.ValueType
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			elems = append(elems, v)
			types = append(types, t)
		})
		if err != nil {
			return err
		}
		if err := m.EncodeArrayLen(len(elems)); err != nil {
			return err
		}
		for i, v := range elems {
			if err := m.encodeJSONValue(v, types[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("msgpack: unsupported json type %s", dataType)
}

type msgpackDecoder struct {
	*msgpack.Decoder
}

func newMsgpackDecoder(r io.Reader) *msgpackDecoder {
	return &msgpackDecoder{msgpack.NewDecoder(r)}
}

func (m *msgpackDecoder) DecodeJSON(destination interface{}) error {
	raw, err := m.DecodeRawJSON()
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(raw, destination), "msgpack: unmarshal json")
}

// DecodeRawJSON reads one msgpack value and renders it as JSON text.
func (m *msgpackDecoder) DecodeRawJSON() ([]byte, error) {
	var buf bytes.Buffer
	err := m.decodeJSONValue(&buf)
	return buf.Bytes(), err
}

func (m *msgpackDecoder) decodeJSONValue(buf *bytes.Buffer) error {
	code, err := m.PeekCode()
	if err != nil {
		return err
	}
	write := func(v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = buf.Write(b)
		return err
	}

	switch {
	case code == codes.Array16 || code == codes.Array32 || codes.IsFixedArray(code):
		n, err := m.DecodeArrayLen()
		if err != nil {
			return err
		}
		buf.WriteByte('[')
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := m.decodeJSONValue(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case code == codes.Map16 || code == codes.Map32 || codes.IsFixedMap(code):
		n, err := m.DecodeMapLen()
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := m.DecodeString()
			if err != nil {
				return err
			}
			if err := write(k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.decodeJSONValue(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case codes.IsString(code):
		s, err := m.DecodeString()
		if err != nil {
			return err
		}
		return write(s)
	case codes.IsFixedNum(code) || code == codes.Int8 || code == codes.Int16 ||
		code == codes.Int32 || code == codes.Int64:
		i, err := m.DecodeInt64()
		if err != nil {
			return err
		}
		return write(i)
	case code == codes.Uint8 || code == codes.Uint16 || code == codes.Uint32 || code == codes.Uint64:
		u, err := m.DecodeUint64()
		if err != nil {
			return err
		}
		return write(u)
	case code == codes.Float || code == codes.Double:
		f, err := m.DecodeFloat64()
		if err != nil {
			return err
		}
		return write(f)
	case code == codes.True || code == codes.False:
		b, err := m.DecodeBool()
		if err != nil {
			return err
		}
		return write(b)
	case code == codes.Nil:
		if err := m.DecodeNil(); err != nil {
			return err
		}
		buf.WriteString("null")
		return nil
	}
	return errors.Errorf("msgpack: unsupported code 0x%x", code)
}
