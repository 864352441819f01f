package codec

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type header struct {
	Name  string            `json:"name"`
	Shape []int             `json:"shape"`
	Meta  map[string]string `json:"meta"`
	Flag  bool              `json:"flag"`
	Scale float64           `json:"scale"`
	Extra *int              `json:"extra"`
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("MsgPack")
	require.NoError(t, err)
	assert.Equal(t, Msgpack, k)
	k, err = ParseKind(" json ")
	require.NoError(t, err)
	assert.Equal(t, JSON, k)
	assert.Equal(t, "json", k.String())

	_, err = ParseKind("xml")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	_, err = NewEncoder(Kind(9), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	_, err = NewDecoder(Kind(9), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestRoundTrip(t *testing.T) {
	for _, kind := range []Kind{Msgpack, JSON} {
		t.Run(kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(kind, &buf)
			require.NoError(t, err)

			h := header{
				Name:  "weights",
				Shape: []int{3, 4},
				Meta:  map[string]string{"origin": "test"},
				Flag:  true,
				Scale: 0.5,
			}
			require.NoError(t, enc.EncodeJSON(h))
			require.NoError(t, enc.EncodeArrayLen(7))
			require.NoError(t, enc.EncodeInt8(-8))
			require.NoError(t, enc.EncodeUint8(200))
			require.NoError(t, enc.EncodeInt16(-300))
			require.NoError(t, enc.EncodeInt32(1<<30))
			require.NoError(t, enc.EncodeInt64(-1<<40))
			require.NoError(t, enc.EncodeUint64(math.MaxUint64))
			require.NoError(t, enc.EncodeFloat32(1.25))
			require.NoError(t, enc.EncodeFloat64(math.Pi))
			require.NoError(t, enc.EncodeFloat64(math.NaN()))
			require.NoError(t, enc.EncodeFloat64(math.Inf(-1)))
			require.NoError(t, enc.EncodeString("line\nbreak"))
			require.NoError(t, enc.EncodeBool(false))
			require.NoError(t, enc.EncodeNil())
			require.NoError(t, enc.Flush())

			dec, err := NewDecoder(kind, &buf)
			require.NoError(t, err)

			var got header
			require.NoError(t, dec.DecodeJSON(&got))
			assert.Equal(t, h, got)

			n, err := dec.DecodeArrayLen()
			require.NoError(t, err)
			assert.Equal(t, 7, n)
			i8, err := dec.DecodeInt8()
			require.NoError(t, err)
			assert.Equal(t, int8(-8), i8)
			u8, err := dec.DecodeUint8()
			require.NoError(t, err)
			assert.Equal(t, uint8(200), u8)
			i16, err := dec.DecodeInt16()
			require.NoError(t, err)
			assert.Equal(t, int16(-300), i16)
			i32, err := dec.DecodeInt32()
			require.NoError(t, err)
			assert.Equal(t, int32(1<<30), i32)
			i64, err := dec.DecodeInt64()
			require.NoError(t, err)
			assert.Equal(t, int64(-1<<40), i64)
			u64, err := dec.DecodeUint64()
			require.NoError(t, err)
			assert.Equal(t, uint64(math.MaxUint64), u64)
			f32, err := dec.DecodeFloat32()
			require.NoError(t, err)
			assert.Equal(t, float32(1.25), f32)
			f64, err := dec.DecodeFloat64()
			require.NoError(t, err)
			assert.Equal(t, math.Pi, f64)
			nan, err := dec.DecodeFloat64()
			require.NoError(t, err)
			assert.True(t, math.IsNaN(nan))
			inf, err := dec.DecodeFloat64()
			require.NoError(t, err)
			assert.True(t, math.IsInf(inf, -1))
			s, err := dec.DecodeString()
			require.NoError(t, err)
			assert.Equal(t, "line\nbreak", s)
			b, err := dec.DecodeBool()
			require.NoError(t, err)
			assert.False(t, b)
			require.NoError(t, dec.DecodeNil())
		})
	}
}

func TestJSON_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(JSON, &buf)
	require.NoError(t, err)
	require.NoError(t, enc.EncodeArrayLen(2))
	require.NoError(t, enc.EncodeFloat64(math.Inf(1)))
	require.NoError(t, enc.EncodeString("x"))
	require.NoError(t, enc.Flush())
	assert.Equal(t, "2\n\"+Inf\"\n\"x\"\n", buf.String())
}

func TestJSON_Errors(t *testing.T) {
	dec, err := NewDecoder(JSON, strings.NewReader("300\n-1\ntrue\n"))
	require.NoError(t, err)
	_, err = dec.DecodeInt8()
	assert.Error(t, err)
	_, err = dec.DecodeArrayLen()
	assert.Error(t, err)
	assert.Error(t, dec.DecodeNil())
	_, err = dec.DecodeBool()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
