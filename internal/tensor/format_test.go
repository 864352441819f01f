package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_String(t *testing.T) {
	m := grid[int32](t, 2, 3)
	assert.Equal(t, "[[0 1 2]\n [3 4 5]] int32 (2, 3)", m.String())

	tr, _ := m.T()
	assert.Equal(t, "[[0 3]\n [1 4]\n [2 5]] int32 (3, 2)", tr.String())

	cube, _ := m.View(1, 2, 3)
	assert.Equal(t, "[[[0 1 2]\n  [3 4 5]]] int32 (1, 2, 3)", cube.String())

	assert.Equal(t, "[] (empty)", (&View[int32]{}).String())
	var nilView *View[int32]
	assert.Equal(t, "[] (empty)", nilView.String())
}

func TestView_StringSummarizes(t *testing.T) {
	a, err := Arange[int64](2000)
	require.NoError(t, err)
	assert.Equal(t, "[0 1 2 ... 1997 1998 1999] int64 (2000)", a.String())
}

func TestDataType(t *testing.T) {
	for dt := Int8; dt <= Complex128; dt++ {
		assert.True(t, dt.Valid())
		back, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, back)
	}
	assert.False(t, DataType(0).Valid())
	_, err := ParseDataType("bfloat16")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 16, Complex128.Size())
	assert.Equal(t, Uint8, DataTypeOf[uint8]())
	assert.Equal(t, KindComplex, CapabilitiesOf[complex64]().Kind())
	assert.Equal(t, "integer", CapabilitiesOf[int16]().Kind().String())
}
