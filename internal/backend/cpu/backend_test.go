package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/strided/internal/tensor"
)

// seq builds a contiguous float64 view holding 1, 2, 3, ...
func seq(t *testing.T, shape ...int) *tensor.View[float64] {
	t.Helper()
	n := tensor.Shape(shape).NumElements()
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i + 1)
	}
	v, err := tensor.FromSlice(data, shape...)
	require.NoError(t, err)
	return v
}

// dense copies a 2-D view into a gonum matrix.
func dense(v *tensor.View[float64]) *mat.Dense {
	s := v.Shape()
	return mat.NewDense(s[0], s[1], v.ToSlice())
}

func TestFor(t *testing.T) {
	_, err := For[float64]()
	require.NoError(t, err)
	_, err = For[float32]()
	require.NoError(t, err)
	_, err = For[complex64]()
	require.NoError(t, err)
	b, err := For[complex128]()
	require.NoError(t, err)
	assert.Equal(t, Name, b.Name())

	_, err = For[int32]()
	assert.ErrorIs(t, err, tensor.ErrDomain)
	_, err = For[uint8]()
	assert.ErrorIs(t, err, tensor.ErrDomain)
}

func TestDot(t *testing.T) {
	be := Float64{}
	x := seq(t, 4)
	y := seq(t, 4)

	got, err := tensor.Dot[float64](be, x, y)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got)

	// Strided column of a matrix.
	m := seq(t, 3, 4)
	col, err := m.Select(1, 1)
	require.NoError(t, err)
	ones, err := tensor.Full(tensor.Shape{3}, 1.0)
	require.NoError(t, err)
	got, err = tensor.Dot[float64](be, col, ones)
	require.NoError(t, err)
	assert.Equal(t, 2.0+6+10, got)

	_, err = tensor.Dot[float64](be, x, ones)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestAxpyScale(t *testing.T) {
	be := Float64{}
	x := seq(t, 3)
	y := seq(t, 3)
	require.NoError(t, tensor.Axpy[float64](be, 2, x, y))
	assert.Equal(t, []float64{3, 6, 9}, y.ToSlice())

	// Negative stride forces a staged copy and write back.
	m := seq(t, 2, 3)
	flipped, err := tensor.NewFromBuffer(m.Buffer(), 2, tensor.Shape{3}, []int{-1})
	require.NoError(t, err)
	require.NoError(t, tensor.Scale[float64](be, flipped, 10))
	assert.Equal(t, []float64{10, 20, 30, 4, 5, 6}, m.ToSlice())
}

func TestMm(t *testing.T) {
	be := Float64{}
	a := seq(t, 3, 4)
	b := seq(t, 4, 2)

	c, err := tensor.Mm[float64](be, a, b)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(dense(a), dense(b))
	assert.Equal(t, tensor.Shape{3, 2}, c.Shape())
	assert.Equal(t, want.RawMatrix().Data, c.ToSlice())
}

func TestMm_TransposedOperands(t *testing.T) {
	be := Float64{}
	a := seq(t, 4, 3)
	at, err := a.T() // (3, 4), column-major layout
	require.NoError(t, err)
	b := seq(t, 4, 5)

	c, err := tensor.Mm[float64](be, at, b)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(dense(a).T(), dense(b))
	assert.Equal(t, want.RawMatrix().Data, c.ToSlice())
}

func TestAddmm_StridedOutput(t *testing.T) {
	be := Float64{}
	a := seq(t, 2, 2)
	b := seq(t, 2, 2)

	big, err := tensor.Full(tensor.Shape{2, 4}, 1.0)
	require.NoError(t, err)
	dst, err := big.Narrow(1, 1, 2)
	require.NoError(t, err)
	dstT, err := dst.T()
	require.NoError(t, err)

	// dst^T = 1*dst^T + a@b
	require.NoError(t, tensor.Addmm[float64](be, dstT, 1, 1, a, b))

	var want mat.Dense
	want.Mul(dense(a), dense(b))
	got := dstT.ToSlice()
	for i, w := range want.RawMatrix().Data {
		assert.InDelta(t, w+1, got[i], 1e-12)
	}
	// Columns outside the narrowed window are untouched.
	v, err := big.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = big.At(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestMv(t *testing.T) {
	be := Float32{}
	m, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	x, err := tensor.FromSlice([]float32{1, 0, -1}, 3)
	require.NoError(t, err)

	y, err := tensor.Mv[float32](be, m, x)
	require.NoError(t, err)
	assert.Equal(t, []float32{-2, -2}, y.ToSlice())

	mt, err := m.T()
	require.NoError(t, err)
	z, err := tensor.FromSlice([]float32{1, 1}, 2)
	require.NoError(t, err)
	y, err = tensor.Mv[float32](be, mt, z)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 7, 9}, y.ToSlice())

	_, err = tensor.Mv[float32](be, m, z)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestAddr(t *testing.T) {
	be := Complex128{}
	x, err := tensor.FromSlice([]complex128{1, 1i}, 2)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]complex128{2, 3}, 2)
	require.NoError(t, err)
	a, err := tensor.New[complex128](2, 2)
	require.NoError(t, err)

	require.NoError(t, tensor.Addr[complex128](be, a, 1, x, y))
	assert.Equal(t, []complex128{2, 3, 2i, 3i}, a.ToSlice())

	bad, err := tensor.New[complex128](3, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, tensor.Addr[complex128](be, bad, 1, x, y), tensor.ErrOutOfRange)
}

func TestComplex64Dot(t *testing.T) {
	be := Complex64{}
	x, err := tensor.FromSlice([]complex64{1 + 1i, 2}, 2)
	require.NoError(t, err)
	got, err := tensor.Dot[complex64](be, x, x)
	require.NoError(t, err)
	assert.Equal(t, complex64(2i+4), got)
}
