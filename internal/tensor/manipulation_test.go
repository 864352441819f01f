package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	m := grid[float64](t, 3, 4)

	row, err := m.Select(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{4}, row.Shape())
	assert.Equal(t, []int{1}, row.Stride())
	assert.Equal(t, 4, row.Offset())
	assert.Equal(t, []float64{4, 5, 6, 7}, row.ToSlice())
	assert.True(t, row.SameBuffer(m))

	col, err := m.Select(-1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, col.Stride())
	assert.Equal(t, []float64{2, 6, 10}, col.ToSlice())

	// Writes are visible through every alias.
	require.NoError(t, row.SetAt(100, 2))
	x, _ := col.At(1)
	assert.Equal(t, 100.0, x)

	one, err := col.Select(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Shape{1}, one.Shape())

	_, err = m.Select(0, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Select(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNarrow(t *testing.T) {
	m := grid[int32](t, 3, 4)

	n, err := m.Narrow(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, n.Shape())
	assert.Equal(t, 1, n.Offset())
	assert.Equal(t, []int32{1, 2, 5, 6, 9, 10}, n.ToSlice())
	assert.False(t, n.IsContiguous())

	_, err = m.Narrow(1, 3, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Narrow(1, -1, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Narrow(0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTransposePermute(t *testing.T) {
	m := grid[float32](t, 3, 4)

	tr, err := m.T()
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 3}, tr.Shape())
	assert.Equal(t, []int{1, 4}, tr.Stride())
	assert.Equal(t, []float32{0, 4, 8, 1, 5, 9, 2, 6, 10, 3, 7, 11}, tr.ToSlice())
	assert.True(t, tr.SameBuffer(m))

	back, err := tr.Transpose(0, -1)
	require.NoError(t, err)
	assert.True(t, back.IsContiguous())

	cube := grid[float32](t, 6, 4)
	c3, err := cube.View(2, 3, 4)
	require.NoError(t, err)
	p, err := c3.Permute(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 2, 3}, p.Shape())
	assert.Equal(t, []int{1, 12, 4}, p.Stride())
	x, _ := p.At(3, 1, 2)
	assert.Equal(t, float32(12+8+3), x)

	_, err = c3.T()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c3.Permute(0, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c3.Permute(0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c3.Transpose(0, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestUnfold(t *testing.T) {
	a, err := Arange[int64](7)
	require.NoError(t, err)

	w, err := a.Unfold(0, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 3}, w.Shape())
	assert.Equal(t, []int{2, 1}, w.Stride())
	assert.Equal(t, []int64{0, 1, 2, 2, 3, 4, 4, 5, 6}, w.ToSlice())
	assert.True(t, w.SameBuffer(a))

	_, err = a.Unfold(0, 8, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = a.Unfold(0, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestView_Reinterpret(t *testing.T) {
	a, err := Arange[float64](24)
	require.NoError(t, err)

	v, err := a.View(2, -1, 4)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 4}, v.Shape())
	assert.True(t, v.SameBuffer(a))

	_, err = a.View(5, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = a.View(-1, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = a.View(25)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	m, _ := a.View(4, 6)
	tr, _ := m.T()
	_, err = tr.View(24)
	assert.ErrorIs(t, err, ErrContiguity)
}

func TestReshape(t *testing.T) {
	m := grid[float64](t, 3, 4)

	tests := []struct {
		name   string
		src    func() *View[float64]
		shape  []int
		stride []int
		want   []float64
		err    error
	}{
		{
			name:   "contiguous split",
			src:    func() *View[float64] { return m },
			shape:  []int{2, 2, -1},
			stride: []int{6, 3, 1},
		},
		{
			name:   "row narrow flattens",
			src:    func() *View[float64] { return Must(m.Narrow(0, 0, 2)) },
			shape:  []int{8},
			stride: []int{1},
			want:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "column narrow keeps its groups",
			src:    func() *View[float64] { return Must(m.Narrow(1, 0, 2)) },
			shape:  []int{3, 2, 1},
			stride: []int{4, 1, 1},
			want:   []float64{0, 1, 4, 5, 8, 9},
		},
		{
			name:  "column narrow cannot flatten",
			src:   func() *View[float64] { return Must(m.Narrow(1, 0, 2)) },
			shape: []int{6},
			err:   ErrContiguity,
		},
		{
			name:  "transpose cannot flatten",
			src:   func() *View[float64] { return Must(m.T()) },
			shape: []int{12},
			err:   ErrContiguity,
		},
		{
			name:   "transpose splits a dimension",
			src:    func() *View[float64] { return Must(m.T()) },
			shape:  []int{2, 2, 3},
			stride: []int{2, 1, 4},
		},
		{
			name:  "element count mismatch",
			src:   func() *View[float64] { return m },
			shape: []int{5, 2},
			err:   ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src()
			r, err := src.Reshape(tt.shape...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, r.SameBuffer(m), "reshape never copies")
			assert.Equal(t, tt.stride, r.Stride())
			assert.Equal(t, src.ToSlice(), r.ToSlice(), "row-major order is preserved")
			if tt.want != nil {
				assert.Equal(t, tt.want, r.ToSlice())
			}
		})
	}
}

func TestDiag(t *testing.T) {
	m := grid[float64](t, 3, 4)

	tests := []struct {
		k    int
		want []float64
	}{
		{0, []float64{0, 5, 10}},
		{1, []float64{1, 6, 11}},
		{3, []float64{3}},
		{-1, []float64{4, 9}},
		{-2, []float64{8}},
	}
	for _, tt := range tests {
		d, err := m.Diag(tt.k)
		require.NoError(t, err, "k=%d", tt.k)
		assert.Equal(t, tt.want, d.ToSlice(), "k=%d", tt.k)
		assert.True(t, d.SameBuffer(m))
	}

	_, err := m.Diag(4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Diag(-3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	v, err := FromSlice([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	sq, err := v.Diag(1)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 4}, sq.Shape())
	assert.Equal(t, []float64{
		0, 1, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 3,
		0, 0, 0, 0,
	}, sq.ToSlice())

	back, err := sq.Diag(1)
	require.NoError(t, err)
	assert.Equal(t, v.ToSlice(), back.ToSlice())

	low, err := v.Diag(-1)
	require.NoError(t, err)
	x, _ := low.At(3, 2)
	assert.Equal(t, 3.0, x)
}

func TestTrilTriu(t *testing.T) {
	m := grid[int32](t, 3, 3)

	lo, err := m.Tril(0)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0, 3, 4, 0, 6, 7, 8}, lo.ToSlice())
	assert.False(t, lo.SameBuffer(m))

	up, err := m.Triu(1)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 0, 0, 5, 0, 0, 0}, up.ToSlice())

	tr, _ := m.T()
	lt, err := tr.Tril(-1)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0, 1, 0, 0, 2, 5, 0}, lt.ToSlice())

	flat, _ := m.View(9)
	_, err = flat.Tril(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSplitChunk(t *testing.T) {
	a, err := Arange[float32](10)
	require.NoError(t, err)

	parts, err := a.Split(0, 4)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, []float32{0, 1, 2, 3}, parts[0].ToSlice())
	assert.Equal(t, []float32{8, 9}, parts[2].ToSlice())
	for _, p := range parts {
		assert.True(t, p.SameBuffer(a))
	}

	chunks, err := a.Chunk(5, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 5)
	assert.Equal(t, []float32{6, 7}, chunks[3].ToSlice())

	_, err = a.Chunk(3, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = a.Chunk(0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = a.Split(0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUnsqueeze(t *testing.T) {
	m := grid[float64](t, 3, 4)

	tests := []struct {
		dim    int
		shape  Shape
		stride []int
	}{
		{0, Shape{1, 3, 4}, []int{12, 4, 1}},
		{1, Shape{3, 1, 4}, []int{4, 4, 1}},
		{2, Shape{3, 4, 1}, []int{4, 1, 1}},
		{-1, Shape{3, 4, 1}, []int{4, 1, 1}},
	}
	for _, tt := range tests {
		u, err := m.Unsqueeze(tt.dim)
		require.NoError(t, err)
		assert.Equal(t, tt.shape, u.Shape(), "dim %d", tt.dim)
		assert.Equal(t, tt.stride, u.Stride(), "dim %d", tt.dim)
		assert.True(t, u.IsContiguous())
	}

	_, err := m.Unsqueeze(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCat(t *testing.T) {
	a := grid[float64](t, 3, 4)
	b, err := Ones[float64](5, 4)
	require.NoError(t, err)

	c, err := Cat(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, Shape{8, 4}, c.Shape())
	assert.True(t, c.IsContiguous())
	assert.False(t, c.SameBuffer(a))

	top, _ := c.Narrow(0, 0, 3)
	assert.True(t, Equal(top, a))
	bottom, _ := c.Narrow(0, 3, 5)
	assert.True(t, Equal(bottom, b))

	t.Run("strided operands along dim 1", func(t *testing.T) {
		at, _ := a.T()
		ones, _ := Ones[float64](4, 2)
		got, err := Cat(at, ones, -1)
		require.NoError(t, err)
		assert.Equal(t, Shape{4, 5}, got.Shape())
		assert.Equal(t, []float64{
			0, 4, 8, 1, 1,
			1, 5, 9, 1, 1,
			2, 6, 10, 1, 1,
			3, 7, 11, 1, 1,
		}, got.ToSlice())
	})

	t.Run("mismatched extents", func(t *testing.T) {
		wide, _ := New[float64](3, 5)
		_, err := Cat(a, wide, 0)
		assert.ErrorIs(t, err, ErrOutOfRange)

		got, err := Cat(a, wide, 1)
		require.NoError(t, err)
		assert.Equal(t, Shape{3, 9}, got.Shape())

		flat, _ := New[float64](12)
		_, err = Cat(a, flat, 0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	_, err = CatAll[float64](nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGather(t *testing.T) {
	src, err := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	index, err := FromSlice([]int64{0, 0, 1, 0}, 2, 2)
	require.NoError(t, err)

	out, err := Gather(src, 1, index)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 4, 3}, out.ToSlice())

	out, err = Gather(src, 0, index)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 2}, out.ToSlice())

	bad, _ := FromSlice([]int64{0, 2}, 1, 2)
	_, err = Gather(src, 1, bad)
	assert.ErrorIs(t, err, ErrOutOfRange)

	flat, _ := FromSlice([]int64{0}, 1)
	_, err = Gather(src, 0, flat)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestIndexSelect(t *testing.T) {
	m := grid[int32](t, 3, 4)

	rows, err := IndexSelect(m, 0, Must(FromSlice([]int64{2, 0}, 2)))
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 4}, rows.Shape())
	assert.Equal(t, []int32{8, 9, 10, 11, 0, 1, 2, 3}, rows.ToSlice())

	cols, err := IndexSelect(m, 1, Must(FromSlice([]int64{3}, 1)))
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 1}, cols.Shape())
	assert.Equal(t, []int32{3, 7, 11}, cols.ToSlice())

	_, err = IndexSelect(m, 0, Must(FromSlice([]int64{3}, 1)))
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = IndexSelect(m, 0, Must(FromSlice([]int64{0, 1}, 1, 2)))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEqual(t *testing.T) {
	a := grid[float32](t, 2, 3)
	b := a.Clone()
	assert.True(t, Equal(a, b))

	require.NoError(t, b.SetAt(9, 1, 1))
	assert.False(t, Equal(a, b))

	flat, _ := a.View(6)
	assert.False(t, Equal(a, flat), "shapes differ")
	assert.True(t, Equal(&View[float32]{}, &View[float32]{}))
	assert.False(t, Equal(a, &View[float32]{}))
}
