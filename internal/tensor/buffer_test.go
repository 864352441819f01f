package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_RefCount(t *testing.T) {
	b := NewBuffer[int8](4)
	assert.Equal(t, 0, b.RefCount(), "fresh buffer has no references")
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, Int8, b.DType())

	b.Retain()
	assert.True(t, b.Unique())
	b.Retain()
	assert.False(t, b.Unique())

	b.Release()
	assert.Equal(t, 1, b.RefCount())
	assert.Equal(t, 4, b.Len())

	b.Release()
	assert.Equal(t, 0, b.RefCount())
	assert.Equal(t, 0, b.Len(), "last release frees the storage")
}

func TestBuffer_CloneMoveResize(t *testing.T) {
	b := NewBufferFilled[float64](3, 2.5)
	c := b.Clone()
	c.Set(0, -1)
	assert.Equal(t, 2.5, b.At(0), "clone is independent")
	assert.Equal(t, []float64{-1, 2.5, 2.5}, c.Data())

	b.Retain()
	m := b.Move()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 1, b.RefCount(), "reference count stays with the source")
	assert.Equal(t, 0, m.RefCount())
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, m.Data())

	m.Resize(5)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, m.Data(), "resize zeroes the new allocation")
	m.Resize(0)
	assert.Equal(t, 0, m.Len())
	assert.Panics(t, func() { m.Resize(-1) })
}

func TestWrapBuffer(t *testing.T) {
	data := []int32{1, 2, 3}
	b := WrapBuffer(data)
	b.Set(1, 20)
	assert.Equal(t, int32(20), data[1], "wrapped storage is adopted without copying")

	v, err := NewFromBuffer(b, 0, Shape{3}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 20, 3}, v.ToSlice())
}

func TestCastBuffer(t *testing.T) {
	src := WrapBuffer([]int32{-3, 0, 7})
	dst := CastBuffer[float64](src)
	assert.Equal(t, []float64{-3, 0, 7}, dst.Data())
	assert.Equal(t, Float64, dst.DType())
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{16, 4},
		{17, 5},
		{1024, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketOf(tt.n), "bucketOf(%d)", tt.n)
	}
}

func TestPoolAllocator(t *testing.T) {
	p := NewPoolAllocator[float32]()

	v, err := NewWith[float32](p, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, v.Buffer().Len())
	assert.Equal(t, 16, cap(v.Buffer().Data()), "allocations round up to a power of two")
	require.NoError(t, Fill(v, 7))
	assert.Equal(t, PoolStats{Misses: 1}, p.Stats())

	v.Release()

	// The bucket may or may not still hold the slice; either way the new
	// view must start zeroed.
	w, err := NewWith[float32](p, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), w.ToSlice())
	st := p.Stats()
	assert.Equal(t, uint64(2), st.Hits+st.Misses)

	// Foreign slices are ignored.
	p.Free(make([]float32, 3))
	p.Free(nil)
	assert.Equal(t, st, p.Stats())

	assert.Nil(t, p.Allocate(0))
}

func TestPoolAllocator_DerivedViewsKeepAllocator(t *testing.T) {
	p := NewPoolAllocator[float64]()
	m, err := NewWith[float64](p, 4, 4)
	require.NoError(t, err)

	tr, err := m.T()
	require.NoError(t, err)
	c := tr.Clone()
	assert.Same(t, p, c.Buffer().Allocator())

	cat, err := Cat(m, tr, 0)
	require.NoError(t, err)
	assert.Same(t, p, cat.Buffer().Allocator())
}

func TestPoolStats_HitRate(t *testing.T) {
	assert.Equal(t, 0.0, PoolStats{}.HitRate())
	assert.Equal(t, 0.75, PoolStats{Hits: 3, Misses: 1}.HitRate())
}
