package tensor

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_RowMajor(t *testing.T) {
	it := NewIndex(Shape{2, 3})

	var coords [][]int
	var linear []int
	for ; !it.Done(); it.Next() {
		coords = append(coords, slices.Clone(it.Coord()))
		linear = append(linear, it.Linear())
	}
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, coords)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, linear)

	assert.True(t, it.Equal(EndIndex(Shape{2, 3})), "exhausted iterator rests on the sentinel")
	assert.Equal(t, []int{2, 0}, it.Coord())
	assert.False(t, it.Equal(EndIndex(Shape{3, 2})))
	assert.False(t, it.Equal(nil))

	it.Reset()
	assert.False(t, it.Done())
	assert.True(t, it.Equal(NewIndex(Shape{2, 3})))
}

func TestIndex_Offset(t *testing.T) {
	m := grid[float64](t, 3, 4)
	tr, _ := m.T()

	it := NewIndex(tr.Shape())
	var got []float64
	for ; !it.Done(); it.Next() {
		got = append(got, m.Buffer().At(it.Offset(tr.Stride(), tr.Offset())))
	}
	assert.Equal(t, tr.ToSlice(), got)
}

func TestShape_Coords(t *testing.T) {
	var seen [][]int
	for c := range (Shape{2, 2}).Coords() {
		seen = append(seen, slices.Clone(c))
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}}, seen)

	n := 0
	for range (Shape{}).Coords() {
		n++
	}
	assert.Zero(t, n)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, slices.Collect((Shape{3, 2}).Linear()))
}

func TestUnravel(t *testing.T) {
	coord := make([]int, 3)
	unravel(17, Shape{2, 3, 4}, coord)
	assert.Equal(t, []int{1, 1, 1}, coord)
}

func TestIndexPool_Reuse(t *testing.T) {
	a := getIndex(Shape{2, 2})
	a.Next()
	a.Next()
	putIndex(a)

	b := getIndex(Shape{3, 5})
	defer putIndex(b)
	assert.Equal(t, Shape{3, 5}, b.Shape())
	assert.Equal(t, []int{0, 0}, b.Coord(), "pooled iterators start on the first coordinate")
}

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, "(2, 3, 4)", s.String())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, 0, Shape{}.NumElements())
	require.Error(t, Shape{}.Validate())
	require.Error(t, Shape{2, 0}.Validate())

	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 2, s[0])
	assert.True(t, s.Equal(Shape{2, 3, 4}))
	assert.False(t, s.Equal(Shape{2, 3}))
}

func TestIsContiguous(t *testing.T) {
	tests := []struct {
		name   string
		shape  Shape
		stride []int
		want   bool
		from   int
		to     int
		inner  bool
	}{
		{"row-major", Shape{3, 4}, []int{4, 1}, true, 0, 2, true},
		{"transposed", Shape{4, 3}, []int{1, 4}, false, 1, 2, true},
		{"column", Shape{3}, []int{4}, false, 0, 1, true},
		{"row stride gap", Shape{3, 2}, []int{4, 1}, false, 1, 2, true},
		{"empty range", Shape{3, 2}, []int{2, 1}, true, 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContiguous(tt.shape, tt.stride))
			assert.Equal(t, tt.inner, IsContiguousRange(tt.shape, tt.stride, tt.from, tt.to))
		})
	}
}
