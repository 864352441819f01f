package random

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/tensor"
)

func TestFill_Deterministic(t *testing.T) {
	a, err := tensor.New[float64](10, 13)
	require.NoError(t, err)
	b, err := tensor.New[float64](10, 13)
	require.NoError(t, err)

	require.NoError(t, Fill(a, New(7), Normal{Mean: 0, Std: 1}))
	require.NoError(t, Fill(b, New(7), Normal{Mean: 0, Std: 1}))
	assert.True(t, tensor.Equal(a, b))

	require.NoError(t, Fill(b, New(8), Normal{Mean: 0, Std: 1}))
	assert.False(t, tensor.Equal(a, b))
}

func TestGenerator_Reset(t *testing.T) {
	g := New(3)
	first := g.Float64()
	g.Float64()
	g.Reset()
	assert.Equal(t, first, g.Float64())
	assert.Equal(t, uint64(3), g.Seed())
}

func TestDistributions_Support(t *testing.T) {
	tests := []struct {
		name string
		dist Distribution
		ok   func(x float64) bool
	}{
		{"uniform", Uniform{Low: -2, High: 3}, func(x float64) bool { return x >= -2 && x < 3 }},
		{"exponential", Exponential{Lambda: 2}, func(x float64) bool { return x >= 0 }},
		{"lognormal", LogNormal{Mean: 0, Std: 1}, func(x float64) bool { return x > 0 }},
		{"geometric", Geometric{P: 0.3}, func(x float64) bool { return x >= 1 && x == math.Floor(x) }},
		{"bernoulli", Bernoulli{P: 0.5}, func(x float64) bool { return x == 0 || x == 1 }},
		{"cauchy", Cauchy{Median: 0, Sigma: 1}, func(x float64) bool { return !math.IsNaN(x) }},
		{"normal", Normal{Mean: 5, Std: 0.1}, func(x float64) bool { return x > 4 && x < 6 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(11)
			for i := 0; i < 1000; i++ {
				x := tt.dist.Sample(g)
				require.True(t, tt.ok(x), "sample %v outside support", x)
			}
		})
	}
}

func TestDistributions_Validate(t *testing.T) {
	invalid := []Distribution{
		Uniform{Low: 1, High: 1},
		Normal{Std: 0},
		Exponential{Lambda: -1},
		Cauchy{Sigma: 0},
		LogNormal{Std: -1},
		Geometric{P: 0},
		Geometric{P: 1.5},
		Bernoulli{P: -0.1},
	}
	v, err := tensor.New[float32](4)
	require.NoError(t, err)
	for _, d := range invalid {
		assert.ErrorIs(t, Fill(v, New(1), d), tensor.ErrInvalidArgument, "%#v", d)
	}
}

func TestFill_StridedView(t *testing.T) {
	m, err := tensor.New[int32](4, 6)
	require.NoError(t, err)
	col, err := m.Select(1, 2)
	require.NoError(t, err)

	require.NoError(t, Fill(col, New(5), Uniform{Low: 10, High: 20}))
	for i := 0; i < 4; i++ {
		for j := 0; j < 6; j++ {
			x, err := m.At(i, j)
			require.NoError(t, err)
			if j == 2 {
				assert.GreaterOrEqual(t, x, int32(10))
				assert.Less(t, x, int32(20))
			} else {
				assert.Equal(t, int32(0), x)
			}
		}
	}
}

func TestPermutation(t *testing.T) {
	p, err := Permutation(New(9), 50)
	require.NoError(t, err)
	got := p.ToSlice()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, x := range got {
		assert.Equal(t, int64(i), x)
	}

	_, err = Permutation(New(9), 0)
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}

func TestStandard(t *testing.T) {
	for _, name := range []string{"uniform", "Normal", "exponential", "cauchy", "lognormal", "geometric", "bernoulli"} {
		d, err := Standard(name)
		require.NoError(t, err, name)
		assert.NoError(t, d.Validate(), name)
	}
	d, err := Standard("normal")
	require.NoError(t, err)
	assert.Equal(t, Normal{Mean: 0, Std: 1}, d)

	_, err = Standard("poisson")
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}
