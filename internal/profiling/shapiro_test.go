package profiling

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"surveystat/internal/errors"
)

func normalQuantiles(n int, mean, sd float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = mean + sd*distuv.UnitNormal.Quantile((float64(i)+0.5)/float64(n))
	}
	return data
}

func exponentialQuantiles(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = -math.Log(1 - (float64(i)+0.5)/float64(n))
	}
	return data
}

func TestShapiroWilkThreeValues(t *testing.T) {
	w, p, err := ShapiroWilk([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w, 1e-12)
	assert.InDelta(t, 1.0, p, 1e-9)

	w, p, err = ShapiroWilk([]float64{4, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 27.0/28.0, w, 1e-9)
	assert.InDelta(t, 0.637, p, 1e-3)
}

func TestShapiroWilkNormalSample(t *testing.T) {
	for _, n := range []int{8, 20, 50, 200} {
		w, p, err := ShapiroWilk(normalQuantiles(n, 3, 1.2))
		require.NoError(t, err)
		assert.Greater(t, w, 0.9, "n=%d", n)
		assert.LessOrEqual(t, w, 1.0, "n=%d", n)
		assert.Greater(t, p, 0.05, "n=%d", n)
	}
}

func TestShapiroWilkReferenceValues(t *testing.T) {
	// scipy.stats.shapiro(range(1, 11))
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	w, p, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.InDelta(t, 0.970165, w, 1e-5)
	assert.InDelta(t, 0.892367, p, 1e-5)
}

func TestShapiroWilkSeededNormalDraws(t *testing.T) {
	// under normality p is uniform, so about 5 of 100 fixed-seed samples fall below 0.05
	accepted := 0
	for seed := int64(1); seed <= 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		data := make([]float64, 50)
		for i := range data {
			data[i] = rng.NormFloat64()
		}

		w, p, err := ShapiroWilk(data)
		require.NoError(t, err, "seed %d", seed)
		assert.Greater(t, w, 0.0, "seed %d", seed)
		assert.LessOrEqual(t, w, 1.0, "seed %d", seed)
		assert.GreaterOrEqual(t, p, 0.0, "seed %d", seed)
		assert.LessOrEqual(t, p, 1.0, "seed %d", seed)
		if p > 0.05 {
			accepted++
		}
	}
	assert.GreaterOrEqual(t, accepted, 85)
}

func TestShapiroWilkSkewedSample(t *testing.T) {
	w, p, err := ShapiroWilk(exponentialQuantiles(50))
	require.NoError(t, err)
	assert.Greater(t, w, 0.0)
	assert.Less(t, w, 0.95)
	assert.Less(t, p, 0.05)
}

func TestShapiroWilkIgnoresInputOrder(t *testing.T) {
	data := exponentialQuantiles(30)
	reversed := make([]float64, len(data))
	for i, v := range data {
		reversed[len(data)-1-i] = v
	}

	w1, p1, err := ShapiroWilk(data)
	require.NoError(t, err)
	w2, p2, err := ShapiroWilk(reversed)
	require.NoError(t, err)
	assert.InDelta(t, w1, w2, 1e-12)
	assert.InDelta(t, p1, p2, 1e-12)
	// the caller's slice is not reordered
	assert.Greater(t, reversed[0], reversed[1])
}

func TestShapiroWilkScaleInvariant(t *testing.T) {
	data := exponentialQuantiles(25)
	scaled := make([]float64, len(data))
	for i, v := range data {
		scaled[i] = 10*v - 4
	}

	w1, _, err := ShapiroWilk(data)
	require.NoError(t, err)
	w2, _, err := ShapiroWilk(scaled)
	require.NoError(t, err)
	assert.InDelta(t, w1, w2, 1e-9)
}

func TestShapiroWilkErrors(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"empty", nil},
		{"two values", []float64{1, 2}},
		{"identical values", []float64{4, 4, 4, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ShapiroWilk(tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsComputation(err))
		})
	}
}

func TestShapiroCoefficients(t *testing.T) {
	for _, n := range []int{3, 4, 5, 6, 11, 12, 100} {
		a := shapiroCoefficients(n)
		require.Len(t, a, n)

		sumSquares := 0.0
		for i := range a {
			assert.InDelta(t, -a[i], a[n-1-i], 1e-12, "n=%d i=%d", n, i)
			sumSquares += a[i] * a[i]
		}
		assert.InDelta(t, 1.0, sumSquares, 1e-9, "n=%d", n)
	}
}

func TestPoly(t *testing.T) {
	assert.Equal(t, 0.0, poly(nil, 3))
	assert.Equal(t, 7.0, poly([]float64{1, 2}, 3))
	assert.Equal(t, 1.0+2*2+3*4, poly([]float64{1, 2, 3}, 2))
}
