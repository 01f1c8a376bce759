package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{42}, want: 42},
		{name: "several", values: []float64{1, 2, 3, 4}, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Mean(tt.values), 1e-9)
		})
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	t.Run("constant series is zero", func(t *testing.T) {
		assert.Zero(t, CoefficientOfVariation([]float64{50, 50, 50, 50}))
	})

	t.Run("zero mean guarded", func(t *testing.T) {
		assert.Zero(t, CoefficientOfVariation([]float64{-1, 1}))
	})

	t.Run("dispersed series", func(t *testing.T) {
		cv := CoefficientOfVariation([]float64{10, 20, 30})
		assert.InDelta(t, StdDev([]float64{10, 20, 30})/20, cv, 1e-9)
		assert.Greater(t, cv, 0.0)
	})
}

func TestZScores(t *testing.T) {
	t.Run("constant series yields zeros", func(t *testing.T) {
		for _, z := range ZScores([]float64{5, 5, 5, 5, 5}) {
			assert.Zero(t, z)
		}
	})

	t.Run("single extreme value dominates", func(t *testing.T) {
		values := make([]float64, 12)
		for i := range values {
			values[i] = 100
		}
		values[7] = 1000

		scores := ZScores(values)
		for i, z := range scores {
			if i == 7 {
				assert.Greater(t, z, 3.0)
			} else {
				assert.Less(t, math.Abs(z), 1.0)
			}
		}
	})
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	assert.InDelta(t, 10, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 30, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 40, Percentile(values, 75), 1e-9)
	assert.InDelta(t, 50, Percentile(values, 100), 1e-9)
	assert.Zero(t, Percentile(nil, 50))
}

func TestPercentileRank(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.InDelta(t, 25, PercentileRank(values, 10), 1e-9)
	assert.InDelta(t, 100, PercentileRank(values, 40), 1e-9)
	assert.InDelta(t, 50, PercentileRank(values, 25), 1e-9)
}

func TestRollingStd(t *testing.T) {
	t.Run("short series falls back to full std", func(t *testing.T) {
		values := []float64{1, 2, 3}
		assert.InDelta(t, StdDev(values), RollingStd(values, 7), 1e-9)
	})

	t.Run("constant series is zero", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = 9
		}
		assert.Zero(t, RollingStd(values, 7))
	})
}

func TestLinearRegression(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		assert.Nil(t, LinearRegression([]float64{5}))
		assert.Nil(t, LinearRegression(nil))
	})

	t.Run("perfect increasing line", func(t *testing.T) {
		// Monthly spend 100, 110, ..., 210.
		y := make([]float64, 12)
		for i := range y {
			y[i] = 100 + 10*float64(i)
		}

		reg := LinearRegression(y)
		require.NotNil(t, reg)
		assert.InDelta(t, 10, reg.Slope, 1e-9)
		assert.InDelta(t, 100, reg.Intercept, 1e-9)
		assert.InDelta(t, 1, reg.RSquared, 1e-9)
		assert.Less(t, reg.PValue, 0.01)
	})

	t.Run("flat line has zero slope", func(t *testing.T) {
		reg := LinearRegression([]float64{50, 50, 50, 50, 50})
		require.NotNil(t, reg)
		assert.Zero(t, reg.Slope)
		assert.InDelta(t, 50, reg.Intercept, 1e-9)
	})

	t.Run("noisy series has weak fit", func(t *testing.T) {
		reg := LinearRegression([]float64{100, 40, 130, 20, 110, 60, 90})
		require.NotNil(t, reg)
		assert.Less(t, reg.RSquared, 0.5)
		assert.Greater(t, reg.PValue, 0.05)
	})
}

func TestStudentTTwoSided(t *testing.T) {
	// Reference values from standard t tables.
	tests := []struct {
		name string
		t    float64
		df   float64
		want float64
	}{
		{name: "t=2.228 df=10", t: 2.228, df: 10, want: 0.05},
		{name: "t=1.812 df=10", t: 1.812, df: 10, want: 0.10},
		{name: "t=0 any df", t: 0, df: 5, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, studentTTwoSided(tt.t, tt.df), 0.002)
		})
	}
}

func TestDecompose(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, Decompose(make([]float64, 10), 30))
	})

	t.Run("seasonal series has strong seasonal component", func(t *testing.T) {
		// 90 days of a 30-day cycle on a flat base.
		values := make([]float64, 90)
		for i := range values {
			values[i] = 1000 + 200*math.Sin(2*math.Pi*float64(i)/30)
		}

		d := Decompose(values, 30)
		require.NotNil(t, d)
		assert.Len(t, d.Seasonal, 90)
		assert.Greater(t, d.SeasonalStrength(values), 0.5)
	})

	t.Run("flat series has no seasonal component", func(t *testing.T) {
		values := make([]float64, 90)
		for i := range values {
			values[i] = 500
		}

		d := Decompose(values, 30)
		require.NotNil(t, d)
		assert.Zero(t, d.SeasonalStrength(values))
	})
}

func TestHoltFit(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, HoltFit([]float64{10}))
	})

	t.Run("exact on a perfect line", func(t *testing.T) {
		y := make([]float64, 20)
		for i := range y {
			y[i] = 100 + 5*float64(i)
		}

		fit := HoltFit(y)
		require.NotNil(t, fit)
		assert.InDelta(t, 0, fit.ResidualStd, 1e-9)
		assert.InDelta(t, 5, fit.Trend, 1e-9)

		forecast := fit.Forecast(3)
		require.Len(t, forecast, 3)
		assert.InDelta(t, 200, forecast[0], 1e-6)
		assert.InDelta(t, 210, forecast[2], 1e-6)
	})
}

func TestHoltWintersFit(t *testing.T) {
	t.Run("needs two full periods", func(t *testing.T) {
		assert.Nil(t, HoltWintersFit(make([]float64, 20), 12))
	})

	t.Run("tracks a seasonal series", func(t *testing.T) {
		values := make([]float64, 48)
		for i := range values {
			values[i] = 1000 + 10*float64(i) + 150*math.Sin(2*math.Pi*float64(i)/12)
		}

		fit := HoltWintersFit(values, 12)
		require.NotNil(t, fit)
		assert.Len(t, fit.Seasonal, 12)

		// Smoothed fit should track the series far better than its raw spread.
		assert.Less(t, fit.ResidualStd, StdDev(values)/2)

		forecast := fit.Forecast(12)
		require.Len(t, forecast, 12)
		for _, v := range forecast {
			assert.Greater(t, v, 0.0)
		}
	})
}
