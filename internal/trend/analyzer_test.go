package trend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(service.DefaultAnalysisConfig())
}

func monthlyTxns(amounts []float64, category string) []model.TransactionRecord {
	base := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := make([]model.TransactionRecord, len(amounts))
	for i, amount := range amounts {
		txns[i] = model.TransactionRecord{
			ID:         fmt.Sprintf("txn-%d", i),
			VendorName: "Vendor",
			Category:   category,
			Amount:     amount,
			Date:       base.AddDate(0, i, 0),
		}
	}
	return txns
}

func dailyTxns(amounts []float64) []model.TransactionRecord {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	txns := make([]model.TransactionRecord, len(amounts))
	for i, amount := range amounts {
		txns[i] = model.TransactionRecord{
			ID:     fmt.Sprintf("txn-%d", i),
			Amount: amount,
			Date:   base.AddDate(0, 0, i),
		}
	}
	return txns
}

func TestAnalyzeTrendsLinearIncrease(t *testing.T) {
	// Monthly spend 100, 110, ..., 210.
	amounts := make([]float64, 12)
	for i := range amounts {
		amounts[i] = 100 + 10*float64(i)
	}
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), monthlyTxns(amounts, "IT Software"), 365)

	require.NotNil(t, analysis.Overall)
	assert.InDelta(t, 10, analysis.Overall.Slope, 1e-9)
	assert.Equal(t, model.DirectionIncreasing, analysis.Overall.Direction)
	assert.InDelta(t, 1.0, analysis.Overall.RSquared, 1e-9)
	assert.InDelta(t, 110, analysis.Overall.PercentageChange, 1e-9)
	assert.Equal(t, model.StrengthStrong, analysis.Overall.Strength)

	assert.Contains(t, analysis.GrowthCategories, "IT Software")
	assert.Empty(t, analysis.DecliningCategories)
}

func TestAnalyzeTrendsDecline(t *testing.T) {
	amounts := []float64{500, 450, 400, 350, 300, 250}
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), monthlyTxns(amounts, "Travel"), 180)

	require.NotNil(t, analysis.Overall)
	assert.Equal(t, model.DirectionDecreasing, analysis.Overall.Direction)
	assert.Contains(t, analysis.DecliningCategories, "Travel")
}

func TestAnalyzeTrendsEmpty(t *testing.T) {
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), nil, 365)

	require.NotNil(t, analysis)
	assert.Nil(t, analysis.Overall)
	assert.Nil(t, analysis.Volatility)
	assert.Empty(t, analysis.PerCategory)
}

func TestVolatilityConstantSeries(t *testing.T) {
	amounts := make([]float64, 14)
	for i := range amounts {
		amounts[i] = 250
	}
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), dailyTxns(amounts), 14)

	require.NotNil(t, analysis.Volatility)
	assert.Zero(t, analysis.Volatility.CoefficientOfVariation)
	assert.Zero(t, analysis.Volatility.DailyStd)
	assert.Equal(t, model.VolatilityLow, analysis.Volatility.Level)
}

func TestVolatilityHighDispersion(t *testing.T) {
	// Alternating spikes: CV well above 0.5.
	amounts := make([]float64, 20)
	for i := range amounts {
		if i%2 == 0 {
			amounts[i] = 10
		} else {
			amounts[i] = 1000
		}
	}
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), dailyTxns(amounts), 20)

	require.NotNil(t, analysis.Volatility)
	assert.Equal(t, model.VolatilityHigh, analysis.Volatility.Level)
}

func TestPeakPeriods(t *testing.T) {
	amounts := []float64{100, 100, 100, 100, 100, 100, 500, 400}
	a := newTestAnalyzer()

	analysis := a.AnalyzeTrends(context.Background(), monthlyTxns(amounts, ""), 365)

	require.Len(t, analysis.PeakPeriods, 2)
	assert.InDelta(t, 500, analysis.PeakPeriods[0].Amount, 1e-9)
	assert.InDelta(t, 400, analysis.PeakPeriods[1].Amount, 1e-9)
	assert.Greater(t, analysis.PeakPeriods[0].DeviationPct, 0.0)
	assert.InDelta(t, 100, analysis.PeakPeriods[0].PercentileRank, 1e-9)
}

func TestDetectOutliers(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("single 10x value flagged, nothing else", func(t *testing.T) {
		amounts := make([]float64, 12)
		for i := range amounts {
			amounts[i] = 100
		}
		amounts[5] = 1000

		outliers := a.DetectOutliers(context.Background(), dailyTxns(amounts))

		require.Len(t, outliers, 1)
		assert.Equal(t, "txn-5", outliers[0].Transaction.ID)
		assert.Greater(t, outliers[0].ZScore, 3.0)
		assert.Greater(t, outliers[0].Deviation, 0.0)
	})

	t.Run("uniform series has no outliers", func(t *testing.T) {
		amounts := []float64{100, 105, 95, 100, 102, 98}
		assert.Empty(t, a.DetectOutliers(context.Background(), dailyTxns(amounts)))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, a.DetectOutliers(context.Background(), nil))
	})
}

func TestDetectSeasonality(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("needs sixty daily points", func(t *testing.T) {
		amounts := make([]float64, 45)
		for i := range amounts {
			amounts[i] = 100
		}
		assert.Nil(t, a.DetectSeasonality(context.Background(), dailyTxns(amounts)))
	})

	t.Run("monthly cycle detected", func(t *testing.T) {
		// 90 days with a spend spike at the start of each 30-day cycle.
		amounts := make([]float64, 90)
		for i := range amounts {
			switch i % 30 {
			case 0:
				amounts[i] = 2000
			case 1:
				amounts[i] = 800
			default:
				amounts[i] = 100
			}
		}

		result := a.DetectSeasonality(context.Background(), dailyTxns(amounts))

		require.NotNil(t, result)
		assert.True(t, result.HasSeasonality)
		assert.Greater(t, result.Strength, 0.1)
		assert.Equal(t, 30, result.Period)
		assert.NotEmpty(t, result.Peaks)
		assert.LessOrEqual(t, len(result.Peaks), 5)
	})

	t.Run("flat series is not seasonal", func(t *testing.T) {
		amounts := make([]float64, 90)
		for i := range amounts {
			amounts[i] = 100
		}

		result := a.DetectSeasonality(context.Background(), dailyTxns(amounts))

		require.NotNil(t, result)
		assert.False(t, result.HasSeasonality)
	})
}

func TestForecastDaily(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("insufficient data returns nil", func(t *testing.T) {
		amounts := []float64{100, 100, 100}
		assert.Nil(t, a.Forecast(context.Background(), dailyTxns(amounts)))
	})

	t.Run("thirty day horizon with valid bounds", func(t *testing.T) {
		amounts := make([]float64, 40)
		for i := range amounts {
			amounts[i] = 200 + 3*float64(i)
		}

		result := a.Forecast(context.Background(), dailyTxns(amounts))

		require.NotNil(t, result)
		assert.Equal(t, 30, result.Horizon)
		require.Len(t, result.Points, 30)
		assert.Equal(t, model.DirectionIncreasing, result.Trend)

		for _, p := range result.Points {
			assert.LessOrEqual(t, p.LowerBound, p.Predicted)
			assert.GreaterOrEqual(t, p.UpperBound, p.Predicted)
		}
	})
}

func TestForecastMonthly(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("needs six monthly points", func(t *testing.T) {
		amounts := []float64{100, 110, 120}
		assert.Nil(t, a.ForecastMonthly(context.Background(), monthlyTxns(amounts, ""), "", 6))
	})

	t.Run("bounds bracket predictions", func(t *testing.T) {
		amounts := []float64{1000, 1100, 1050, 1200, 1150, 1300, 1250, 1400}

		result := a.ForecastMonthly(context.Background(), monthlyTxns(amounts, "Travel"), "Travel", 6)

		require.NotNil(t, result)
		assert.Equal(t, "Travel", result.Category)
		assert.Equal(t, 6, result.Horizon)
		require.Len(t, result.Points, 6)

		for _, p := range result.Points {
			assert.LessOrEqual(t, p.LowerBound, p.Predicted)
			assert.GreaterOrEqual(t, p.UpperBound, p.Predicted)
		}
		assert.GreaterOrEqual(t, result.ResidualStd, 0.0)
	})

	t.Run("horizon defaults and caps", func(t *testing.T) {
		amounts := []float64{100, 110, 120, 130, 140, 150, 160, 170}
		txns := monthlyTxns(amounts, "")

		assert.Equal(t, defaultMonthlyHorizon, a.ForecastMonthly(context.Background(), txns, "", 0).Horizon)
		assert.Equal(t, maxMonthlyHorizon, a.ForecastMonthly(context.Background(), txns, "", 99).Horizon)
	})

	t.Run("perfectly linear series forecast continues the line", func(t *testing.T) {
		amounts := make([]float64, 12)
		for i := range amounts {
			amounts[i] = 100 + 10*float64(i)
		}

		result := a.ForecastMonthly(context.Background(), monthlyTxns(amounts, ""), "", 3)

		require.NotNil(t, result)
		assert.InDelta(t, 220, result.Points[0].Predicted, 1e-6)
		assert.InDelta(t, 240, result.Points[2].Predicted, 1e-6)
		assert.InDelta(t, 0, result.ResidualStd, 1e-9)
	})
}
