package trend

import (
	"context"
	"time"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/stats"
)

// Forecast parameters.
const (
	dailyHorizon        = 30
	minDailyPoints      = 10
	dailySeasonalAfter  = 14
	dailySeasonalPeriod = 7

	minMonthlyPoints      = 6
	monthlySeasonalAfter  = 24
	monthlySeasonalPeriod = 12
	defaultMonthlyHorizon = 6
	maxMonthlyHorizon     = 24

	confidenceZ = 1.96 // 95% band
)

// Forecast predicts the next 30 days of daily spend with an additive-trend
// exponential-smoothing model; weekly seasonality is added once at least 14
// daily points exist. Returns nil when fewer than 10 daily points exist;
// insufficient history is a signal, never an error.
func (a *Analyzer) Forecast(_ context.Context, txns []model.TransactionRecord) *model.ForecastResult {
	daily, start := dailySeries(txns)
	if len(daily) < minDailyPoints {
		return nil
	}

	var fit *stats.SmoothingFit
	if len(daily) >= dailySeasonalAfter {
		fit = stats.HoltWintersFit(daily, dailySeasonalPeriod)
	}
	if fit == nil {
		fit = stats.HoltFit(daily)
	}
	if fit == nil {
		return nil
	}

	next := start.AddDate(0, 0, len(daily))
	return buildForecast("", fit, dailyHorizon, next, func(t time.Time, i int) time.Time {
		return t.AddDate(0, 0, i)
	})
}

// ForecastMonthly predicts horizon months of spend for one slice (category
// or overall). Annual seasonality is added once at least 24 monthly points
// exist. Returns nil when fewer than 6 monthly points exist.
func (a *Analyzer) ForecastMonthly(_ context.Context, txns []model.TransactionRecord, category string, horizon int) *model.ForecastResult {
	monthly, start := monthlySeries(txns)
	if len(monthly) < minMonthlyPoints {
		return nil
	}

	if horizon <= 0 {
		horizon = defaultMonthlyHorizon
	}
	if horizon > maxMonthlyHorizon {
		horizon = maxMonthlyHorizon
	}

	var fit *stats.SmoothingFit
	if len(monthly) >= monthlySeasonalAfter {
		fit = stats.HoltWintersFit(monthly, monthlySeasonalPeriod)
	}
	if fit == nil {
		fit = stats.HoltFit(monthly)
	}
	if fit == nil {
		return nil
	}

	next := start.AddDate(0, len(monthly), 0)
	return buildForecast(category, fit, horizon, next, func(t time.Time, i int) time.Time {
		return t.AddDate(0, i, 0)
	})
}

// buildForecast turns a fitted smoothing model into a ForecastResult with
// per-period 95% confidence bounds from the in-sample residual deviation.
func buildForecast(category string, fit *stats.SmoothingFit, horizon int, start time.Time, step func(time.Time, int) time.Time) *model.ForecastResult {
	predictions := fit.Forecast(horizon)
	band := confidenceZ * fit.ResidualStd

	result := &model.ForecastResult{
		Category:    category,
		Horizon:     horizon,
		ResidualStd: fit.ResidualStd,
		Points:      make([]model.ForecastPoint, horizon),
	}
	if fit.Trend >= 0 {
		result.Trend = model.DirectionIncreasing
	} else {
		result.Trend = model.DirectionDecreasing
	}

	for i, predicted := range predictions {
		result.Points[i] = model.ForecastPoint{
			Period:     step(start, i),
			Predicted:  predicted,
			LowerBound: predicted - band,
			UpperBound: predicted + band,
		}
		result.PredictedTotal += predicted
	}
	return result
}
