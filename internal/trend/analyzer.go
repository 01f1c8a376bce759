// Package trend computes trend, volatility, seasonality, outlier, and
// forecast diagnostics over categorized procurement transactions.
package trend

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/service"
	"github.com/procurelens/procurelens/internal/stats"
)

// Bucketing thresholds.
const (
	strongCorrelation   = 0.7
	moderateCorrelation = 0.4

	highVolatilityCV     = 0.5
	moderateVolatilityCV = 0.25
	rollingWindowDays    = 7

	peakPercentile = 75
	maxPeakPeriods = 6
)

// Analyzer computes time-series diagnostics. Stateless between calls; every
// result is recomputed from the transactions passed in.
type Analyzer struct {
	config service.AnalysisConfig
}

// NewAnalyzer creates an Analyzer with the given configuration.
func NewAnalyzer(config service.AnalysisConfig) *Analyzer {
	return &Analyzer{config: config}
}

// AnalyzeTrends computes the overall and per-category trends, volatility,
// and peak periods for a window of transactions. Slices with too little
// data simply omit the corresponding result field.
func (a *Analyzer) AnalyzeTrends(_ context.Context, txns []model.TransactionRecord, windowDays int) *model.TrendAnalysis {
	analysis := &model.TrendAnalysis{
		WindowDays:       windowDays,
		TransactionCount: len(txns),
		PerCategory:      make(map[string]*model.TrendResult),
	}
	if len(txns) == 0 {
		return analysis
	}

	ordered := sortedByDate(txns)
	amounts := make([]float64, len(ordered))
	for i, txn := range ordered {
		amounts[i] = txn.Amount
	}

	analysis.Overall = fitTrend(amounts)
	analysis.Volatility = a.volatility(ordered)
	analysis.PeakPeriods = a.peakPeriods(ordered)

	byCategory := make(map[string][]model.TransactionRecord)
	for _, txn := range ordered {
		if txn.Category == "" || txn.Category == model.Uncategorized {
			continue
		}
		byCategory[txn.Category] = append(byCategory[txn.Category], txn)
	}

	for category, catTxns := range byCategory {
		values := make([]float64, len(catTxns))
		for i, txn := range catTxns {
			values[i] = txn.Amount
		}
		result := fitTrend(values)
		if result == nil {
			continue
		}
		analysis.PerCategory[category] = result

		if result.Strength == model.StrengthWeak {
			continue
		}
		switch result.Direction {
		case model.DirectionIncreasing:
			analysis.GrowthCategories = append(analysis.GrowthCategories, category)
		case model.DirectionDecreasing:
			analysis.DecliningCategories = append(analysis.DecliningCategories, category)
		}
	}
	sort.Strings(analysis.GrowthCategories)
	sort.Strings(analysis.DecliningCategories)

	slog.Debug("Trend analysis complete",
		"transactions", len(txns),
		"categories", len(analysis.PerCategory),
		"peaks", len(analysis.PeakPeriods))

	return analysis
}

// fitTrend runs OLS over a date-ordered value series and buckets the result.
// Returns nil for fewer than two points.
func fitTrend(values []float64) *model.TrendResult {
	reg := stats.LinearRegression(values)
	if reg == nil {
		return nil
	}

	result := &model.TrendResult{
		Slope:     reg.Slope,
		Intercept: reg.Intercept,
		RSquared:  reg.RSquared,
		PValue:    reg.PValue,
	}

	first, last := values[0], values[len(values)-1]
	if first != 0 {
		result.PercentageChange = (last - first) / first * 100
	}

	if reg.Slope >= 0 {
		result.Direction = model.DirectionIncreasing
	} else {
		result.Direction = model.DirectionDecreasing
	}

	r := math.Sqrt(math.Max(reg.RSquared, 0))
	switch {
	case r > strongCorrelation:
		result.Strength = model.StrengthStrong
	case r > moderateCorrelation:
		result.Strength = model.StrengthModerate
	default:
		result.Strength = model.StrengthWeak
	}

	return result
}

// volatility measures dispersion of daily-aggregated spend.
func (a *Analyzer) volatility(txns []model.TransactionRecord) *model.VolatilityResult {
	daily, _ := dailySeries(txns)
	if len(daily) == 0 {
		return nil
	}

	std := stats.StdDev(daily)
	cv := stats.CoefficientOfVariation(daily)

	result := &model.VolatilityResult{
		DailyStd:               std,
		CoefficientOfVariation: cv,
		RollingVolatility:      stats.RollingStd(daily, rollingWindowDays),
	}

	switch {
	case cv > highVolatilityCV:
		result.Level = model.VolatilityHigh
	case cv > moderateVolatilityCV:
		result.Level = model.VolatilityModerate
	default:
		result.Level = model.VolatilityLow
	}

	return result
}

// peakPeriods finds months at or above the 75th percentile of monthly
// spend, top six by amount.
func (a *Analyzer) peakPeriods(txns []model.TransactionRecord) []model.PeakPeriod {
	totals := monthlyTotals(txns)
	if len(totals) == 0 {
		return nil
	}

	values := make([]float64, 0, len(totals))
	for _, v := range totals {
		values = append(values, v)
	}
	threshold := stats.Percentile(values, peakPercentile)
	mean := stats.Mean(values)

	var peaks []model.PeakPeriod
	for month, amount := range totals {
		if amount < threshold {
			continue
		}
		peak := model.PeakPeriod{
			Month:          month,
			Amount:         amount,
			PercentileRank: stats.PercentileRank(values, amount),
		}
		if mean != 0 {
			peak.DeviationPct = (amount - mean) / mean * 100
		}
		peaks = append(peaks, peak)
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Amount > peaks[j].Amount })
	if len(peaks) > maxPeakPeriods {
		peaks = peaks[:maxPeakPeriods]
	}
	return peaks
}
