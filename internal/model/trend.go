package model

import "time"

// TrendDirection indicates whether spend is rising or falling over a window.
type TrendDirection string

// Trend direction constants.
const (
	DirectionIncreasing TrendDirection = "increasing"
	DirectionDecreasing TrendDirection = "decreasing"
)

// TrendStrength buckets the correlation strength of a fitted trend.
type TrendStrength string

// Trend strength constants.
const (
	StrengthWeak     TrendStrength = "weak"
	StrengthModerate TrendStrength = "moderate"
	StrengthStrong   TrendStrength = "strong"
)

// TrendResult describes a linear trend fitted over a slice of spend data.
type TrendResult struct {
	Direction        TrendDirection
	Strength         TrendStrength
	Slope            float64
	Intercept        float64
	RSquared         float64
	PValue           float64
	PercentageChange float64
}

// VolatilityLevel buckets spend volatility.
type VolatilityLevel string

// Volatility level constants.
const (
	VolatilityLow      VolatilityLevel = "low"
	VolatilityModerate VolatilityLevel = "moderate"
	VolatilityHigh     VolatilityLevel = "high"
)

// VolatilityResult describes dispersion of daily spend.
type VolatilityResult struct {
	Level                  VolatilityLevel
	DailyStd               float64
	CoefficientOfVariation float64
	RollingVolatility      float64
}

// PeakPeriod is a month whose spend sits at or above the 75th percentile.
type PeakPeriod struct {
	Month          time.Time
	Amount         float64
	DeviationPct   float64 // Deviation from the monthly mean, percent
	PercentileRank float64
}

// SeasonalPeak is a local maximum of the seasonal component.
type SeasonalPeak struct {
	DayOfCycle int
	Magnitude  float64
}

// SeasonalityResult describes periodic structure in daily spend.
type SeasonalityResult struct {
	Peaks          []SeasonalPeak
	Period         int
	Strength       float64
	HasSeasonality bool
}

// Outlier is a transaction flagged by z-score anomaly detection.
type Outlier struct {
	Transaction TransactionRecord
	ZScore      float64
	Deviation   float64 // Signed distance from the mean amount
}

// TrendAnalysis aggregates every diagnostic computed over one window.
type TrendAnalysis struct {
	Overall             *TrendResult
	Volatility          *VolatilityResult
	PerCategory         map[string]*TrendResult
	GrowthCategories    []string
	DecliningCategories []string
	PeakPeriods         []PeakPeriod
	WindowDays          int
	TransactionCount    int
}
