package stats

// Smoothing parameters. Fixed rather than optimized: the engine favors
// stable, explainable forecasts over in-sample fit.
const (
	smoothingAlpha = 0.3
	smoothingBeta  = 0.1
	smoothingGamma = 0.2
)

// SmoothingFit is a fitted exponential-smoothing model.
type SmoothingFit struct {
	Fitted      []float64 // One-step-ahead in-sample predictions
	Level       float64
	Trend       float64
	Seasonal    []float64 // Current seasonal state, empty for Holt
	Period      int
	ResidualStd float64
}

// HoltFit fits Holt's linear (additive trend) exponential smoothing.
// Returns nil for series shorter than two points.
func HoltFit(values []float64) *SmoothingFit {
	n := len(values)
	if n < 2 {
		return nil
	}

	level := values[0]
	trend := values[1] - values[0]
	fitted := make([]float64, n)
	fitted[0] = values[0]

	for i := 1; i < n; i++ {
		fitted[i] = level + trend
		prevLevel := level
		level = smoothingAlpha*values[i] + (1-smoothingAlpha)*(level+trend)
		trend = smoothingBeta*(level-prevLevel) + (1-smoothingBeta)*trend
	}

	return &SmoothingFit{
		Fitted:      fitted,
		Level:       level,
		Trend:       trend,
		ResidualStd: residualStd(values, fitted),
	}
}

// HoltWintersFit fits additive-trend, additive-seasonal exponential
// smoothing with the given period. Returns nil unless the series covers at
// least two full periods.
func HoltWintersFit(values []float64, period int) *SmoothingFit {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil
	}

	// Initial seasonal state from the first cycle's deviation from its mean.
	firstCycleMean := Mean(values[:period])
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = values[i] - firstCycleMean
	}

	level := firstCycleMean
	trend := (Mean(values[period:2*period]) - firstCycleMean) / float64(period)

	fitted := make([]float64, n)
	for i := 0; i < n; i++ {
		s := seasonal[i%period]
		fitted[i] = level + trend + s

		prevLevel := level
		level = smoothingAlpha*(values[i]-s) + (1-smoothingAlpha)*(level+trend)
		trend = smoothingBeta*(level-prevLevel) + (1-smoothingBeta)*trend
		seasonal[i%period] = smoothingGamma*(values[i]-level) + (1-smoothingGamma)*s
	}

	return &SmoothingFit{
		Fitted:      fitted,
		Level:       level,
		Trend:       trend,
		Seasonal:    seasonal,
		Period:      period,
		ResidualStd: residualStd(values, fitted),
	}
}

// Forecast extrapolates h periods ahead from the fitted state.
func (f *SmoothingFit) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		v := f.Level + float64(i+1)*f.Trend
		if len(f.Seasonal) > 0 {
			v += f.Seasonal[(len(f.Fitted)+i)%f.Period]
		}
		out[i] = v
	}
	return out
}

func residualStd(observed, fitted []float64) float64 {
	residuals := make([]float64, len(observed))
	for i := range observed {
		residuals[i] = observed[i] - fitted[i]
	}
	return StdDev(residuals)
}
