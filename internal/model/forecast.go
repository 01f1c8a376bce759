package model

import "time"

// ForecastPoint is a single predicted period with its 95% confidence band.
type ForecastPoint struct {
	Period     time.Time
	Predicted  float64
	LowerBound float64
	UpperBound float64
}

// ForecastResult is an exponential-smoothing forecast over one slice of
// spend. A nil ForecastResult means the slice had too little history, not
// that forecasting failed.
type ForecastResult struct {
	Category       string
	Trend          TrendDirection
	Points         []ForecastPoint
	Horizon        int
	PredictedTotal float64
	ResidualStd    float64
}
