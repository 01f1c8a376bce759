package stats

// Decomposition is a classical additive decomposition of a series into
// trend, seasonal, and residual components.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Indices  []float64 // One seasonal index per position in the cycle
	Period   int
}

// Decompose performs classical additive seasonal decomposition with the
// given period: centered moving-average detrending, per-position seasonal
// indices centered to sum zero, and the remainder as residual. Returns nil
// when the series is shorter than two full periods.
func Decompose(values []float64, period int) *Decomposition {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centeredMovingAverage(values, period)

	// Average the detrended values by cycle position, using only positions
	// with a true centered window.
	half := period / 2
	sums := make([]float64, period)
	counts := make([]int, period)
	for i := half; i < n-half; i++ {
		pos := i % period
		sums[pos] += values[i] - trend[i]
		counts[pos]++
	}

	indices := make([]float64, period)
	total := 0.0
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			indices[i] = sums[i] / float64(counts[i])
		}
		total += indices[i]
	}
	// Center the indices so the seasonal component sums to zero per cycle.
	offset := total / float64(period)
	for i := range indices {
		indices[i] -= offset
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = indices[i%period]
		residual[i] = values[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Indices:  indices,
		Period:   period,
	}
}

// SeasonalStrength returns var(seasonal)/var(observed) for a decomposition,
// 0 when the observed series is constant.
func (d *Decomposition) SeasonalStrength(observed []float64) float64 {
	obsVar := Variance(observed)
	if obsVar == 0 {
		return 0
	}
	return Variance(d.Seasonal) / obsVar
}

// centeredMovingAverage smooths values with a window of size period; even
// periods use the standard 2×MA so the window stays centered. Positions
// without a full window keep the nearest computed value.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	half := period / 2

	first, last := -1, -1
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			// 2xMA: half weight on the two outermost points.
			sum = values[i-half]/2 + values[i+half]/2
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	if first < 0 {
		return out
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < n; i++ {
		out[i] = out[last]
	}
	return out
}
