package trend

import (
	"context"
	"sort"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/stats"
)

// Seasonality parameters.
const (
	seasonalPeriod       = 30
	minSeasonalityPoints = 60
	seasonalityThreshold = 0.1
	maxSeasonalPeaks     = 5
)

// DetectSeasonality decomposes daily spend with a 30-day period and
// measures how much of the observed variance the seasonal component
// explains. Returns nil when fewer than 60 daily points exist.
func (a *Analyzer) DetectSeasonality(_ context.Context, txns []model.TransactionRecord) *model.SeasonalityResult {
	daily, _ := dailySeries(txns)
	if len(daily) < minSeasonalityPoints {
		return nil
	}

	decomp := stats.Decompose(daily, seasonalPeriod)
	if decomp == nil {
		return nil
	}

	strength := decomp.SeasonalStrength(daily)
	result := &model.SeasonalityResult{
		Period:         seasonalPeriod,
		Strength:       strength,
		HasSeasonality: strength > seasonalityThreshold,
		Peaks:          seasonalPeaks(decomp.Indices),
	}
	return result
}

// seasonalPeaks finds local maxima of the seasonal indices, top five by
// magnitude. The cycle wraps, so position 0 and period-1 are neighbors.
func seasonalPeaks(indices []float64) []model.SeasonalPeak {
	n := len(indices)
	if n < 3 {
		return nil
	}

	var peaks []model.SeasonalPeak
	for i := 0; i < n; i++ {
		prev := indices[(i-1+n)%n]
		next := indices[(i+1)%n]
		if indices[i] > prev && indices[i] > next {
			peaks = append(peaks, model.SeasonalPeak{
				DayOfCycle: i,
				Magnitude:  indices[i],
			})
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if len(peaks) > maxSeasonalPeaks {
		peaks = peaks[:maxSeasonalPeaks]
	}
	return peaks
}
