package trend

import (
	"context"
	"math"
	"sort"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/stats"
)

// Outlier detection parameters.
const (
	outlierZThreshold = 3.0
	maxOutliers       = 20
)

// DetectOutliers flags transactions whose amount sits more than three
// standard deviations from the mean of the full set. Returns at most 20,
// largest absolute deviation first.
func (a *Analyzer) DetectOutliers(_ context.Context, txns []model.TransactionRecord) []model.Outlier {
	if len(txns) == 0 {
		return nil
	}

	amounts := make([]float64, len(txns))
	for i, txn := range txns {
		amounts[i] = txn.Amount
	}

	scores := stats.ZScores(amounts)
	mean := stats.Mean(amounts)

	var outliers []model.Outlier
	for i, z := range scores {
		if math.Abs(z) <= outlierZThreshold {
			continue
		}
		outliers = append(outliers, model.Outlier{
			Transaction: txns[i],
			ZScore:      z,
			Deviation:   amounts[i] - mean,
		})
	}

	sort.Slice(outliers, func(i, j int) bool {
		return math.Abs(outliers[i].Deviation) > math.Abs(outliers[j].Deviation)
	})
	if len(outliers) > maxOutliers {
		outliers = outliers[:maxOutliers]
	}
	return outliers
}
