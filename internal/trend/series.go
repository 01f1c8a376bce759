package trend

import (
	"sort"
	"time"

	"github.com/procurelens/procurelens/internal/model"
)

// dailySeries aggregates transaction amounts into a continuous daily series
// from the earliest to the latest transaction date. Days without spend are
// zero-filled so the index is a uniform time axis.
func dailySeries(txns []model.TransactionRecord) ([]float64, time.Time) {
	if len(txns) == 0 {
		return nil, time.Time{}
	}

	sums := make(map[time.Time]float64)
	var first, last time.Time
	for _, txn := range txns {
		day := txn.Date.Truncate(24 * time.Hour)
		sums[day] += txn.Amount
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	n := int(last.Sub(first).Hours()/24) + 1
	values := make([]float64, n)
	for day, amount := range sums {
		values[int(day.Sub(first).Hours()/24)] = amount
	}
	return values, first
}

// monthlySeries aggregates amounts by calendar month, zero-filling months
// without spend between the first and last.
func monthlySeries(txns []model.TransactionRecord) ([]float64, time.Time) {
	if len(txns) == 0 {
		return nil, time.Time{}
	}

	sums := make(map[time.Time]float64)
	var first, last time.Time
	for _, txn := range txns {
		month := time.Date(txn.Date.Year(), txn.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[month] += txn.Amount
		if first.IsZero() || month.Before(first) {
			first = month
		}
		if last.IsZero() || month.After(last) {
			last = month
		}
	}

	var values []float64
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		values = append(values, sums[m])
	}
	return values, first
}

// monthlyTotals returns per-month sums without zero-filling, for peak
// detection where empty months are not candidates.
func monthlyTotals(txns []model.TransactionRecord) map[time.Time]float64 {
	sums := make(map[time.Time]float64)
	for _, txn := range txns {
		month := time.Date(txn.Date.Year(), txn.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[month] += txn.Amount
	}
	return sums
}

// sortedByDate returns a date-ordered copy of txns.
func sortedByDate(txns []model.TransactionRecord) []model.TransactionRecord {
	out := make([]model.TransactionRecord, len(txns))
	copy(out, txns)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
