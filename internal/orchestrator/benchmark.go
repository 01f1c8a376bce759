package orchestrator

import (
	"context"
	"sort"

	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/stats"
)

// benchmarkVarianceBand is the ±% band counted as at-market.
const benchmarkVarianceBand = 10.0

// benchmarkCategories compares each category's average unit price to its
// industry benchmark. A category without a benchmark, or whose lookup
// fails, is skipped with a warning; one bad category never fails the rest.
func (o *Orchestrator) benchmarkCategories(ctx context.Context, r BenchmarkCategoriesRequest) ([]model.CategoryBenchmark, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}
	if o.benchmarks == nil {
		return nil, nil
	}

	type rollup struct {
		prices []float64
		spend  float64
	}
	byCategory := make(map[string]*rollup)
	for _, txn := range txns {
		if txn.Category == "" || txn.Category == model.Uncategorized {
			continue
		}
		c := byCategory[txn.Category]
		if c == nil {
			c = &rollup{}
			byCategory[txn.Category] = c
		}
		c.spend += txn.Amount
		if txn.UnitPrice > 0 {
			c.prices = append(c.prices, txn.UnitPrice)
		}
	}

	var out []model.CategoryBenchmark
	for category, c := range byCategory {
		if c.spend < o.config.MinSpendForAnalysis || len(c.prices) == 0 {
			continue
		}

		benchmark, err := o.benchmarks.GetIndustryBenchmark(ctx, category)
		if err != nil {
			common.LogWarn("Benchmark lookup failed, skipping category",
				common.Fields{"category": category, "error": err.Error()})
			continue
		}
		if benchmark == nil || benchmark.AvgPrice <= 0 {
			continue
		}

		avgPrice := stats.Mean(c.prices)
		variance := (avgPrice - benchmark.AvgPrice) / benchmark.AvgPrice * 100

		result := model.CategoryBenchmark{
			Category:       category,
			YourAvgPrice:   avgPrice,
			BenchmarkPrice: benchmark.AvgPrice,
			VariancePct:    variance,
			CategorySpend:  c.spend,
		}
		switch {
		case variance > benchmarkVarianceBand:
			result.Status = model.BenchmarkAboveMarket
			result.PotentialSavings = variance / 100 * c.spend
		case variance < -benchmarkVarianceBand:
			result.Status = model.BenchmarkBelowMarket
		default:
			result.Status = model.BenchmarkAtMarket
		}

		out = append(out, result)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PotentialSavings > out[j].PotentialSavings })
	return out, nil
}
