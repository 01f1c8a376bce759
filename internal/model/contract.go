package model

import "time"

// Contract describes a negotiated vendor agreement from the contract store.
type Contract struct {
	VendorID         string
	VendorName       string
	Categories       []string
	ContractedPrices map[string]float64 // Item code -> negotiated unit price
	StartDate        time.Time
	EndDate          time.Time
}

// Covers reports whether the contract covers the given category. An empty
// category list means the contract covers all of the vendor's categories.
func (c *Contract) Covers(category string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// Benchmark is an industry price reference for one category.
type Benchmark struct {
	Category  string
	AvgPrice  float64
	MarketMin float64
	MarketMax float64
}

// BenchmarkStatus positions a category's average price against the market.
type BenchmarkStatus string

// Benchmark status constants.
const (
	BenchmarkAboveMarket BenchmarkStatus = "above_market"
	BenchmarkAtMarket    BenchmarkStatus = "at_market"
	BenchmarkBelowMarket BenchmarkStatus = "below_market"
)

// CategoryBenchmark compares one category's pricing against its industry
// benchmark.
type CategoryBenchmark struct {
	Category         string
	Status           BenchmarkStatus
	YourAvgPrice     float64
	BenchmarkPrice   float64
	VariancePct      float64
	CategorySpend    float64
	PotentialSavings float64
}
