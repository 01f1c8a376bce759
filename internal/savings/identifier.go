// Package savings runs a battery of independent opportunity detectors over
// categorized transactions and ranks the findings by estimated value.
package savings

import (
	"context"
	"log/slog"
	"sort"

	"github.com/procurelens/procurelens/internal/model"
)

// Identifier detects and ranks cost-savings opportunities.
type Identifier struct {
	thresholds Thresholds
}

// NewIdentifier creates an Identifier with the given thresholds.
func NewIdentifier(thresholds Thresholds) *Identifier {
	if thresholds.CategoryMultipliers == nil {
		thresholds.CategoryMultipliers = DefaultThresholds().CategoryMultipliers
	}
	return &Identifier{thresholds: thresholds}
}

// Analyze runs every detector and returns the combined findings sorted by
// potential savings, largest first. Detectors are independent and
// order-insensitive; one finding nothing never suppresses another.
func (id *Identifier) Analyze(_ context.Context, txns []model.TransactionRecord) []model.Opportunity {
	if len(txns) == 0 {
		return nil
	}

	var opportunities []model.Opportunity
	opportunities = append(opportunities, id.priceVariance(txns)...)
	opportunities = append(opportunities, id.vendorConsolidation(txns)...)
	opportunities = append(opportunities, id.volumeDiscount(txns)...)
	opportunities = append(opportunities, id.paymentTerms(txns)...)
	opportunities = append(opportunities, id.contractCompliance(txns)...)
	opportunities = append(opportunities, id.tailSpend(txns)...)
	opportunities = append(opportunities, id.categorySpecific(txns)...)

	for i := range opportunities {
		opportunities[i].Implementation = assessImplementation(opportunities[i].Type)
		if cost := opportunities[i].Implementation.EstimatedCost; cost > 0 {
			opportunities[i].ROI = opportunities[i].PotentialSavings / cost
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].PotentialSavings > opportunities[j].PotentialSavings
	})

	slog.Debug("Savings analysis complete",
		"transactions", len(txns),
		"opportunities", len(opportunities))

	return opportunities
}

// TopCategories scores each category's savings potential from spend,
// vendor-count, and transaction-count tiers, best score first.
func (id *Identifier) TopCategories(_ context.Context, txns []model.TransactionRecord) []model.CategoryOpportunitySummary {
	type rollup struct {
		vendors map[string]struct{}
		spend   float64
		count   int
	}
	byCategory := make(map[string]*rollup)

	for _, txn := range txns {
		category := txn.Category
		if category == "" {
			category = model.Uncategorized
		}
		r := byCategory[category]
		if r == nil {
			r = &rollup{vendors: make(map[string]struct{})}
			byCategory[category] = r
		}
		r.spend += txn.Amount
		r.count++
		r.vendors[txn.VendorID] = struct{}{}
	}

	summaries := make([]model.CategoryOpportunitySummary, 0, len(byCategory))
	for category, r := range byCategory {
		s := model.CategoryOpportunitySummary{
			Category:         category,
			TotalSpend:       r.spend,
			VendorCount:      len(r.vendors),
			TransactionCount: r.count,
		}

		if r.spend > 100_000 {
			s.Score += 3
			s.EstimatedSavings += 0.05 * r.spend
		} else if r.spend > 10_000 {
			s.Score++
		}
		if len(r.vendors) > 10 {
			s.Score += 2
			s.EstimatedSavings += 0.03 * r.spend
		} else if len(r.vendors) > 5 {
			s.Score++
		}
		if r.count > 100 {
			s.Score += 2
			s.EstimatedSavings += 10 * float64(r.count)
		} else if r.count > 50 {
			s.Score++
		}

		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Score != summaries[j].Score {
			return summaries[i].Score > summaries[j].Score
		}
		return summaries[i].EstimatedSavings > summaries[j].EstimatedSavings
	})

	return summaries
}

// assessImplementation maps an opportunity type to a heuristic effort
// estimate used for ROI.
func assessImplementation(t model.OpportunityType) model.Implementation {
	switch t {
	case model.OpportunityVolumeDiscount:
		return model.Implementation{Difficulty: model.DifficultyLow, TimeframeWeeks: 4, EstimatedCost: 2_000}
	case model.OpportunityPaymentTerms:
		return model.Implementation{Difficulty: model.DifficultyLow, TimeframeWeeks: 6, EstimatedCost: 3_000}
	case model.OpportunityPriceVariance:
		return model.Implementation{Difficulty: model.DifficultyMedium, TimeframeWeeks: 8, EstimatedCost: 5_000}
	case model.OpportunityCategorySpecific:
		return model.Implementation{Difficulty: model.DifficultyMedium, TimeframeWeeks: 8, EstimatedCost: 5_000}
	case model.OpportunityTailSpend:
		return model.Implementation{Difficulty: model.DifficultyMedium, TimeframeWeeks: 10, EstimatedCost: 8_000}
	case model.OpportunityContractCompliance:
		return model.Implementation{Difficulty: model.DifficultyMedium, TimeframeWeeks: 12, EstimatedCost: 10_000}
	case model.OpportunityConsolidation:
		return model.Implementation{Difficulty: model.DifficultyHigh, TimeframeWeeks: 16, EstimatedCost: 15_000}
	default:
		return model.Implementation{Difficulty: model.DifficultyMedium, TimeframeWeeks: 8, EstimatedCost: 5_000}
	}
}
