package savings

import (
	"fmt"
	"math"
	"sort"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/stats"
)

// priceVariance flags items whose observed unit prices disperse beyond the
// CV threshold. Savings assume every purchase at the observed minimum.
func (id *Identifier) priceVariance(txns []model.TransactionRecord) []model.Opportunity {
	type item struct {
		prices []float64
		spend  float64
	}
	byItem := make(map[string]*item)

	for _, txn := range txns {
		if txn.ItemCode == "" || txn.UnitPrice <= 0 {
			continue
		}
		it := byItem[txn.ItemCode]
		if it == nil {
			it = &item{}
			byItem[txn.ItemCode] = it
		}
		it.prices = append(it.prices, txn.UnitPrice)
		it.spend += txn.Amount
	}

	var out []model.Opportunity
	for code, it := range byItem {
		if len(it.prices) < id.thresholds.PriceVarianceMinObs {
			continue
		}
		cv := stats.CoefficientOfVariation(it.prices)
		if cv <= id.thresholds.PriceVarianceCV {
			continue
		}

		mean := stats.Mean(it.prices)
		minPrice := it.prices[0]
		for _, p := range it.prices {
			if p < minPrice {
				minPrice = p
			}
		}
		potential := (mean - minPrice) / mean * it.spend

		out = append(out, model.Opportunity{
			Type:             model.OpportunityPriceVariance,
			Scope:            code,
			PotentialSavings: potential,
			Action:           "Standardize pricing at the best observed rate",
			Rationale: fmt.Sprintf("Unit price CV %.2f across %d purchases; mean %.2f vs best %.2f",
				cv, len(it.prices), mean, minPrice),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out
}

// vendorConsolidation flags fragmented categories: many vendors with the
// top three holding less than the concentration floor.
func (id *Identifier) vendorConsolidation(txns []model.TransactionRecord) []model.Opportunity {
	type category struct {
		vendorSpend map[string]float64
		spend       float64
	}
	byCategory := make(map[string]*category)

	for _, txn := range txns {
		if txn.Category == "" || txn.Category == model.Uncategorized {
			continue
		}
		c := byCategory[txn.Category]
		if c == nil {
			c = &category{vendorSpend: make(map[string]float64)}
			byCategory[txn.Category] = c
		}
		c.vendorSpend[txn.VendorID] += txn.Amount
		c.spend += txn.Amount
	}

	var out []model.Opportunity
	for name, c := range byCategory {
		if len(c.vendorSpend) < id.thresholds.ConsolidationVendors || c.spend <= 0 {
			continue
		}

		spends := make([]float64, 0, len(c.vendorSpend))
		for _, s := range c.vendorSpend {
			spends = append(spends, s)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(spends)))

		top3 := 0.0
		for i := 0; i < 3 && i < len(spends); i++ {
			top3 += spends[i]
		}
		concentration := top3 / c.spend
		if concentration >= id.thresholds.ConcentrationFloor {
			continue
		}

		out = append(out, model.Opportunity{
			Type:             model.OpportunityConsolidation,
			Scope:            name,
			PotentialSavings: id.thresholds.ConsolidationRate * c.spend,
			Action:           "Consolidate spend onto preferred vendors",
			Rationale: fmt.Sprintf("%d vendors with top-3 concentration %.0f%%",
				len(c.vendorSpend), concentration*100),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out
}

// volumeDiscount flags vendors with significant uncontracted annual spend.
func (id *Identifier) volumeDiscount(txns []model.TransactionRecord) []model.Opportunity {
	type vendor struct {
		name        string
		spend       float64
		hasContract bool
	}
	byVendor := make(map[string]*vendor)

	for _, txn := range txns {
		v := byVendor[txn.VendorID]
		if v == nil {
			v = &vendor{name: txn.VendorName}
			byVendor[txn.VendorID] = v
		}
		v.spend += txn.Amount
		if txn.OnContract() {
			v.hasContract = true
		}
	}

	var out []model.Opportunity
	for _, v := range byVendor {
		if v.hasContract || v.spend < id.thresholds.VolumeDiscountSpend {
			continue
		}
		out = append(out, model.Opportunity{
			Type:             model.OpportunityVolumeDiscount,
			Scope:            v.name,
			PotentialSavings: id.thresholds.VolumeDiscountRate * v.spend,
			Action:           "Negotiate a volume discount agreement",
			Rationale:        fmt.Sprintf("%.0f annual spend with no contract in place", v.spend),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out
}

// paymentTerms estimates early-payment discount capture on large aggregate
// spend.
func (id *Identifier) paymentTerms(txns []model.TransactionRecord) []model.Opportunity {
	total := 0.0
	for _, txn := range txns {
		total += txn.Amount
	}
	if total <= id.thresholds.PaymentTermsSpend {
		return nil
	}

	eligible := id.thresholds.EarlyPaymentFraction * total
	return []model.Opportunity{{
		Type:             model.OpportunityPaymentTerms,
		Scope:            "all vendors",
		PotentialSavings: id.thresholds.EarlyPaymentRate * eligible,
		Action:           "Negotiate early-payment discount terms",
		Rationale:        fmt.Sprintf("%.0f aggregate spend, %.0f%% assumed early-payment eligible", total, id.thresholds.EarlyPaymentFraction*100),
	}}
}

// contractCompliance flags a low on-contract fraction of total spend.
func (id *Identifier) contractCompliance(txns []model.TransactionRecord) []model.Opportunity {
	total := 0.0
	onContract := 0.0
	for _, txn := range txns {
		total += txn.Amount
		if txn.OnContract() {
			onContract += txn.Amount
		}
	}
	if total <= 0 {
		return nil
	}

	fraction := onContract / total
	if fraction >= id.thresholds.ComplianceOnContract {
		return nil
	}

	offContract := total - onContract
	return []model.Opportunity{{
		Type:             model.OpportunityContractCompliance,
		Scope:            "all categories",
		PotentialSavings: id.thresholds.ComplianceRate * offContract,
		Action:           "Route off-contract purchases to negotiated agreements",
		Rationale:        fmt.Sprintf("Only %.0f%% of spend is on contract", fraction*100),
	}}
}

// tailSpend flags a heavy long tail: the bottom 80% of vendors by spend
// carrying more than the tail-spend fraction of total.
func (id *Identifier) tailSpend(txns []model.TransactionRecord) []model.Opportunity {
	vendorSpend := make(map[string]float64)
	total := 0.0
	for _, txn := range txns {
		vendorSpend[txn.VendorID] += txn.Amount
		total += txn.Amount
	}
	if total <= 0 || len(vendorSpend) == 0 {
		return nil
	}

	spends := make([]float64, 0, len(vendorSpend))
	for _, s := range vendorSpend {
		spends = append(spends, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(spends)))

	// Round rather than truncate: 1-0.80 is not exact in float64, and
	// truncation would shave a vendor off the head.
	headCount := int(math.Round(float64(len(spends)) * (1 - id.thresholds.TailVendorFraction)))
	tail := 0.0
	for _, s := range spends[headCount:] {
		tail += s
	}

	if tail <= id.thresholds.TailSpendFraction*total || tail <= id.thresholds.TailSpendMinAbsolute {
		return nil
	}

	return []model.Opportunity{{
		Type:             model.OpportunityTailSpend,
		Scope:            "tail vendors",
		PotentialSavings: id.thresholds.TailSpendRate * tail,
		Action:           "Channel tail spend through catalogs or purchasing cards",
		Rationale: fmt.Sprintf("Bottom %d of %d vendors carry %.0f%% of spend",
			len(spends)-headCount, len(spends), tail/total*100),
	}}
}

// categorySpecific applies fixed savings multipliers to categories with
// meaningful spend.
func (id *Identifier) categorySpecific(txns []model.TransactionRecord) []model.Opportunity {
	spend := make(map[string]float64)
	for _, txn := range txns {
		if txn.Category == "" {
			continue
		}
		spend[txn.Category] += txn.Amount
	}

	var out []model.Opportunity
	for category, multiplier := range id.thresholds.CategoryMultipliers {
		s := spend[category]
		if s < id.thresholds.CategoryMinSpend {
			continue
		}
		out = append(out, model.Opportunity{
			Type:             model.OpportunityCategorySpecific,
			Scope:            category,
			PotentialSavings: multiplier * s,
			Action:           "Apply category sourcing levers",
			Rationale:        fmt.Sprintf("%.0f%% benchmark savings rate on %.0f spend", multiplier*100, s),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Scope < out[j].Scope })
	return out
}
