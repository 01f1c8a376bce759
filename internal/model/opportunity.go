package model

// OpportunityType identifies which detector produced an opportunity.
type OpportunityType string

// Opportunity type constants.
const (
	OpportunityPriceVariance      OpportunityType = "price_variance"
	OpportunityConsolidation      OpportunityType = "vendor_consolidation"
	OpportunityVolumeDiscount     OpportunityType = "volume_discount"
	OpportunityPaymentTerms       OpportunityType = "payment_terms"
	OpportunityContractCompliance OpportunityType = "contract_compliance"
	OpportunityTailSpend          OpportunityType = "tail_spend"
	OpportunityCategorySpecific   OpportunityType = "category_specific"
)

// Difficulty buckets how hard an opportunity is to realize.
type Difficulty string

// Difficulty constants.
const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Implementation is a heuristic effort assessment attached to an opportunity.
type Implementation struct {
	Difficulty     Difficulty
	TimeframeWeeks int
	EstimatedCost  float64
}

// Opportunity is one quantified cost-savings finding.
type Opportunity struct {
	Type             OpportunityType
	Scope            string // Category, vendor, or item the finding applies to
	Action           string
	Rationale        string
	Implementation   Implementation
	PotentialSavings float64 // Always >= 0
	ROI              float64
}

// CategoryOpportunitySummary ranks a category's savings potential by a
// composite of spend, vendor count, and transaction count tiers.
type CategoryOpportunitySummary struct {
	Category         string
	TotalSpend       float64
	EstimatedSavings float64
	VendorCount      int
	TransactionCount int
	Score            int
}
