package service

// AnalysisConfig holds the tunable thresholds for one orchestrator instance.
// It is constructed once and never mutated afterwards; every detector reads
// config rather than literals. The numeric defaults are inherited business
// heuristics with no published derivation, kept as named overridable values.
type AnalysisConfig struct {
	// MaverickThreshold is the maverick-spend fraction above which the
	// dashboard flags compliance risk.
	MaverickThreshold float64
	// ConsolidationThreshold is the minimum distinct vendor count per
	// category before consolidation analysis applies.
	ConsolidationThreshold int
	// PriceVarianceThreshold is the tolerated relative deviation from a
	// contracted unit price.
	PriceVarianceThreshold float64
	// AnalysisPeriodDays is the default lookback window.
	AnalysisPeriodDays int
	// MinSpendForAnalysis excludes trivially small slices from analysis.
	MinSpendForAnalysis float64
}

// DefaultAnalysisConfig returns the standard threshold set.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaverickThreshold:      0.2,
		ConsolidationThreshold: 5,
		PriceVarianceThreshold: 0.15,
		AnalysisPeriodDays:     365,
		MinSpendForAnalysis:    1000,
	}
}
