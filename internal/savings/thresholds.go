package savings

// Thresholds holds every detector's trigger point and savings rate. The
// numbers are inherited business heuristics; they are kept as named,
// overridable values rather than re-derived.
type Thresholds struct {
	CategoryMultipliers map[string]float64

	PriceVarianceCV      float64
	PriceVarianceMinObs  int
	ConsolidationVendors int
	ConcentrationFloor   float64
	ConsolidationRate    float64
	VolumeDiscountSpend  float64
	VolumeDiscountRate   float64
	PaymentTermsSpend    float64
	EarlyPaymentRate     float64
	EarlyPaymentFraction float64
	ComplianceOnContract float64
	ComplianceRate       float64
	TailVendorFraction   float64
	TailSpendFraction    float64
	TailSpendMinAbsolute float64
	TailSpendRate        float64
	CategoryMinSpend     float64
}

// DefaultThresholds returns the standard detector tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceVarianceCV:      0.15,
		PriceVarianceMinObs:  3,
		ConsolidationVendors: 5,
		ConcentrationFloor:   0.6,
		ConsolidationRate:    0.08,
		VolumeDiscountSpend:  100_000,
		VolumeDiscountRate:   0.10,
		PaymentTermsSpend:    500_000,
		EarlyPaymentRate:     0.02,
		EarlyPaymentFraction: 0.60,
		ComplianceOnContract: 0.80,
		ComplianceRate:       0.15,
		TailVendorFraction:   0.80,
		TailSpendFraction:    0.20,
		TailSpendMinAbsolute: 100_000,
		TailSpendRate:        0.12,
		CategoryMinSpend:     50_000,
		CategoryMultipliers: map[string]float64{
			"IT Software":           0.20,
			"Travel":                0.15,
			"Marketing":             0.12,
			"Office Supplies":       0.08,
			"Professional Services": 0.15,
		},
	}
}
