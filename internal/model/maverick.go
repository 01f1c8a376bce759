package model

// MaverickReason explains why a transaction was flagged as maverick spend.
type MaverickReason string

// Maverick reason constants.
const (
	ReasonNonContractedVendor MaverickReason = "Non-contracted vendor"
	ReasonOffContractCategory MaverickReason = "Vendor not contracted for category"
	ReasonPriceDeviation      MaverickReason = "Price exceeds contracted rate"
)

// MaverickRecord is one transaction flagged as outside negotiated contracts.
type MaverickRecord struct {
	Transaction TransactionRecord
	Reason      MaverickReason
	Detail      string
}

// MaverickReport aggregates maverick findings for a window.
type MaverickReport struct {
	Records       []MaverickRecord
	SpendByReason map[MaverickReason]float64
	SpendByVendor map[string]float64
	MaverickSpend float64
	TotalSpend    float64
	MaverickPct   float64
}
