package model

import "time"

// DashboardPeriod selects the reporting window for a dashboard.
type DashboardPeriod string

// Dashboard period constants.
const (
	PeriodMonth   DashboardPeriod = "month"
	PeriodQuarter DashboardPeriod = "quarter"
	PeriodYear    DashboardPeriod = "year"
)

// SpendSummary is the basic roll-up over a window of transactions.
type SpendSummary struct {
	ByCategory       map[string]float64
	ByVendor         map[string]float64
	TotalSpend       float64
	TransactionCount int
	VendorCount      int
	AvgTransaction   float64
}

// Dashboard composes the headline KPIs for a reporting period.
type Dashboard struct {
	Start            time.Time
	End              time.Time
	Period           DashboardPeriod
	Summary          *SpendSummary
	TopOpportunities []Opportunity
	Trend            *TrendResult
	TotalSpend       float64
	TransactionCount int
	VendorCount      int
	MaverickPct      float64
	PotentialSavings float64
	GrowthRatePct    float64
}

// VendorSpendReport summarizes one vendor's activity.
type VendorSpendReport struct {
	VendorID         string
	VendorName       string
	ByCategory       map[string]float64
	Trend            *TrendResult
	TotalSpend       float64
	TransactionCount int
	AvgTransaction   float64
	OnContractPct    float64
}
