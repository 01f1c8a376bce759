package orchestrator

import (
	"time"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/service"
)

// Request is the sealed set of operations the orchestrator accepts. Each
// variant carries its own parameters and validation; dispatch is an
// exhaustive type switch rather than a string lookup.
type Request interface {
	// Operation returns the stable operation name used in envelopes
	// and logs.
	Operation() string
	// Validate reports missing or invalid fields. An empty result means
	// the request may be dispatched.
	Validate() []service.FieldError
}

// Window is a start/end pair shared by windowed requests.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) validate() []service.FieldError {
	var errs []service.FieldError
	if w.Start.IsZero() {
		errs = append(errs, service.FieldError{Field: "start", Message: "required"})
	}
	if w.End.IsZero() {
		errs = append(errs, service.FieldError{Field: "end", Message: "required"})
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		errs = append(errs, service.FieldError{Field: "end", Message: "must not precede start"})
	}
	return errs
}

// AnalyzeSpendRequest summarizes spend over a window.
type AnalyzeSpendRequest struct {
	Window
}

// Operation implements Request.
func (AnalyzeSpendRequest) Operation() string { return "analyze_spend" }

// Validate implements Request.
func (r AnalyzeSpendRequest) Validate() []service.FieldError { return r.Window.validate() }

// CategorizeTransactionsRequest classifies the named transactions.
type CategorizeTransactionsRequest struct {
	TransactionIDs []string
}

// Operation implements Request.
func (CategorizeTransactionsRequest) Operation() string { return "categorize_transactions" }

// Validate implements Request.
func (r CategorizeTransactionsRequest) Validate() []service.FieldError {
	if len(r.TransactionIDs) == 0 {
		return []service.FieldError{{Field: "transaction_ids", Message: "required"}}
	}
	return nil
}

// IdentifySavingsRequest runs the opportunity detectors over a window.
type IdentifySavingsRequest struct {
	Window
}

// Operation implements Request.
func (IdentifySavingsRequest) Operation() string { return "identify_savings_opportunities" }

// Validate implements Request.
func (r IdentifySavingsRequest) Validate() []service.FieldError { return r.Window.validate() }

// DetectMaverickSpendRequest finds off-contract spend in a window.
type DetectMaverickSpendRequest struct {
	Window
}

// Operation implements Request.
func (DetectMaverickSpendRequest) Operation() string { return "detect_maverick_spend" }

// Validate implements Request.
func (r DetectMaverickSpendRequest) Validate() []service.FieldError { return r.Window.validate() }

// AnalyzeTrendsRequest computes trend diagnostics over a window.
type AnalyzeTrendsRequest struct {
	Window
	WindowDays int
}

// Operation implements Request.
func (AnalyzeTrendsRequest) Operation() string { return "analyze_spending_trends" }

// Validate implements Request.
func (r AnalyzeTrendsRequest) Validate() []service.FieldError {
	errs := r.Window.validate()
	if r.WindowDays < 0 {
		errs = append(errs, service.FieldError{Field: "window_days", Message: "must be positive"})
	}
	return errs
}

// BenchmarkCategoriesRequest compares category pricing to market data.
type BenchmarkCategoriesRequest struct {
	Window
}

// Operation implements Request.
func (BenchmarkCategoriesRequest) Operation() string { return "benchmark_categories" }

// Validate implements Request.
func (r BenchmarkCategoriesRequest) Validate() []service.FieldError { return r.Window.validate() }

// GenerateDashboardRequest composes KPIs for a reporting period.
type GenerateDashboardRequest struct {
	Period model.DashboardPeriod
}

// Operation implements Request.
func (GenerateDashboardRequest) Operation() string { return "generate_analytics_dashboard" }

// Validate implements Request.
func (r GenerateDashboardRequest) Validate() []service.FieldError {
	switch r.Period {
	case model.PeriodMonth, model.PeriodQuarter, model.PeriodYear:
		return nil
	case "":
		return []service.FieldError{{Field: "period", Message: "required"}}
	default:
		return []service.FieldError{{Field: "period", Message: "must be month, quarter, or year"}}
	}
}

// AnalyzeVendorSpendRequest summarizes one vendor's activity.
type AnalyzeVendorSpendRequest struct {
	VendorID string
}

// Operation implements Request.
func (AnalyzeVendorSpendRequest) Operation() string { return "analyze_vendor_spend" }

// Validate implements Request.
func (r AnalyzeVendorSpendRequest) Validate() []service.FieldError {
	if r.VendorID == "" {
		return []service.FieldError{{Field: "vendor_id", Message: "required"}}
	}
	return nil
}

// ForecastSpendRequest predicts future spend from a window of history.
type ForecastSpendRequest struct {
	Window
	HorizonMonths int
	PerCategory   bool
}

// Operation implements Request.
func (ForecastSpendRequest) Operation() string { return "forecast_future_spend" }

// Validate implements Request.
func (r ForecastSpendRequest) Validate() []service.FieldError {
	errs := r.Window.validate()
	if r.HorizonMonths < 0 {
		errs = append(errs, service.FieldError{Field: "horizon_months", Message: "must be positive"})
	}
	return errs
}
