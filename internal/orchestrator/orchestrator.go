// Package orchestrator is the façade over the analytics engine: it
// validates requests, dispatches to the categorizer, trend analyzer, and
// savings identifier, and composes dashboards, benchmarks, and forecasts.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/procurelens/procurelens/internal/categorizer"
	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/savings"
	"github.com/procurelens/procurelens/internal/service"
	"github.com/procurelens/procurelens/internal/trend"
)

// Orchestrator coordinates the analytics components against the external
// transaction, contract, and benchmark collaborators.
type Orchestrator struct {
	transactions service.TransactionStore
	contracts    service.ContractStore
	benchmarks   service.BenchmarkProvider
	categorizer  *categorizer.Categorizer
	analyzer     *trend.Analyzer
	identifier   *savings.Identifier
	now          func() time.Time
	config       service.AnalysisConfig
}

// New creates an Orchestrator. The benchmark provider may be nil, in which
// case category benchmarking degrades to an empty result.
func New(
	transactions service.TransactionStore,
	contracts service.ContractStore,
	benchmarks service.BenchmarkProvider,
	cat *categorizer.Categorizer,
	config service.AnalysisConfig,
) *Orchestrator {
	thresholds := savings.DefaultThresholds()
	thresholds.ConsolidationVendors = config.ConsolidationThreshold

	return &Orchestrator{
		transactions: transactions,
		contracts:    contracts,
		benchmarks:   benchmarks,
		categorizer:  cat,
		analyzer:     trend.NewAnalyzer(config),
		identifier:   savings.NewIdentifier(thresholds),
		config:       config,
		now:          time.Now,
	}
}

// Handle validates and dispatches a request, wrapping the outcome in a
// uniform envelope. Panics and unexpected errors never escape; they are
// logged and converted to a failure envelope.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (env service.Envelope) {
	if req == nil {
		return service.Fail("no request")
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Operation panicked",
				"operation", req.Operation(),
				"panic", r)
			env = service.Fail(fmt.Sprintf("%s failed unexpectedly", req.Operation()))
		}
	}()

	if errs := req.Validate(); len(errs) > 0 {
		return service.Invalid(errs)
	}

	var (
		data any
		err  error
	)
	switch r := req.(type) {
	case AnalyzeSpendRequest:
		data, err = o.analyzeSpend(ctx, r)
	case CategorizeTransactionsRequest:
		data, err = o.categorizeTransactions(ctx, r)
	case IdentifySavingsRequest:
		data, err = o.identifySavings(ctx, r)
	case DetectMaverickSpendRequest:
		data, err = o.detectMaverickSpend(ctx, r)
	case AnalyzeTrendsRequest:
		data, err = o.analyzeTrends(ctx, r)
	case BenchmarkCategoriesRequest:
		data, err = o.benchmarkCategories(ctx, r)
	case GenerateDashboardRequest:
		data, err = o.generateDashboard(ctx, r)
	case AnalyzeVendorSpendRequest:
		data, err = o.analyzeVendorSpend(ctx, r)
	case ForecastSpendRequest:
		data, err = o.forecastSpend(ctx, r)
	default:
		return service.Fail(fmt.Sprintf("%s: %v", req.Operation(), common.ErrUnknownOperation))
	}

	if err != nil {
		if errors.Is(err, common.ErrNoData) {
			return service.Fail(fmt.Sprintf("%s: no transactions in the requested window", req.Operation()))
		}
		common.LogError(err, "Operation failed", common.Fields{"operation": req.Operation()})
		return service.Fail(fmt.Sprintf("%s failed", req.Operation()))
	}

	return service.OK(req.Operation()+" completed", data)
}

// loadWindow fetches and enriches the transactions for a window. Returns
// ErrNoData when the window is empty.
func (o *Orchestrator) loadWindow(ctx context.Context, w Window) ([]model.TransactionRecord, error) {
	txns, err := o.transactions.GetTransactions(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, common.ErrNoData
	}
	return o.enrich(ctx, txns), nil
}

// enrich fills in missing categories via the categorizer. Already
// categorized records pass through untouched.
func (o *Orchestrator) enrich(ctx context.Context, txns []model.TransactionRecord) []model.TransactionRecord {
	var pending []int
	for i, txn := range txns {
		if txn.Category == "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 || o.categorizer == nil {
		return txns
	}

	toClassify := make([]model.TransactionRecord, len(pending))
	for i, idx := range pending {
		toClassify[i] = txns[idx]
	}
	assignments := o.categorizer.ClassifyBatch(ctx, toClassify)
	for i, idx := range pending {
		txns[idx].Category = assignments[i].Category
	}
	return txns
}

// analyzeSpend builds the basic spend roll-up for a window.
func (o *Orchestrator) analyzeSpend(ctx context.Context, r AnalyzeSpendRequest) (*model.SpendSummary, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}
	return summarize(txns), nil
}

func summarize(txns []model.TransactionRecord) *model.SpendSummary {
	summary := &model.SpendSummary{
		ByCategory: make(map[string]float64),
		ByVendor:   make(map[string]float64),
	}
	for _, txn := range txns {
		summary.TotalSpend += txn.Amount
		summary.TransactionCount++
		category := txn.Category
		if category == "" {
			category = model.Uncategorized
		}
		summary.ByCategory[category] += txn.Amount
		summary.ByVendor[txn.VendorID] += txn.Amount
	}
	summary.VendorCount = len(summary.ByVendor)
	if summary.TransactionCount > 0 {
		summary.AvgTransaction = summary.TotalSpend / float64(summary.TransactionCount)
	}
	return summary
}

// CategorizedTransaction pairs a transaction with its assignment.
type CategorizedTransaction struct {
	Transaction model.TransactionRecord
	Assignment  model.CategoryAssignment
}

func (o *Orchestrator) categorizeTransactions(ctx context.Context, r CategorizeTransactionsRequest) ([]CategorizedTransaction, error) {
	txns, err := o.transactions.GetTransactionsByIDs(ctx, r.TransactionIDs)
	if err != nil {
		return nil, fmt.Errorf("loading transactions by id: %w", err)
	}
	if len(txns) == 0 {
		return nil, common.ErrNoData
	}

	assignments := o.categorizer.ClassifyBatch(ctx, txns)
	out := make([]CategorizedTransaction, len(txns))
	for i := range txns {
		out[i] = CategorizedTransaction{Transaction: txns[i], Assignment: assignments[i]}
	}
	return out, nil
}

func (o *Orchestrator) identifySavings(ctx context.Context, r IdentifySavingsRequest) ([]model.Opportunity, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}
	return o.identifier.Analyze(ctx, txns), nil
}

func (o *Orchestrator) analyzeTrends(ctx context.Context, r AnalyzeTrendsRequest) (*model.TrendAnalysis, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}
	windowDays := r.WindowDays
	if windowDays == 0 {
		windowDays = o.config.AnalysisPeriodDays
	}
	return o.analyzer.AnalyzeTrends(ctx, txns, windowDays), nil
}

func (o *Orchestrator) analyzeVendorSpend(ctx context.Context, r AnalyzeVendorSpendRequest) (*model.VendorSpendReport, error) {
	txns, err := o.transactions.GetVendorTransactions(ctx, r.VendorID)
	if err != nil {
		return nil, fmt.Errorf("loading vendor transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, common.ErrNoData
	}
	txns = o.enrich(ctx, txns)

	report := &model.VendorSpendReport{
		VendorID:   r.VendorID,
		VendorName: txns[0].VendorName,
		ByCategory: make(map[string]float64),
	}
	onContract := 0.0
	for _, txn := range txns {
		report.TotalSpend += txn.Amount
		report.TransactionCount++
		report.ByCategory[txn.Category] += txn.Amount
		if txn.OnContract() {
			onContract += txn.Amount
		}
	}
	report.AvgTransaction = report.TotalSpend / float64(report.TransactionCount)
	if report.TotalSpend > 0 {
		report.OnContractPct = onContract / report.TotalSpend * 100
	}

	if analysis := o.analyzer.AnalyzeTrends(ctx, txns, o.config.AnalysisPeriodDays); analysis != nil {
		report.Trend = analysis.Overall
	}
	return report, nil
}
