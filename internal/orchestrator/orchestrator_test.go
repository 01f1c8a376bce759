package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/procurelens/procurelens/internal/cache"
	"github.com/procurelens/procurelens/internal/categorizer"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionStore struct {
	txns []model.TransactionRecord
	err  error
}

func (f *fakeTransactionStore) GetTransactions(_ context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.TransactionRecord
	for _, txn := range f.txns {
		if !txn.Date.Before(start) && txn.Date.Before(end) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) GetTransactionsByIDs(_ context.Context, ids []string) ([]model.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.TransactionRecord
	for _, txn := range f.txns {
		if _, ok := want[txn.ID]; ok {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) GetVendorTransactions(_ context.Context, vendorID string) ([]model.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.TransactionRecord
	for _, txn := range f.txns {
		if txn.VendorID == vendorID {
			out = append(out, txn)
		}
	}
	return out, nil
}

type fakeContractStore struct {
	contracts []model.Contract
	err       error
}

func (f *fakeContractStore) GetActiveContracts(_ context.Context) ([]model.Contract, error) {
	return f.contracts, f.err
}

type fakeBenchmarkProvider struct {
	benchmarks map[string]*model.Benchmark
	err        error
}

func (f *fakeBenchmarkProvider) GetIndustryBenchmark(_ context.Context, category string) (*model.Benchmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.benchmarks[category], nil
}

// panicStore exercises the operation-boundary recovery path.
type panicStore struct{ fakeTransactionStore }

func (p *panicStore) GetTransactions(context.Context, time.Time, time.Time) ([]model.TransactionRecord, error) {
	panic("store exploded")
}

var testWindow = Window{
	Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

func testTxn(id, vendorID, category string, amount float64, month int) model.TransactionRecord {
	return model.TransactionRecord{
		ID:         id,
		VendorID:   vendorID,
		VendorName: "Vendor " + vendorID,
		Category:   category,
		Amount:     amount,
		Date:       time.Date(2025, time.Month(month), 15, 0, 0, 0, 0, time.UTC),
	}
}

func newTestOrchestrator(store service.TransactionStore, contracts service.ContractStore, benchmarks service.BenchmarkProvider) *Orchestrator {
	if contracts == nil {
		contracts = &fakeContractStore{}
	}
	cat := categorizer.New(cache.NewTTLCache())
	return New(store, contracts, benchmarks, cat, service.DefaultAnalysisConfig())
}

func TestHandleValidation(t *testing.T) {
	o := newTestOrchestrator(&fakeTransactionStore{}, nil, nil)
	ctx := context.Background()

	tests := []struct {
		req       Request
		name      string
		wantField string
	}{
		{name: "missing window", req: AnalyzeSpendRequest{}, wantField: "start"},
		{name: "end before start", req: IdentifySavingsRequest{Window: Window{
			Start: testWindow.End, End: testWindow.Start,
		}}, wantField: "end"},
		{name: "no transaction ids", req: CategorizeTransactionsRequest{}, wantField: "transaction_ids"},
		{name: "bad period", req: GenerateDashboardRequest{Period: "decade"}, wantField: "period"},
		{name: "missing vendor", req: AnalyzeVendorSpendRequest{}, wantField: "vendor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := o.Handle(ctx, tt.req)

			assert.False(t, env.Success)
			require.NotEmpty(t, env.Errors)

			found := false
			for _, fe := range env.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s, got %v", tt.wantField, env.Errors)
		})
	}
}

func TestHandleNilRequest(t *testing.T) {
	o := newTestOrchestrator(&fakeTransactionStore{}, nil, nil)

	env := o.Handle(context.Background(), nil)
	assert.False(t, env.Success)
}

func TestHandleNoData(t *testing.T) {
	o := newTestOrchestrator(&fakeTransactionStore{}, nil, nil)

	env := o.Handle(context.Background(), AnalyzeSpendRequest{Window: testWindow})

	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "no transactions")
	assert.Empty(t, env.Errors)
}

func TestHandleRecoversPanic(t *testing.T) {
	o := newTestOrchestrator(&panicStore{}, nil, nil)

	env := o.Handle(context.Background(), AnalyzeSpendRequest{Window: testWindow})

	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "analyze_spend")
}

func TestAnalyzeSpend(t *testing.T) {
	store := &fakeTransactionStore{txns: []model.TransactionRecord{
		testTxn("t1", "v1", "Travel", 1_000, 1),
		testTxn("t2", "v1", "Travel", 2_000, 2),
		testTxn("t3", "v2", "IT Software", 3_000, 3),
	}}
	o := newTestOrchestrator(store, nil, nil)

	env := o.Handle(context.Background(), AnalyzeSpendRequest{Window: testWindow})

	require.True(t, env.Success)
	summary, ok := env.Data.(*model.SpendSummary)
	require.True(t, ok)
	assert.InDelta(t, 6_000, summary.TotalSpend, 1e-9)
	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, 2, summary.VendorCount)
	assert.InDelta(t, 3_000, summary.ByCategory["Travel"], 1e-9)
}

func TestCategorizeTransactions(t *testing.T) {
	txn := testTxn("t1", "v1", "", 500, 1)
	txn.VendorName = "CloudWorks"
	txn.Description = "software license saas subscription hosting"
	store := &fakeTransactionStore{txns: []model.TransactionRecord{txn}}
	o := newTestOrchestrator(store, nil, nil)

	env := o.Handle(context.Background(), CategorizeTransactionsRequest{TransactionIDs: []string{"t1"}})

	require.True(t, env.Success)
	results, ok := env.Data.([]CategorizedTransaction)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "IT Software", results[0].Assignment.Category)
	assert.Equal(t, model.MethodRule, results[0].Assignment.Method)
}

func TestIdentifySavings(t *testing.T) {
	// One uncontracted vendor over the volume-discount threshold.
	store := &fakeTransactionStore{txns: []model.TransactionRecord{
		testTxn("t1", "acme", "Logistics", 150_000, 3),
	}}
	o := newTestOrchestrator(store, nil, nil)

	env := o.Handle(context.Background(), IdentifySavingsRequest{Window: testWindow})

	require.True(t, env.Success)
	opportunities, ok := env.Data.([]model.Opportunity)
	require.True(t, ok)
	require.NotEmpty(t, opportunities)

	var volume *model.Opportunity
	for i := range opportunities {
		if opportunities[i].Type == model.OpportunityVolumeDiscount {
			volume = &opportunities[i]
		}
	}
	require.NotNil(t, volume)
	assert.InDelta(t, 15_000, volume.PotentialSavings, 1e-9)
}

func TestDetectMaverickSpend(t *testing.T) {
	contracts := &fakeContractStore{contracts: []model.Contract{
		{
			VendorID:         "good",
			Categories:       []string{"IT Software"},
			ContractedPrices: map[string]float64{"SKU-1": 100},
		},
	}}

	offContract := testTxn("t2", "good", "Travel", 2_000, 2)
	priced := testTxn("t3", "good", "IT Software", 3_000, 3)
	priced.ItemCode = "SKU-1"
	priced.UnitPrice = 130 // 30% over contracted
	clean := testTxn("t4", "good", "IT Software", 4_000, 4)
	clean.ItemCode = "SKU-1"
	clean.UnitPrice = 105

	store := &fakeTransactionStore{txns: []model.TransactionRecord{
		testTxn("t1", "rogue", "Travel", 1_000, 1),
		offContract,
		priced,
		clean,
	}}
	o := newTestOrchestrator(store, contracts, nil)

	env := o.Handle(context.Background(), DetectMaverickSpendRequest{Window: testWindow})

	require.True(t, env.Success)
	report, ok := env.Data.(*model.MaverickReport)
	require.True(t, ok)

	require.Len(t, report.Records, 3)
	byID := make(map[string]model.MaverickReason)
	for _, rec := range report.Records {
		byID[rec.Transaction.ID] = rec.Reason
	}
	assert.Equal(t, model.ReasonNonContractedVendor, byID["t1"])
	assert.Equal(t, model.ReasonOffContractCategory, byID["t2"])
	assert.Equal(t, model.ReasonPriceDeviation, byID["t3"])

	assert.InDelta(t, 6_000, report.MaverickSpend, 1e-9)
	assert.InDelta(t, 60, report.MaverickPct, 1e-9)
	assert.InDelta(t, 1_000, report.SpendByReason[model.ReasonNonContractedVendor], 1e-9)
}

func TestBenchmarkCategories(t *testing.T) {
	txns := make([]model.TransactionRecord, 0, 8)
	for i := 0; i < 4; i++ {
		txn := testTxn(fmt.Sprintf("sw-%d", i), "v1", "IT Software", 5_000, i+1)
		txn.UnitPrice = 120
		txns = append(txns, txn)
	}
	for i := 0; i < 4; i++ {
		txn := testTxn(fmt.Sprintf("tr-%d", i), "v2", "Travel", 5_000, i+1)
		txn.UnitPrice = 95
		txns = append(txns, txn)
	}

	benchmarks := &fakeBenchmarkProvider{benchmarks: map[string]*model.Benchmark{
		"IT Software": {Category: "IT Software", AvgPrice: 100},
		"Travel":      {Category: "Travel", AvgPrice: 100},
	}}
	o := newTestOrchestrator(&fakeTransactionStore{txns: txns}, nil, benchmarks)

	env := o.Handle(context.Background(), BenchmarkCategoriesRequest{Window: testWindow})

	require.True(t, env.Success)
	results, ok := env.Data.([]model.CategoryBenchmark)
	require.True(t, ok)
	require.Len(t, results, 2)

	byCategory := make(map[string]model.CategoryBenchmark)
	for _, r := range results {
		byCategory[r.Category] = r
	}

	software := byCategory["IT Software"]
	assert.Equal(t, model.BenchmarkAboveMarket, software.Status)
	assert.InDelta(t, 20, software.VariancePct, 1e-9)
	assert.InDelta(t, 0.20*20_000, software.PotentialSavings, 1e-9)

	travel := byCategory["Travel"]
	assert.Equal(t, model.BenchmarkAtMarket, travel.Status)
	assert.Zero(t, travel.PotentialSavings)
}

func TestBenchmarkCategoriesDegradesOnProviderError(t *testing.T) {
	txn := testTxn("t1", "v1", "Travel", 5_000, 1)
	txn.UnitPrice = 100
	store := &fakeTransactionStore{txns: []model.TransactionRecord{txn}}
	benchmarks := &fakeBenchmarkProvider{err: errors.New("benchmark service down")}
	o := newTestOrchestrator(store, nil, benchmarks)

	env := o.Handle(context.Background(), BenchmarkCategoriesRequest{Window: testWindow})

	// Degrades to an empty result rather than failing the request.
	require.True(t, env.Success)
	results, ok := env.Data.([]model.CategoryBenchmark)
	require.True(t, ok)
	assert.Empty(t, results)
}

func TestGenerateDashboard(t *testing.T) {
	var txns []model.TransactionRecord
	for m := 1; m <= 12; m++ {
		txns = append(txns, testTxn(fmt.Sprintf("t%d", m), "v1", "Travel", float64(1_000*m), m))
	}
	store := &fakeTransactionStore{txns: txns}
	o := newTestOrchestrator(store, nil, nil)
	o.now = func() time.Time { return time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC) }

	env := o.Handle(context.Background(), GenerateDashboardRequest{Period: model.PeriodYear})

	require.True(t, env.Success)
	dashboard, ok := env.Data.(*model.Dashboard)
	require.True(t, ok)

	assert.InDelta(t, 78_000, dashboard.TotalSpend, 1e-9)
	assert.Equal(t, 12, dashboard.TransactionCount)
	assert.Equal(t, 1, dashboard.VendorCount)
	// Every transaction is off-contract with an uncontracted vendor.
	assert.InDelta(t, 100, dashboard.MaverickPct, 1e-9)
	assert.Greater(t, dashboard.PotentialSavings, 0.0)
	assert.LessOrEqual(t, len(dashboard.TopOpportunities), 5)
	require.NotNil(t, dashboard.Trend)
	assert.Equal(t, model.DirectionIncreasing, dashboard.Trend.Direction)
}

func TestDashboardPeriodResolution(t *testing.T) {
	o := newTestOrchestrator(&fakeTransactionStore{}, nil, nil)
	o.now = func() time.Time { return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		period    model.DashboardPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{name: "month", period: model.PeriodMonth,
			wantStart: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		{name: "quarter", period: model.PeriodQuarter,
			wantStart: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
		{name: "year", period: model.PeriodYear,
			wantStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := o.resolvePeriod(tt.period)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestForecastSpend(t *testing.T) {
	var txns []model.TransactionRecord
	for m := 1; m <= 12; m++ {
		txns = append(txns, testTxn(fmt.Sprintf("t%d", m), "v1", "Travel", 100+10*float64(m-1), m))
	}
	store := &fakeTransactionStore{txns: txns}
	o := newTestOrchestrator(store, nil, nil)

	env := o.Handle(context.Background(), ForecastSpendRequest{
		Window:        testWindow,
		HorizonMonths: 3,
		PerCategory:   true,
	})

	require.True(t, env.Success)
	report, ok := env.Data.(*ForecastReport)
	require.True(t, ok)

	require.NotNil(t, report.Overall)
	assert.Equal(t, 3, report.Overall.Horizon)
	for _, p := range report.Overall.Points {
		assert.LessOrEqual(t, p.LowerBound, p.Predicted)
		assert.GreaterOrEqual(t, p.UpperBound, p.Predicted)
	}

	require.Contains(t, report.PerCategory, "Travel")
	require.NotNil(t, report.PerCategory["Travel"])

	// The zero-filled daily series spans the whole window, so the daily
	// fit is available too.
	require.NotNil(t, report.DailyNext30)
	assert.Len(t, report.DailyNext30.Points, 30)
}

func TestAnalyzeVendorSpend(t *testing.T) {
	contracted := testTxn("t1", "acme", "Logistics", 6_000, 1)
	contracted.ContractID = "ctr-9"
	store := &fakeTransactionStore{txns: []model.TransactionRecord{
		contracted,
		testTxn("t2", "acme", "Logistics", 4_000, 2),
		testTxn("t3", "other", "Travel", 9_000, 2),
	}}
	o := newTestOrchestrator(store, nil, nil)

	env := o.Handle(context.Background(), AnalyzeVendorSpendRequest{VendorID: "acme"})

	require.True(t, env.Success)
	report, ok := env.Data.(*model.VendorSpendReport)
	require.True(t, ok)
	assert.InDelta(t, 10_000, report.TotalSpend, 1e-9)
	assert.Equal(t, 2, report.TransactionCount)
	assert.InDelta(t, 60, report.OnContractPct, 1e-9)
	assert.InDelta(t, 10_000, report.ByCategory["Logistics"], 1e-9)
}

func TestAnalyzeTrendsOperation(t *testing.T) {
	var txns []model.TransactionRecord
	for m := 1; m <= 12; m++ {
		txns = append(txns, testTxn(fmt.Sprintf("t%d", m), "v1", "Travel", 100+10*float64(m-1), m))
	}
	o := newTestOrchestrator(&fakeTransactionStore{txns: txns}, nil, nil)

	env := o.Handle(context.Background(), AnalyzeTrendsRequest{Window: testWindow})

	require.True(t, env.Success)
	analysis, ok := env.Data.(*model.TrendAnalysis)
	require.True(t, ok)
	require.NotNil(t, analysis.Overall)
	assert.InDelta(t, 10, analysis.Overall.Slope, 1e-9)
	assert.Equal(t, model.StrengthStrong, analysis.Overall.Strength)
}
