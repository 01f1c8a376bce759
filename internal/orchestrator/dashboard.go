package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/model"
)

// maxDashboardOpportunities bounds the opportunity list on a dashboard.
const maxDashboardOpportunities = 5

// generateDashboard composes the period KPIs from the other analyses. The
// sub-analyses are independent, so they fan out concurrently; a failed
// branch logs a warning and leaves its KPI at a neutral default.
func (o *Orchestrator) generateDashboard(ctx context.Context, r GenerateDashboardRequest) (*model.Dashboard, error) {
	start, end := o.resolvePeriod(r.Period)

	txns, err := o.loadWindow(ctx, Window{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		Start:  start,
		End:    end,
		Period: r.Period,
	}

	var (
		opportunities []model.Opportunity
		maverick      *model.MaverickReport
		analysis      *model.TrendAnalysis
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dashboard.Summary = summarize(txns)
		return nil
	})
	g.Go(func() error {
		opportunities = o.identifier.Analyze(gctx, txns)
		return nil
	})
	g.Go(func() error {
		report, err := o.detectMaverickSpend(gctx, DetectMaverickSpendRequest{Window: Window{Start: start, End: end}})
		if err != nil {
			common.LogWarn("Maverick detection unavailable for dashboard",
				common.Fields{"error": err.Error()})
			return nil
		}
		maverick = report
		return nil
	})
	g.Go(func() error {
		analysis = o.analyzer.AnalyzeTrends(gctx, txns, int(end.Sub(start).Hours()/24))
		return nil
	})
	// Branches degrade instead of failing, so the only error is ctx cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard.TotalSpend = dashboard.Summary.TotalSpend
	dashboard.TransactionCount = dashboard.Summary.TransactionCount
	dashboard.VendorCount = dashboard.Summary.VendorCount

	for _, opp := range opportunities {
		dashboard.PotentialSavings += opp.PotentialSavings
	}
	if len(opportunities) > maxDashboardOpportunities {
		opportunities = opportunities[:maxDashboardOpportunities]
	}
	dashboard.TopOpportunities = opportunities

	if maverick != nil {
		dashboard.MaverickPct = maverick.MaverickPct
	}
	if analysis != nil && analysis.Overall != nil {
		dashboard.Trend = analysis.Overall
		dashboard.GrowthRatePct = analysis.Overall.PercentageChange
	}

	return dashboard, nil
}

// resolvePeriod maps a dashboard period to its current calendar window.
func (o *Orchestrator) resolvePeriod(period model.DashboardPeriod) (time.Time, time.Time) {
	now := o.now()
	switch period {
	case model.PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case model.PeriodQuarter:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 3, 0)
	default:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	}
}
