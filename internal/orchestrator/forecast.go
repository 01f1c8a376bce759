package orchestrator

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/procurelens/procurelens/internal/model"
)

// ForecastReport carries the overall forecast plus optional per-category
// forecasts. A nil entry means that slice had insufficient history.
type ForecastReport struct {
	PerCategory map[string]*model.ForecastResult
	Overall     *model.ForecastResult
	DailyNext30 *model.ForecastResult
}

// forecastSpend predicts future spend from the window's history. The
// overall, daily, and per-category fits are independent and run
// concurrently; slices with too little history yield nil rather than an
// error.
func (o *Orchestrator) forecastSpend(ctx context.Context, r ForecastSpendRequest) (*ForecastReport, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}

	report := &ForecastReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Overall = o.analyzer.ForecastMonthly(gctx, txns, "", r.HorizonMonths)
		return nil
	})
	g.Go(func() error {
		report.DailyNext30 = o.analyzer.Forecast(gctx, txns)
		return nil
	})

	if r.PerCategory {
		byCategory := make(map[string][]model.TransactionRecord)
		for _, txn := range txns {
			if txn.Category == "" || txn.Category == model.Uncategorized {
				continue
			}
			byCategory[txn.Category] = append(byCategory[txn.Category], txn)
		}

		report.PerCategory = make(map[string]*model.ForecastResult, len(byCategory))
		var mu sync.Mutex
		for category, catTxns := range byCategory {
			category, catTxns := category, catTxns
			g.Go(func() error {
				result := o.analyzer.ForecastMonthly(gctx, catTxns, category, r.HorizonMonths)
				mu.Lock()
				report.PerCategory[category] = result
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
