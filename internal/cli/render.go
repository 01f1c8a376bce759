package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/procurelens/procurelens/internal/model"
)

// FormatAmount renders a monetary value with thousands separators.
func FormatAmount(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	frac := int64((amount-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), frac)
}

// RenderDashboard renders the headline KPI dashboard.
func RenderDashboard(d *model.Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Period:        %s (%s to %s)\n",
		d.Period, d.Start.Format("2006-01-02"), d.End.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Total spend:   %s\n", FormatAmount(d.TotalSpend)))
	b.WriteString(fmt.Sprintf("Transactions:  %d across %d vendors\n", d.TransactionCount, d.VendorCount))
	b.WriteString(fmt.Sprintf("Growth rate:   %+.1f%%\n", d.GrowthRatePct))
	b.WriteString(fmt.Sprintf("Maverick:      %.1f%% of spend\n", d.MaverickPct))
	b.WriteString(fmt.Sprintf("Savings:       %s identified\n", FormatAmount(d.PotentialSavings)))

	if d.Summary != nil && len(d.Summary.ByCategory) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Top categories") + "\n")
		b.WriteString(renderSpendMap(d.Summary.ByCategory, 5))
	}

	if len(d.TopOpportunities) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Top opportunities") + "\n")
		for _, opp := range d.TopOpportunities {
			b.WriteString(fmt.Sprintf("  %s  %s (%s)\n",
				FormatAmount(opp.PotentialSavings), opp.Action, opp.Implementation.Difficulty))
		}
	}

	return RenderBox(ChartIcon+" Spend Dashboard", strings.TrimRight(b.String(), "\n"))
}

// RenderOpportunities renders a ranked savings opportunity list.
func RenderOpportunities(opportunities []model.Opportunity) string {
	if len(opportunities) == 0 {
		return SubtleStyle.Render("No savings opportunities identified.")
	}

	var total float64
	var b strings.Builder
	for i, opp := range opportunities {
		total += opp.PotentialSavings
		b.WriteString(fmt.Sprintf("%2d. %s  %s\n", i+1,
			BoldStyle.Render(FormatAmount(opp.PotentialSavings)), opp.Action))
		b.WriteString(SubtleStyle.Render(fmt.Sprintf(
			"    %s | %s difficulty, ~%d weeks, ROI %.1fx\n",
			opp.Rationale, opp.Implementation.Difficulty,
			opp.Implementation.TimeframeWeeks, opp.ROI)))
	}
	b.WriteString(fmt.Sprintf("\nTotal potential: %s across %d opportunities",
		BoldStyle.Render(FormatAmount(total)), len(opportunities)))

	return RenderBox(MoneyIcon+" Savings Opportunities", b.String())
}

// RenderTrendAnalysis renders the full trend diagnostic report.
func RenderTrendAnalysis(analysis *model.TrendAnalysis) string {
	var b strings.Builder

	if analysis.Overall != nil {
		b.WriteString(fmt.Sprintf("Overall:     %s (%s, r²=%.2f, %+.1f%%)\n",
			analysis.Overall.Direction, analysis.Overall.Strength,
			analysis.Overall.RSquared, analysis.Overall.PercentageChange))
	} else {
		b.WriteString(SubtleStyle.Render("Overall:     insufficient data\n"))
	}

	if analysis.Volatility != nil {
		b.WriteString(fmt.Sprintf("Volatility:  %s (CV=%.2f)\n",
			analysis.Volatility.Level, analysis.Volatility.CoefficientOfVariation))
	}

	if len(analysis.GrowthCategories) > 0 {
		b.WriteString(fmt.Sprintf("Growing:     %s\n", strings.Join(analysis.GrowthCategories, ", ")))
	}
	if len(analysis.DecliningCategories) > 0 {
		b.WriteString(fmt.Sprintf("Declining:   %s\n", strings.Join(analysis.DecliningCategories, ", ")))
	}

	if len(analysis.PeakPeriods) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Peak months") + "\n")
		for _, peak := range analysis.PeakPeriods {
			b.WriteString(fmt.Sprintf("  %s  %s (%+.0f%% vs mean)\n",
				peak.Month.Format("2006-01"), FormatAmount(peak.Amount), peak.DeviationPct))
		}
	}

	return RenderBox(TrendIcon+" Trend Analysis", strings.TrimRight(b.String(), "\n"))
}

// RenderForecast renders one forecast with its confidence band.
func RenderForecast(forecast *model.ForecastResult, dateFormat string) string {
	if forecast == nil || len(forecast.Points) == 0 {
		return SubtleStyle.Render("Not enough history to forecast.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Trend: %s | Predicted total: %s\n\n",
		forecast.Trend, FormatAmount(forecast.PredictedTotal)))
	for _, p := range forecast.Points {
		b.WriteString(fmt.Sprintf("  %s  %s  (%s - %s)\n",
			p.Period.Format(dateFormat),
			BoldStyle.Render(FormatAmount(p.Predicted)),
			FormatAmount(p.LowerBound), FormatAmount(p.UpperBound)))
	}

	title := TrendIcon + " Spend Forecast"
	if forecast.Category != "" {
		title += ": " + forecast.Category
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// RenderMaverickReport renders the off-contract spend report.
func RenderMaverickReport(report *model.MaverickReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Maverick spend: %s of %s (%.1f%%)\n",
		BoldStyle.Render(FormatAmount(report.MaverickSpend)),
		FormatAmount(report.TotalSpend), report.MaverickPct))

	if len(report.SpendByReason) > 0 {
		b.WriteString("\n" + BoldStyle.Render("By reason") + "\n")
		reasons := make([]string, 0, len(report.SpendByReason))
		for reason := range report.SpendByReason {
			reasons = append(reasons, string(reason))
		}
		sort.Slice(reasons, func(i, j int) bool {
			return report.SpendByReason[model.MaverickReason(reasons[i])] >
				report.SpendByReason[model.MaverickReason(reasons[j])]
		})
		for _, reason := range reasons {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				FormatAmount(report.SpendByReason[model.MaverickReason(reason)]), reason))
		}
	}

	if len(report.SpendByVendor) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Top vendors") + "\n")
		b.WriteString(renderSpendMap(report.SpendByVendor, 5))
	}

	return RenderBox(AlertIcon+" Maverick Spend", strings.TrimRight(b.String(), "\n"))
}

// RenderBenchmarks renders category pricing against industry references.
func RenderBenchmarks(benchmarks []model.CategoryBenchmark) string {
	if len(benchmarks) == 0 {
		return SubtleStyle.Render("No categories could be benchmarked.")
	}

	var b strings.Builder
	for _, bm := range benchmarks {
		status := string(bm.Status)
		switch bm.Status {
		case model.BenchmarkAboveMarket:
			status = ErrorStyle.Render(status)
		case model.BenchmarkBelowMarket:
			status = SuccessStyle.Render(status)
		default:
			status = SubtleStyle.Render(status)
		}
		b.WriteString(fmt.Sprintf("%-24s %s (%+.1f%% vs %s avg)\n",
			bm.Category, status, bm.VariancePct, FormatAmount(bm.BenchmarkPrice)))
		if bm.PotentialSavings > 0 {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf(
				"%-24s potential savings %s\n", "", FormatAmount(bm.PotentialSavings))))
		}
	}

	return RenderBox(ChartIcon+" Category Benchmarks", strings.TrimRight(b.String(), "\n"))
}

// renderSpendMap renders the top n entries of a name-to-spend map,
// largest first.
func renderSpendMap(spend map[string]float64, n int) string {
	names := make([]string, 0, len(spend))
	for name := range spend {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return spend[names[i]] > spend[names[j]] })
	if len(names) > n {
		names = names[:n]
	}

	var b strings.Builder
	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %s  %s\n", FormatAmount(spend[name]), name))
	}
	return b.String()
}
