package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize spend over a window",
		RunE:  runAnalyze,
	}

	addWindowFlags(cmd)

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	engine, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	window, err := parseWindow(cmd, analysisConfig())
	if err != nil {
		return err
	}

	env := engine.Handle(ctx, orchestrator.AnalyzeSpendRequest{Window: window})
	summary, err := unwrap[*model.SpendSummary](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Spend Summary"))
	fmt.Printf("Window:        %s to %s\n",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	fmt.Printf("Total spend:   %s\n", cli.FormatAmount(summary.TotalSpend))
	fmt.Printf("Transactions:  %d across %d vendors\n",
		summary.TransactionCount, summary.VendorCount)
	fmt.Printf("Average:       %s per transaction\n", cli.FormatAmount(summary.AvgTransaction))

	if len(summary.ByCategory) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("By category"))
		for _, category := range sortedBySpend(summary.ByCategory) {
			fmt.Printf("  %-24s %s\n", category, cli.FormatAmount(summary.ByCategory[category]))
		}
	}

	return nil
}

func trendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Analyze spending trends, volatility, and peaks",
		RunE:  runTrends,
	}

	addWindowFlags(cmd)
	cmd.Flags().Int("window-days", 0, "analysis window in days (0 = configured lookback)")

	return cmd
}

func runTrends(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	windowDays, _ := cmd.Flags().GetInt("window-days")

	engine, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	window, err := parseWindow(cmd, analysisConfig())
	if err != nil {
		return err
	}

	env := engine.Handle(ctx, orchestrator.AnalyzeTrendsRequest{
		Window:     window,
		WindowDays: windowDays,
	})
	analysis, err := unwrap[*model.TrendAnalysis](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderTrendAnalysis(analysis))
	return nil
}

// sortedBySpend returns map keys ordered largest-spend first.
func sortedBySpend(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return m[names[i]] > m[names[j]] })
	return names
}
