package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the headline KPI dashboard",
		Long: `Compose spend, savings, maverick, and trend KPIs for a reporting
period. The branches run concurrently; any that fail degrade to empty
sections rather than failing the dashboard.

Examples:
  procurelens dashboard                  # current month
  procurelens dashboard --period quarter
  procurelens dashboard --period year`,
		RunE: runDashboard,
	}

	cmd.Flags().String("period", "month", "reporting period (month, quarter, year)")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	period, _ := cmd.Flags().GetString("period")

	engine, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	env := engine.Handle(ctx, orchestrator.GenerateDashboardRequest{
		Period: model.DashboardPeriod(period),
	})
	dashboard, err := unwrap[*model.Dashboard](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderDashboard(dashboard))
	return nil
}

func benchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare category pricing against industry references",
		RunE:  runBenchmark,
	}

	addWindowFlags(cmd)

	return cmd
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
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

	env := engine.Handle(ctx, orchestrator.BenchmarkCategoriesRequest{Window: window})
	benchmarks, err := unwrap[[]model.CategoryBenchmark](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderBenchmarks(benchmarks))
	return nil
}
