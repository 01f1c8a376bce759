package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

func savingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Identify cost-savings opportunities",
		Long: `Run the savings detectors over a window: price variance, vendor
consolidation, volume discounts, payment terms, contract compliance,
tail spend, and category-specific heuristics.`,
		RunE: runSavings,
	}

	addWindowFlags(cmd)
	cmd.Flags().Int("top", 0, "show only the top N opportunities (0 = all)")

	return cmd
}

func runSavings(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	top, _ := cmd.Flags().GetInt("top")

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

	env := engine.Handle(ctx, orchestrator.IdentifySavingsRequest{Window: window})
	opportunities, err := unwrap[[]model.Opportunity](env)
	if err != nil {
		return err
	}

	if top > 0 && len(opportunities) > top {
		opportunities = opportunities[:top]
	}

	fmt.Println(cli.RenderOpportunities(opportunities))
	return nil
}

func maverickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maverick",
		Short: "Detect spend outside negotiated contracts",
		RunE:  runMaverick,
	}

	addWindowFlags(cmd)

	return cmd
}

func runMaverick(cmd *cobra.Command, _ []string) error {
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

	env := engine.Handle(ctx, orchestrator.DetectMaverickSpendRequest{Window: window})
	report, err := unwrap[*model.MaverickReport](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderMaverickReport(report))

	cfg := analysisConfig()
	if report.MaverickPct > cfg.MaverickThreshold*100 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"Maverick spend exceeds the %.0f%% compliance threshold", cfg.MaverickThreshold*100)))
	}
	return nil
}
