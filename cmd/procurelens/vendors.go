package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

func vendorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor <vendor-id>",
		Short: "Summarize one vendor's spend and contract coverage",
		Args:  cobra.ExactArgs(1),
		RunE:  runVendor,
	}

	return cmd
}

func runVendor(cmd *cobra.Command, args []string) error {
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

	env := engine.Handle(ctx, orchestrator.AnalyzeVendorSpendRequest{VendorID: args[0]})
	report, err := unwrap[*model.VendorSpendReport](env)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Vendor: " + report.VendorName))
	fmt.Printf("Total spend:   %s over %d transactions\n",
		cli.FormatAmount(report.TotalSpend), report.TransactionCount)
	fmt.Printf("Average:       %s per transaction\n", cli.FormatAmount(report.AvgTransaction))
	fmt.Printf("On contract:   %.1f%%\n", report.OnContractPct)

	if report.Trend != nil {
		fmt.Printf("Trend:         %s (%s, %+.1f%%)\n",
			report.Trend.Direction, report.Trend.Strength, report.Trend.PercentageChange)
	}

	if len(report.ByCategory) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("By category"))
		for _, category := range sortedBySpend(report.ByCategory) {
			fmt.Printf("  %-24s %s\n", category, cli.FormatAmount(report.ByCategory[category]))
		}
	}

	return nil
}
