package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future spend with confidence bands",
		Long: `Fit exponential-smoothing models over historical spend and project
forward. Monthly forecasts cover the requested horizon; a daily
forecast covers the next 30 days when enough history exists.

Examples:
  procurelens forecast                    # 6-month overall forecast
  procurelens forecast --months 12        # longer horizon
  procurelens forecast --per-category     # break out each category`,
		RunE: runForecast,
	}

	addWindowFlags(cmd)
	cmd.Flags().Int("months", 0, "forecast horizon in months (0 = default)")
	cmd.Flags().Bool("per-category", false, "forecast each category separately")
	cmd.Flags().Bool("daily", false, "show the 30-day daily forecast")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	months, _ := cmd.Flags().GetInt("months")
	perCategory, _ := cmd.Flags().GetBool("per-category")
	daily, _ := cmd.Flags().GetBool("daily")

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

	env := engine.Handle(ctx, orchestrator.ForecastSpendRequest{
		Window:        window,
		HorizonMonths: months,
		PerCategory:   perCategory,
	})
	report, err := unwrap[*orchestrator.ForecastReport](env)
	if err != nil {
		return err
	}
	if report.Overall == nil && report.DailyNext30 == nil && len(report.PerCategory) == 0 {
		return fmt.Errorf("%w: the window has too little history to forecast", common.ErrInsufficientData)
	}

	fmt.Println(cli.RenderForecast(report.Overall, "2006-01"))

	if perCategory {
		categories := make([]string, 0, len(report.PerCategory))
		for category := range report.PerCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Println(cli.RenderForecast(report.PerCategory[category], "2006-01"))
		}
	}

	if daily {
		fmt.Println(cli.RenderForecast(report.DailyNext30, "2006-01-02"))
	}

	return nil
}
