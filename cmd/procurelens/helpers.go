package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/procurelens/procurelens/internal/cache"
	"github.com/procurelens/procurelens/internal/categorizer"
	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/orchestrator"
	"github.com/procurelens/procurelens/internal/service"
	"github.com/procurelens/procurelens/internal/storage"
)

// expandPath expands ~ and environment variables in a path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/procurelens/procurelens.db"
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// analysisConfig builds the threshold set from config, falling back to
// defaults for anything unset.
func analysisConfig() service.AnalysisConfig {
	cfg := service.DefaultAnalysisConfig()
	if v := viper.GetFloat64("analysis.maverick_threshold"); v > 0 {
		cfg.MaverickThreshold = v
	}
	if v := viper.GetInt("analysis.consolidation_threshold"); v > 0 {
		cfg.ConsolidationThreshold = v
	}
	if v := viper.GetFloat64("analysis.price_variance_threshold"); v > 0 {
		cfg.PriceVarianceThreshold = v
	}
	if v := viper.GetInt("analysis.period_days"); v > 0 {
		cfg.AnalysisPeriodDays = v
	}
	if v := viper.GetFloat64("analysis.min_spend"); v > 0 {
		cfg.MinSpendForAnalysis = v
	}
	return cfg
}

// initEngine wires storage into a ready orchestrator. The caller owns the
// returned store and must close it.
func initEngine(ctx context.Context) (*orchestrator.Orchestrator, *storage.SQLiteStorage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cat := categorizer.New(cache.NewTTLCache())
	engine := orchestrator.New(store, store, store, cat, analysisConfig())
	return engine, store, nil
}

// addWindowFlags registers the shared --start/--end flags.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "window start (YYYY-MM-DD, default: lookback period ago)")
	cmd.Flags().String("end", "", "window end (YYYY-MM-DD, default: today)")
}

// parseWindow resolves the --start/--end flags, defaulting to the
// configured lookback period ending today.
func parseWindow(cmd *cobra.Command, cfg service.AnalysisConfig) (orchestrator.Window, error) {
	var w orchestrator.Window

	endFlag, _ := cmd.Flags().GetString("end")
	if endFlag == "" {
		w.End = time.Now()
	} else {
		end, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return w, fmt.Errorf("invalid end date (use YYYY-MM-DD): %w", err)
		}
		w.End = end
	}

	startFlag, _ := cmd.Flags().GetString("start")
	if startFlag == "" {
		w.Start = w.End.AddDate(0, 0, -cfg.AnalysisPeriodDays)
	} else {
		start, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return w, fmt.Errorf("invalid start date (use YYYY-MM-DD): %w", err)
		}
		w.Start = start
	}

	return w, nil
}

// unwrap extracts the payload from an envelope or converts the failure
// into an error the command can return.
func unwrap[T any](env service.Envelope) (T, error) {
	var zero T
	if !env.Success {
		if len(env.Errors) > 0 {
			parts := make([]string, len(env.Errors))
			for i, fe := range env.Errors {
				parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
			}
			return zero, fmt.Errorf("%w: %s", common.ErrInvalidRequest, strings.Join(parts, "; "))
		}
		return zero, common.NewUserError(env.Message, nil)
	}
	data, ok := env.Data.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", env.Data)
	}
	return data, nil
}
