package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/orchestrator"
)

const classifyChunkSize = 100

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Categorize transactions against the standard taxonomy",
		Long: `Categorize transactions in a window. Keyword rules are tried first;
an ML fallback handles the rest. By default only uncategorized
transactions are processed.

Examples:
  procurelens classify                      # Classify uncategorized transactions
  procurelens classify --all                # Reclassify everything in the window
  procurelens classify --start 2025-01-01 --end 2025-06-30`,
		RunE: runClassify,
	}

	addWindowFlags(cmd)
	cmd.Flags().Bool("all", false, "Reclassify transactions that already have a category")
	cmd.Flags().Bool("write-back", false, "Persist assigned categories to the database")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	reclassifyAll, _ := cmd.Flags().GetBool("all")
	writeBack, _ := cmd.Flags().GetBool("write-back")

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

	txns, err := store.GetTransactions(ctx, window.Start, window.End)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	var ids []string
	for _, txn := range txns {
		if reclassifyAll || txn.Category == "" {
			ids = append(ids, txn.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println(cli.FormatSuccess("Nothing to classify"))
		return nil
	}

	common.LogInfo("Starting transaction categorization", common.Fields{"count": len(ids)})
	bar := progressbar.Default(int64(len(ids)), "classifying")

	byMethod := make(map[model.ClassificationMethod]int)
	uncategorized := 0
	for start := 0; start < len(ids); start += classifyChunkSize {
		end := min(start+classifyChunkSize, len(ids))

		env := engine.Handle(ctx, orchestrator.CategorizeTransactionsRequest{
			TransactionIDs: ids[start:end],
		})
		results, unwrapErr := unwrap[[]orchestrator.CategorizedTransaction](env)
		if unwrapErr != nil {
			return unwrapErr
		}

		assigned := make(map[string]string)
		for _, r := range results {
			byMethod[r.Assignment.Method]++
			if r.Assignment.Category == model.Uncategorized {
				uncategorized++
				continue
			}
			assigned[r.Transaction.ID] = r.Assignment.Category
		}
		if writeBack && len(assigned) > 0 {
			if updateErr := store.UpdateCategories(ctx, assigned); updateErr != nil {
				return fmt.Errorf("failed to write categories back: %w", updateErr)
			}
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Classified %d transactions: %d by rule, %d by ML, %d uncategorized",
		len(ids), byMethod[model.MethodRule], byMethod[model.MethodML], uncategorized)))
	if uncategorized > 0 {
		fmt.Println(cli.SubtleStyle.Render("Run 'procurelens categories suggest' to mine new category keywords."))
	}
	return nil
}
