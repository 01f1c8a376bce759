package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cache"
	"github.com/procurelens/procurelens/internal/categorizer"
	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the spend category taxonomy",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesSuggestCmd())
	cmd.AddCommand(categoriesTrainCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List taxonomy categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat := categorizer.New(nil)
			names := cat.Categories()
			sort.Strings(names)

			fmt.Println(cli.FormatTitle("Categories"))
			for _, name := range names {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}

func categoriesSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Mine uncategorized transactions for new category keywords",
		RunE:  runCategoriesSuggest,
	}

	addWindowFlags(cmd)

	return cmd
}

func runCategoriesSuggest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
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

	cat := categorizer.New(nil)

	// Mine only transactions nothing could categorize.
	candidates := txns[:0:0]
	for _, txn := range txns {
		if txn.Category == "" {
			candidates = append(candidates, txn)
		}
	}

	suggestions := cat.SuggestCategories(candidates)
	if len(suggestions) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No recurring keywords found in uncategorized transactions."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Suggested category keywords"))
	for _, s := range suggestions {
		fmt.Printf("  %-20s %d occurrences\n", s.Keyword, s.Occurrences)
	}
	return nil
}

func categoriesTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the ML fallback on already-categorized transactions",
		RunE:  runCategoriesTrain,
	}

	addWindowFlags(cmd)

	return cmd
}

func runCategoriesTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
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

	var examples []categorizer.LabeledExample
	for _, txn := range txns {
		if txn.Category == "" {
			continue
		}
		examples = append(examples, categorizer.LabeledExample{
			Text:     strings.ToLower(txn.VendorName + " " + txn.Description),
			Category: txn.Category,
		})
	}
	if len(examples) == 0 {
		return fmt.Errorf("no categorized transactions in the window to train on")
	}

	cat := categorizer.New(cache.NewTTLCache())
	cat.Train(examples)

	// Try the freshly trained model on whatever the rules could not place.
	var pending []model.TransactionRecord
	for _, txn := range txns {
		if txn.Category == "" {
			pending = append(pending, txn)
		}
	}
	resolved := 0
	if len(pending) > 0 {
		for _, a := range cat.ClassifyBatch(ctx, pending) {
			if a.Category != model.Uncategorized {
				resolved++
			}
		}
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Trained on %d labeled transactions; model resolves %d of %d uncategorized",
		len(examples), resolved, len(pending))))
	return nil
}
