package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/procurelens/procurelens/internal/cli"
	"github.com/procurelens/procurelens/internal/common"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/storage"
)

const importBatchSize = 500

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV export",
		Long: `Import procurement transactions from a CSV file. The file must have a
header row; columns are matched by name (date, vendor_id, vendor_name,
description, amount, currency, category, item_code, unit_price, quantity,
gl_account, contract_id, cost_center, department). Rows without an id
column get a generated one.

Examples:
  procurelens import transactions.csv
  procurelens import --date-format 01/02/2006 legacy-export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("date-format", "2006-01-02", "Go layout for the date column")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dateFormat, _ := cmd.Flags().GetString("date-format")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "vendor_id", "amount"} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	bar := progressbar.Default(-1, "importing")

	var batch []model.TransactionRecord
	imported, skipped := 0, 0
	line := 1
	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		line++
		if readErr != nil {
			return fmt.Errorf("failed to read CSV row %d: %w", line, readErr)
		}

		txn, parseErr := parseImportRow(row, cols, dateFormat)
		if parseErr != nil {
			slog.Warn("Skipping unparseable row", "line", line, "error", parseErr)
			skipped++
			continue
		}

		batch = append(batch, txn)
		if len(batch) >= importBatchSize {
			if saveErr := saveBatch(ctx, store, batch); saveErr != nil {
				return saveErr
			}
			imported += len(batch)
			batch = batch[:0]
		}
		_ = bar.Add(1)
	}
	if len(batch) > 0 {
		if saveErr := saveBatch(ctx, store, batch); saveErr != nil {
			return saveErr
		}
		imported += len(batch)
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d skipped)", imported, skipped)))
	return nil
}

// saveBatch persists one batch, retrying transient failures such as a
// busy database.
func saveBatch(ctx context.Context, store *storage.SQLiteStorage, batch []model.TransactionRecord) error {
	err := common.WithRetry(ctx, func() error {
		return store.SaveTransactions(ctx, batch)
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

func parseImportRow(row []string, cols map[string]int, dateFormat string) (model.TransactionRecord, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	number := func(name string) float64 {
		v, _ := strconv.ParseFloat(field(name), 64)
		return v
	}

	var txn model.TransactionRecord

	date, err := time.Parse(dateFormat, field("date"))
	if err != nil {
		return txn, fmt.Errorf("invalid date %q: %w", field("date"), err)
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return txn, fmt.Errorf("invalid amount %q: %w", field("amount"), err)
	}
	if amount < 0 {
		return txn, fmt.Errorf("negative amount %q", field("amount"))
	}

	txn = model.TransactionRecord{
		ID:          field("id"),
		Date:        date,
		VendorID:    field("vendor_id"),
		VendorName:  field("vendor_name"),
		Description: field("description"),
		Amount:      amount,
		Currency:    field("currency"),
		Category:    field("category"),
		Subcategory: field("subcategory"),
		ItemCode:    field("item_code"),
		UnitPrice:   number("unit_price"),
		Quantity:    number("quantity"),
		GLAccount:   field("gl_account"),
		ContractID:  field("contract_id"),
		CostCenter:  field("cost_center"),
		Department:  field("department"),
	}
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.VendorID == "" {
		return txn, fmt.Errorf("missing vendor_id")
	}
	if txn.VendorName == "" {
		txn.VendorName = txn.VendorID
	}
	if txn.Currency == "" {
		txn.Currency = "USD"
	}

	return txn, nil
}
