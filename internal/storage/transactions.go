package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/procurelens/procurelens/internal/model"
)

// SaveTransactions inserts transactions, ignoring records already present.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.TransactionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(txns) == 0 {
		return ErrEmptySlice
	}
	for _, txn := range txns {
		if txn.ID == "" || txn.VendorID == "" || txn.Amount < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTransaction, txn.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, vendor_id, vendor_name, description, amount, currency, date,
			category, subcategory, item_code, unit_price, quantity,
			gl_account, contract_id, cost_center, department
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.VendorID, txn.VendorName, txn.Description,
			txn.Amount, txn.Currency, txn.Date,
			txn.Category, txn.Subcategory, txn.ItemCode,
			txn.UnitPrice, txn.Quantity,
			txn.GLAccount, txn.ContractID, txn.CostCenter, txn.Department,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// UpdateCategories writes classifier-assigned categories back to the
// named transactions.
func (s *SQLiteStorage) UpdateCategories(ctx context.Context, categories map[string]string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(categories) == 0 {
		return ErrEmptySlice
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "UPDATE transactions SET category = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for id, category := range categories {
		if _, err := stmt.ExecContext(ctx, category, id); err != nil {
			return fmt.Errorf("failed to update category for %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// GetTransactions returns records with start <= date < end, date-ordered.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, selectTransactionColumns+`
		WHERE date >= ? AND date < ?
		ORDER BY date
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionsByIDs returns the records matching ids, preserving the
// order requested. Unknown ids are silently absent.
func (s *SQLiteStorage) GetTransactionsByIDs(ctx context.Context, ids []string) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptySlice
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		selectTransactionColumns+" WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	found, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.TransactionRecord, len(found))
	for _, txn := range found {
		byID[txn.ID] = txn
	}
	out := make([]model.TransactionRecord, 0, len(found))
	for _, id := range ids {
		if txn, ok := byID[id]; ok {
			out = append(out, txn)
		}
	}
	return out, nil
}

// GetVendorTransactions returns every record for one vendor, date-ordered.
func (s *SQLiteStorage) GetVendorTransactions(ctx context.Context, vendorID string) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(vendorID, "vendorID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectTransactionColumns+`
		WHERE vendor_id = ?
		ORDER BY date
	`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

const selectTransactionColumns = `
	SELECT id, vendor_id, vendor_name, COALESCE(description, ''),
		amount, COALESCE(currency, 'USD'), date,
		COALESCE(category, ''), COALESCE(subcategory, ''),
		COALESCE(item_code, ''), COALESCE(unit_price, 0), COALESCE(quantity, 0),
		COALESCE(gl_account, ''), COALESCE(contract_id, ''),
		COALESCE(cost_center, ''), COALESCE(department, '')
	FROM transactions`

func scanTransactions(rows *sql.Rows) ([]model.TransactionRecord, error) {
	var out []model.TransactionRecord
	for rows.Next() {
		var txn model.TransactionRecord
		if err := rows.Scan(
			&txn.ID, &txn.VendorID, &txn.VendorName, &txn.Description,
			&txn.Amount, &txn.Currency, &txn.Date,
			&txn.Category, &txn.Subcategory,
			&txn.ItemCode, &txn.UnitPrice, &txn.Quantity,
			&txn.GLAccount, &txn.ContractID,
			&txn.CostCenter, &txn.Department,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}
