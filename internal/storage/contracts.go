package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/procurelens/procurelens/internal/model"
)

// SaveContract upserts a contract with its category coverage and
// negotiated item prices.
func (s *SQLiteStorage) SaveContract(ctx context.Context, contract model.Contract) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(contract.VendorID, "vendorID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO contracts (vendor_id, vendor_name, start_date, end_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(vendor_id) DO UPDATE SET
			vendor_name = excluded.vendor_name,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`, contract.VendorID, contract.VendorName, contract.StartDate, contract.EndDate); err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM contract_categories WHERE vendor_id = ?", contract.VendorID); err != nil {
		return fmt.Errorf("failed to clear contract categories: %w", err)
	}
	for _, category := range contract.Categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contract_categories (vendor_id, category) VALUES (?, ?)",
			contract.VendorID, category); err != nil {
			return fmt.Errorf("failed to save contract category: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM contract_prices WHERE vendor_id = ?", contract.VendorID); err != nil {
		return fmt.Errorf("failed to clear contract prices: %w", err)
	}
	for itemCode, price := range contract.ContractedPrices {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contract_prices (vendor_id, item_code, price) VALUES (?, ?, ?)",
			contract.VendorID, itemCode, price); err != nil {
			return fmt.Errorf("failed to save contract price: %w", err)
		}
	}

	return tx.Commit()
}

// GetActiveContracts returns every contract whose term contains the
// current time. Contracts with no dates are treated as always active.
func (s *SQLiteStorage) GetActiveContracts(ctx context.Context) ([]model.Contract, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	asOf := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		SELECT vendor_id, vendor_name, start_date, end_date
		FROM contracts
		WHERE (start_date IS NULL OR start_date <= ?)
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY vendor_id
	`, asOf, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contracts []model.Contract
	for rows.Next() {
		var c model.Contract
		var startDate, endDate sql.NullTime
		if err := rows.Scan(&c.VendorID, &c.VendorName, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		c.StartDate = startDate.Time
		c.EndDate = endDate.Time
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range contracts {
		if err := s.loadContractDetails(ctx, &contracts[i]); err != nil {
			return nil, err
		}
	}
	return contracts, nil
}

func (s *SQLiteStorage) loadContractDetails(ctx context.Context, c *model.Contract) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category FROM contract_categories WHERE vendor_id = ? ORDER BY category",
		c.VendorID)
	if err != nil {
		return fmt.Errorf("failed to query contract categories: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return fmt.Errorf("failed to scan contract category: %w", err)
		}
		c.Categories = append(c.Categories, category)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	priceRows, err := s.db.QueryContext(ctx,
		"SELECT item_code, price FROM contract_prices WHERE vendor_id = ?",
		c.VendorID)
	if err != nil {
		return fmt.Errorf("failed to query contract prices: %w", err)
	}
	defer func() { _ = priceRows.Close() }()
	for priceRows.Next() {
		var itemCode string
		var price float64
		if err := priceRows.Scan(&itemCode, &price); err != nil {
			return fmt.Errorf("failed to scan contract price: %w", err)
		}
		if c.ContractedPrices == nil {
			c.ContractedPrices = make(map[string]float64)
		}
		c.ContractedPrices[itemCode] = price
	}
	return priceRows.Err()
}

// SaveBenchmark upserts an industry benchmark for one category.
func (s *SQLiteStorage) SaveBenchmark(ctx context.Context, b model.Benchmark) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(b.Category, "category"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO benchmarks (category, avg_price, market_min, market_max)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			avg_price = excluded.avg_price,
			market_min = excluded.market_min,
			market_max = excluded.market_max
	`, b.Category, b.AvgPrice, b.MarketMin, b.MarketMax)
	if err != nil {
		return fmt.Errorf("failed to save benchmark: %w", err)
	}
	return nil
}

// GetIndustryBenchmark returns the benchmark for category, or nil when no
// benchmark is recorded.
func (s *SQLiteStorage) GetIndustryBenchmark(ctx context.Context, category string) (*model.Benchmark, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	var b model.Benchmark
	err := s.db.QueryRowContext(ctx, `
		SELECT category, avg_price, market_min, market_max
		FROM benchmarks WHERE category = ?
	`, category).Scan(&b.Category, &b.AvgPrice, &b.MarketMin, &b.MarketMax)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark: %w", err)
	}
	return &b, nil
}
