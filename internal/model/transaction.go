// Package model defines the core domain models used throughout the engine.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// TransactionRecord represents a single procurement transaction from the
// transaction store. Records are read-only to this engine; enrichment
// (category assignment) is returned alongside, never written back here.
type TransactionRecord struct {
	Date        time.Time
	ID          string
	VendorID    string
	VendorName  string
	Description string
	Currency    string
	Category    string // Empty until classified
	Subcategory string
	ItemCode    string // Optional
	GLAccount   string
	ContractID  string // Optional
	CostCenter  string
	Department  string
	Amount      float64 // Non-negative
	UnitPrice   float64 // Optional, 0 when unknown
	Quantity    float64
}

// CacheKey produces the classification cache key for this record. Two
// records with the same vendor and description share a key, so a cached
// assignment for one applies to the other.
func (t *TransactionRecord) CacheKey() string {
	data := fmt.Sprintf("%s:%s",
		strings.ToLower(strings.TrimSpace(t.VendorName)),
		strings.ToLower(strings.TrimSpace(t.Description)))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// OnContract reports whether the transaction is covered by a contract.
func (t *TransactionRecord) OnContract() bool {
	return t.ContractID != ""
}
