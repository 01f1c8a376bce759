package categorizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/procurelens/procurelens/internal/cache"
	"github.com/procurelens/procurelens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyByRule(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	tests := []struct {
		name         string
		vendor       string
		description  string
		wantCategory string
		wantMethod   model.ClassificationMethod
	}{
		{
			name:         "clear software vendor",
			vendor:       "CloudWorks Inc",
			description:  "annual software license saas subscription hosting",
			wantCategory: "IT Software",
			wantMethod:   model.MethodRule,
		},
		{
			name:         "clear travel spend",
			vendor:       "Global Airline Travel",
			description:  "flight and hotel lodging, car rental",
			wantCategory: "Travel",
			wantMethod:   model.MethodRule,
		},
		{
			name:         "no keyword matches",
			vendor:       "Mysterious Holdings",
			description:  "miscellaneous",
			wantCategory: model.Uncategorized,
			wantMethod:   model.MethodNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(ctx, model.TransactionRecord{
				VendorName:  tt.vendor,
				Description: tt.description,
			})

			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestClassifyConfidenceInvariants(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	// Uncategorized if and only if confidence is below the floor, and then
	// the reported confidence is exactly zero.
	records := []model.TransactionRecord{
		{VendorName: "CloudWorks", Description: "software license saas subscription cloud hosting"},
		{VendorName: "Unknown Vendor", Description: "one-off"},
		{VendorName: "Steel Source", Description: "steel aluminum lumber chemical components"},
	}

	for _, txn := range records {
		got := c.Classify(ctx, txn)
		if got.Category == model.Uncategorized {
			assert.Zero(t, got.Confidence)
			assert.Equal(t, model.MethodNone, got.Method)
		} else {
			assert.GreaterOrEqual(t, got.Confidence, 0.5)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		}
	}
}

func TestClassifyConfidenceCapped(t *testing.T) {
	c := New(nil)

	// Every IT Software keyword present: boosted score must cap at 1.0.
	got := c.classifyText("software license saas subscription cloud hosting platform api")
	assert.Equal(t, "IT Software", got.Category)
	assert.LessOrEqual(t, got.Confidence, 1.0)
}

func TestSharedKeywordDiscount(t *testing.T) {
	c := New(nil)

	// "printer" belongs to both IT Hardware and Office Supplies, so alone it
	// scores half of an exclusive keyword and stays uncategorized.
	got := c.classifyText("printer")
	assert.Equal(t, model.Uncategorized, got.Category)
}

func TestMLFallback(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	examples := make([]LabeledExample, 0, 12)
	for i := 0; i < 6; i++ {
		examples = append(examples,
			LabeledExample{Text: "airport shuttle ground transfer ride", Category: "Travel"},
			LabeledExample{Text: "datacenter rack cabling install", Category: "IT Hardware"},
		)
	}
	c.Train(examples)

	// No taxonomy keyword matches, but the trained model knows this vocabulary.
	got := c.Classify(ctx, model.TransactionRecord{
		VendorName:  "Metro Rides",
		Description: "airport shuttle ground transfer",
	})

	assert.Equal(t, "Travel", got.Category)
	assert.Equal(t, model.MethodML, got.Method)
	assert.GreaterOrEqual(t, got.Confidence, 0.5)
}

func TestClassifyUsesCache(t *testing.T) {
	ttl := cache.NewTTLCache()
	c := New(ttl)
	ctx := context.Background()

	txn := model.TransactionRecord{
		VendorName:  "CloudWorks Inc",
		Description: "software license saas subscription hosting",
	}

	first := c.Classify(ctx, txn)
	second := c.Classify(ctx, txn)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ttl.Len())
}

func TestClassifyIdempotentWithinTTL(t *testing.T) {
	ttl := cache.NewTTLCache()
	c := New(ttl)
	ctx := context.Background()

	txn := model.TransactionRecord{
		ID:          "txn-1",
		VendorName:  "Global Airline",
		Description: "flight hotel rental travel",
		Date:        time.Now(),
	}
	// A different transaction with the same vendor and description shares
	// the cache entry.
	other := txn
	other.ID = "txn-2"
	other.Amount = 999

	assert.Equal(t, c.Classify(ctx, txn), c.Classify(ctx, other))
}

func TestClassifyBatchPreservesOrder(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	// More than one chunk, alternating categories.
	txns := make([]model.TransactionRecord, 250)
	for i := range txns {
		if i%2 == 0 {
			txns[i] = model.TransactionRecord{
				VendorName:  fmt.Sprintf("Airline %d", i),
				Description: "flight hotel rental travel",
			}
		} else {
			txns[i] = model.TransactionRecord{
				VendorName:  fmt.Sprintf("Software %d", i),
				Description: "software license saas subscription",
			}
		}
	}

	got := c.ClassifyBatch(ctx, txns)
	require.Len(t, got, 250)

	for i, assignment := range got {
		if i%2 == 0 {
			assert.Equal(t, "Travel", assignment.Category, "index %d", i)
		} else {
			assert.Equal(t, "IT Software", assignment.Category, "index %d", i)
		}
	}
}

func TestSuggestCategories(t *testing.T) {
	c := New(nil)

	txns := []model.TransactionRecord{
		{VendorName: "Bean Supply Co", Description: "espresso machine maintenance"},
		{VendorName: "Bean Supply Co", Description: "espresso beans bulk"},
		{VendorName: "Roasters Ltd", Description: "espresso grinder"},
		{VendorName: "One Off", Description: "widget"},
	}

	got := c.SuggestCategories(txns)

	require.NotEmpty(t, got)
	assert.Equal(t, "espresso", got[0].Keyword)
	assert.Equal(t, 3, got[0].Occurrences)

	for _, s := range got {
		assert.GreaterOrEqual(t, len(s.Keyword), 5)
		assert.GreaterOrEqual(t, s.Occurrences, 3)
	}
	assert.LessOrEqual(t, len(got), 5)
}

func TestSuggestCategoriesExcludesKnownKeywords(t *testing.T) {
	c := New(nil)

	txns := make([]model.TransactionRecord, 5)
	for i := range txns {
		// "software" is already a taxonomy keyword and must not resurface.
		txns[i] = model.TransactionRecord{Description: "software things"}
	}

	for _, s := range c.SuggestCategories(txns) {
		assert.NotEqual(t, "software", s.Keyword)
	}
}
