// Package categorizer assigns taxonomy categories to procurement
// transactions using keyword rules with a statistical fallback.
package categorizer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/procurelens/procurelens/internal/service"
)

// Classification thresholds.
const (
	// batchSize bounds memory and latency per unit of batch work.
	batchSize = 100
	// mlFallbackThreshold is the rule confidence below which the
	// statistical classifier is consulted.
	mlFallbackThreshold = 0.7
	// minConfidence is the floor under which a transaction stays
	// Uncategorized.
	minConfidence = 0.5
	// multiKeywordBoost rewards matches on several distinct keywords.
	multiKeywordBoost   = 1.2
	minKeywordsForBoost = 3
	// cacheTTL is how long a classification stays valid for identical
	// (vendor, description) pairs.
	cacheTTL = 24 * time.Hour
)

// Categorizer classifies transactions against a fixed taxonomy.
type Categorizer struct {
	cache         service.Cache
	taxonomy      map[string][]string
	keywordShares map[string]int // keyword -> number of categories claiming it
	bayes         *bayesClassifier
	mu            sync.RWMutex
}

// New creates a Categorizer with the default taxonomy. The cache may be nil,
// in which case every classification is recomputed.
func New(cache service.Cache) *Categorizer {
	taxonomy := defaultTaxonomy()

	shares := make(map[string]int)
	for _, keywords := range taxonomy {
		for _, kw := range keywords {
			shares[kw]++
		}
	}

	return &Categorizer{
		cache:         cache,
		taxonomy:      taxonomy,
		keywordShares: shares,
		bayes:         newBayesClassifier(),
	}
}

// Categories returns the taxonomy category names.
func (c *Categorizer) Categories() []string {
	names := make([]string, 0, len(c.taxonomy))
	for name := range c.taxonomy {
		names = append(names, name)
	}
	return names
}

// Train fits the fallback statistical classifier on labeled examples.
func (c *Categorizer) Train(examples []LabeledExample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bayes.train(examples)
	slog.Info("Trained fallback classifier",
		"examples", len(examples),
		"categories", len(c.bayes.docCounts))
}

// Classify assigns a category to a single transaction.
func (c *Categorizer) Classify(_ context.Context, txn model.TransactionRecord) model.CategoryAssignment {
	key := txn.CacheKey()
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached
		}
	}

	text := strings.ToLower(txn.VendorName + " " + txn.Description)
	assignment := c.classifyText(text)

	if c.cache != nil {
		c.cache.Set(key, assignment, cacheTTL)
	}
	return assignment
}

// ClassifyBatch classifies transactions in order-preserving chunks.
func (c *Categorizer) ClassifyBatch(ctx context.Context, txns []model.TransactionRecord) []model.CategoryAssignment {
	out := make([]model.CategoryAssignment, 0, len(txns))

	for start := 0; start < len(txns); start += batchSize {
		end := start + batchSize
		if end > len(txns) {
			end = len(txns)
		}
		for _, txn := range txns[start:end] {
			out = append(out, c.Classify(ctx, txn))
		}
	}
	return out
}

func (c *Categorizer) classifyText(text string) model.CategoryAssignment {
	category, confidence := c.ruleScore(text)
	method := model.MethodRule

	if confidence < mlFallbackThreshold {
		c.mu.RLock()
		mlCategory, mlConfidence := c.bayes.predict(text)
		c.mu.RUnlock()

		if mlCategory != "" && mlConfidence > confidence {
			category = mlCategory
			confidence = mlConfidence
			method = model.MethodML
		}
	}

	if confidence < minConfidence {
		return model.CategoryAssignment{
			Category:   model.Uncategorized,
			Confidence: 0,
			Method:     model.MethodNone,
		}
	}

	return model.CategoryAssignment{
		Category:   category,
		Confidence: confidence,
		Method:     method,
	}
}

// ruleScore scores text against every category's keyword set. A keyword
// shared by k categories contributes 1/k; the sum is normalized by the
// category's keyword-set size so confidence stays in [0,1].
func (c *Categorizer) ruleScore(text string) (string, float64) {
	bestCategory := ""
	bestScore := 0.0

	for category, keywords := range c.taxonomy {
		score := 0.0
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score += 1 / float64(c.keywordShares[kw])
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		score /= float64(len(keywords))
		if matched >= minKeywordsForBoost {
			score *= multiKeywordBoost
		}
		if score > 1 {
			score = 1
		}

		if score > bestScore {
			bestScore = score
			bestCategory = category
		}
	}

	return bestCategory, bestScore
}
