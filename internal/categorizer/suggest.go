package categorizer

import (
	"sort"

	"github.com/procurelens/procurelens/internal/model"
)

// Suggestion mining parameters.
const (
	minSuggestionWordLen = 5
	minSuggestionCount   = 3
	maxSuggestions       = 5
)

// SuggestCategories frequency-mines uncategorized transactions for words
// that could seed new taxonomy categories. Words shorter than five runes,
// stopwords, and words already covered by an existing keyword set are
// excluded; survivors need at least three occurrences. Returns the top five
// by frequency.
func (c *Categorizer) SuggestCategories(txns []model.TransactionRecord) []model.CategorySuggestion {
	counts := make(map[string]int)

	for _, txn := range txns {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(txn.VendorName + " " + txn.Description) {
			if len(tok) < minSuggestionWordLen {
				continue
			}
			if _, ok := stopwords[tok]; ok {
				continue
			}
			if _, ok := c.keywordShares[tok]; ok {
				continue
			}
			// Count each word once per transaction.
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			counts[tok]++
		}
	}

	suggestions := make([]model.CategorySuggestion, 0, len(counts))
	for word, n := range counts {
		if n >= minSuggestionCount {
			suggestions = append(suggestions, model.CategorySuggestion{
				Keyword:     word,
				Occurrences: n,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Occurrences != suggestions[j].Occurrences {
			return suggestions[i].Occurrences > suggestions[j].Occurrences
		}
		return suggestions[i].Keyword < suggestions[j].Keyword
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
