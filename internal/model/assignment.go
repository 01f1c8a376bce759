package model

// ClassificationMethod indicates how a category was assigned.
type ClassificationMethod string

// Classification method constants.
const (
	MethodRule ClassificationMethod = "rule"
	MethodML   ClassificationMethod = "ml"
	MethodNone ClassificationMethod = "none"
)

// Uncategorized is the category assigned when no classifier is confident.
const Uncategorized = "Uncategorized"

// CategoryAssignment is the result of classifying one transaction.
type CategoryAssignment struct {
	Category   string
	Method     ClassificationMethod
	Confidence float64 // Always in [0,1]
}

// CategorySuggestion is a candidate category mined from uncategorized
// transactions, named by its most frequent keyword.
type CategorySuggestion struct {
	Keyword     string
	Occurrences int
}
