package categorizer

import (
	"math"
	"strings"
	"unicode"
)

// LabeledExample is one training sample for the fallback classifier.
type LabeledExample struct {
	Text     string
	Category string
}

// bayesClassifier is a multinomial naive Bayes text classifier with Laplace
// smoothing. It serves as the statistical fallback when keyword rules are
// not confident.
type bayesClassifier struct {
	wordCounts map[string]map[string]int // category -> word -> count
	totalWords map[string]int            // category -> total word count
	docCounts  map[string]int            // category -> document count
	vocabulary map[string]struct{}
	totalDocs  int
}

func newBayesClassifier() *bayesClassifier {
	return &bayesClassifier{
		wordCounts: make(map[string]map[string]int),
		totalWords: make(map[string]int),
		docCounts:  make(map[string]int),
		vocabulary: make(map[string]struct{}),
	}
}

// trained reports whether the classifier has seen at least two categories.
func (b *bayesClassifier) trained() bool {
	return len(b.docCounts) >= 2
}

func (b *bayesClassifier) train(examples []LabeledExample) {
	for _, ex := range examples {
		tokens := tokenize(ex.Text)
		if len(tokens) == 0 || ex.Category == "" {
			continue
		}

		if b.wordCounts[ex.Category] == nil {
			b.wordCounts[ex.Category] = make(map[string]int)
		}
		for _, tok := range tokens {
			b.wordCounts[ex.Category][tok]++
			b.totalWords[ex.Category]++
			b.vocabulary[tok] = struct{}{}
		}
		b.docCounts[ex.Category]++
		b.totalDocs++
	}
}

// predict returns the most probable category and its normalized posterior
// probability. Returns empty category when untrained or the text is empty.
func (b *bayesClassifier) predict(text string) (string, float64) {
	if !b.trained() {
		return "", 0
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", 0
	}

	vocabSize := float64(len(b.vocabulary))
	logProbs := make(map[string]float64, len(b.docCounts))

	for category, docs := range b.docCounts {
		lp := math.Log(float64(docs) / float64(b.totalDocs))
		denom := float64(b.totalWords[category]) + vocabSize
		for _, tok := range tokens {
			count := float64(b.wordCounts[category][tok])
			lp += math.Log((count + 1) / denom)
		}
		logProbs[category] = lp
	}

	// Normalize via log-sum-exp so the winning probability is comparable
	// to rule confidence.
	maxLog := math.Inf(-1)
	best := ""
	for category, lp := range logProbs {
		if lp > maxLog {
			maxLog = lp
			best = category
		}
	}
	sum := 0.0
	for _, lp := range logProbs {
		sum += math.Exp(lp - maxLog)
	}

	return best, 1 / sum
}

// tokenize lowercases text and splits it on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
