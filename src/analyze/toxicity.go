package analyze

import (
	"linkspread/src/posts"
)

// ToxicityScorer assigns a toxicity score in [0,1] to a title by summing the
// weights of lexicon terms found in it. Weights come from a "term weight"
// file; the sum is clamped at 1 so a pile-up of mild terms saturates rather
// than overflowing the scale.
type ToxicityScorer struct {
	weights map[string]float64
}

// NewToxicityScorer loads the toxicity lexicon from a file.
func NewToxicityScorer(lexiconPath string) (*ToxicityScorer, error) {
	weights, err := loadWeightedLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	return &ToxicityScorer{weights: weights}, nil
}

// Score returns the clamped weight sum over the tokenized title.
func (t *ToxicityScorer) Score(title string) float64 {
	total := 0.0
	for _, token := range posts.Tokenize(title) {
		total += t.weights[token]
	}
	if total > 1 {
		return 1
	}
	if total < 0 {
		return 0
	}
	return total
}

// TermCount returns the number of lexicon terms loaded.
func (t *ToxicityScorer) TermCount() int {
	return len(t.weights)
}
