package analyze

import (
	"fmt"

	"github.com/drankou/go-vader/vader"
)

// SentimentScorer wraps the VADER analyzer. The compound score is the single
// number shown on the dashboard: -1 most negative, +1 most positive.
type SentimentScorer struct {
	sia vader.SentimentIntensityAnalyzer
}

// NewSentimentScorer loads the VADER lexicons from the given paths.
func NewSentimentScorer(lexiconPath, emojiLexiconPath string) (*SentimentScorer, error) {
	s := &SentimentScorer{}
	if err := s.sia.Init(lexiconPath, emojiLexiconPath); err != nil {
		return nil, fmt.Errorf("failed to init VADER analyzer: %w", err)
	}
	return s, nil
}

// Score returns the VADER compound score for a title. Empty titles score 0.
func (s *SentimentScorer) Score(title string) float64 {
	if title == "" {
		return 0
	}
	scores := s.sia.PolarityScores(title)
	return scores["compound"]
}
