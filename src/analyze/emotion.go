package analyze

import (
	"fmt"
	"sort"

	"linkspread/src/posts"
)

// UnknownEmotion is the fallback label used when classification fails or no
// lexicon term matches the title.
const UnknownEmotion = "unknown"

// EmotionClassifier labels a title with its dominant emotion by counting
// lexicon term hits per emotion and taking the argmax. Ties break
// alphabetically so repeated runs give stable labels.
type EmotionClassifier struct {
	terms map[string]string
}

// NewEmotionClassifier loads the "term emotion" lexicon from a file.
func NewEmotionClassifier(lexiconPath string) (*EmotionClassifier, error) {
	terms, err := loadLabeledLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	return &EmotionClassifier{terms: terms}, nil
}

// Classify returns the dominant emotion label for a title, or an error when
// the title is empty or nothing in it matches the lexicon. Callers decide
// whether an error becomes the unknown label; the Annotator always maps it.
func (e *EmotionClassifier) Classify(title string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("empty title")
	}

	counts := make(map[string]int)
	for _, token := range posts.Tokenize(title) {
		if label, ok := e.terms[token]; ok {
			counts[label]++
		}
	}
	if len(counts) == 0 {
		return "", fmt.Errorf("no emotion terms matched")
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := labels[0]
	for _, label := range labels[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best, nil
}
