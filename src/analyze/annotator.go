package analyze

import (
	"log/slog"
	"sync"

	"linkspread/src/posts"
)

// Annotator runs all three text scorers over a batch of posts. Results are
// memoized per title: first in an in-process map (the same title often
// appears across filter queries), then in the optional SQLite cache so they
// survive restarts. The persistent cache is best-effort; any cache failure
// is logged and the scorers run directly.
type Annotator struct {
	sentiment *SentimentScorer
	toxicity  *ToxicityScorer
	emotion   *EmotionClassifier
	cache     *Cache

	memo   map[string]Annotation
	memoMu sync.RWMutex
}

// NewAnnotator bundles the scorers. cache may be nil to disable persistence.
func NewAnnotator(s *SentimentScorer, t *ToxicityScorer, e *EmotionClassifier, cache *Cache) *Annotator {
	return &Annotator{
		sentiment: s,
		toxicity:  t,
		emotion:   e,
		cache:     cache,
		memo:      make(map[string]Annotation),
	}
}

// Annotate fills the Sentiment, Toxicity, and Emotion fields on each post in
// place. The slice is expected to hold copies of the source table rows (what
// Table.FilterDomain returns), so the source data is never mutated.
func (a *Annotator) Annotate(batch []posts.Post) {
	for i := range batch {
		ann := a.annotateTitle(batch[i].ID, batch[i].Title)
		batch[i].Sentiment = ann.Sentiment
		batch[i].Toxicity = ann.Toxicity
		batch[i].Emotion = ann.Emotion
	}
}

func (a *Annotator) annotateTitle(id, title string) Annotation {
	a.memoMu.RLock()
	ann, ok := a.memo[title]
	a.memoMu.RUnlock()
	if ok {
		return ann
	}

	if a.cache != nil {
		cached, found, err := a.cache.Get(title)
		if err != nil {
			slog.Warn("Annotation cache read failed, scoring directly", "post_id", id, "error", err)
		} else if found {
			a.remember(title, cached)
			return cached
		}
	}

	ann = Annotation{
		Sentiment: a.sentiment.Score(title),
		Toxicity:  a.toxicity.Score(title),
	}
	label, err := a.emotion.Classify(title)
	if err != nil {
		// The original pipeline silently swallowed these; keep the unknown
		// label but leave a trace so a systematically failing lexicon shows
		// up in the logs.
		slog.Debug("Emotion classification fell back to unknown", "post_id", id, "error", err)
		label = UnknownEmotion
	}
	ann.Emotion = label

	a.remember(title, ann)
	if a.cache != nil {
		if err := a.cache.Put(title, ann); err != nil {
			slog.Warn("Annotation cache write failed", "post_id", id, "error", err)
		}
	}
	return ann
}

func (a *Annotator) remember(title string, ann Annotation) {
	a.memoMu.Lock()
	a.memo[title] = ann
	a.memoMu.Unlock()
}

// MemoSize returns the number of titles held in the in-process memo map.
func (a *Annotator) MemoSize() int {
	a.memoMu.RLock()
	defer a.memoMu.RUnlock()
	return len(a.memo)
}
