package analyze

import (
	"path/filepath"
	"testing"

	"linkspread/src/posts"
)

func newTestAnnotator(t *testing.T, cache *Cache) *Annotator {
	t.Helper()
	sentiment, err := NewSentimentScorer(
		filepath.Join("testdata", "vader_lexicon.txt"),
		filepath.Join("testdata", "emoji_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to build sentiment scorer: %v", err)
	}
	toxicity, err := NewToxicityScorer(filepath.Join("testdata", "toxicity_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to build toxicity scorer: %v", err)
	}
	emotion, err := NewEmotionClassifier(filepath.Join("testdata", "emotion_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to build emotion classifier: %v", err)
	}
	return NewAnnotator(sentiment, toxicity, emotion, cache)
}

func TestToxicityScore(t *testing.T) {
	scorer, err := NewToxicityScorer(filepath.Join("testdata", "toxicity_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to load lexicon: %v", err)
	}

	if score := scorer.Score("A perfectly ordinary headline"); score != 0 {
		t.Errorf("Expected score 0 for clean title, got %v", score)
	}

	score := scorer.Score("What an idiot")
	if score < 0.44 || score > 0.46 {
		t.Errorf("Expected score around 0.45 for single term, got %v", score)
	}

	// Case-insensitive matching through the tokenizer
	if upper := scorer.Score("What an IDIOT"); upper != score {
		t.Errorf("Expected identical scores regardless of case, got %v vs %v", upper, score)
	}

	// Many terms saturate at 1
	if score := scorer.Score("idiot scum liar hate stupid garbage"); score != 1 {
		t.Errorf("Expected clamped score 1, got %v", score)
	}
}

func TestEmotionClassify(t *testing.T) {
	classifier, err := NewEmotionClassifier(filepath.Join("testdata", "emotion_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to load lexicon: %v", err)
	}

	label, err := classifier.Classify("Nation celebrates as team wins title")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if label != "joy" {
		t.Errorf("Expected joy, got %q", label)
	}

	// Majority wins: two anger terms vs one joy term
	label, err = classifier.Classify("Outrage as minister slams happy crowd")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if label != "anger" {
		t.Errorf("Expected anger, got %q", label)
	}
}

func TestEmotionClassifyNoMatch(t *testing.T) {
	classifier, err := NewEmotionClassifier(filepath.Join("testdata", "emotion_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to load lexicon: %v", err)
	}
	if _, err := classifier.Classify("Quarterly earnings report released"); err == nil {
		t.Error("Expected error when no emotion terms match")
	}
	if _, err := classifier.Classify(""); err == nil {
		t.Error("Expected error for empty title")
	}
}

// TestEmotionClassifyTieBreak verifies equal counts resolve alphabetically
// so labels are stable across runs.
func TestEmotionClassifyTieBreak(t *testing.T) {
	classifier, err := NewEmotionClassifier(filepath.Join("testdata", "emotion_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to load lexicon: %v", err)
	}
	label, err := classifier.Classify("Outrage and panic in the capital")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if label != "anger" {
		t.Errorf("Expected alphabetical tie-break to pick anger, got %q", label)
	}
}

func TestSentimentScore(t *testing.T) {
	scorer, err := NewSentimentScorer(
		filepath.Join("testdata", "vader_lexicon.txt"),
		filepath.Join("testdata", "emoji_lexicon.txt"))
	if err != nil {
		t.Fatalf("Failed to build sentiment scorer: %v", err)
	}

	if pos := scorer.Score("What a great day"); pos <= 0 {
		t.Errorf("Expected positive compound score, got %v", pos)
	}
	if neg := scorer.Score("What a terrible day"); neg >= 0 {
		t.Errorf("Expected negative compound score, got %v", neg)
	}
	if zero := scorer.Score(""); zero != 0 {
		t.Errorf("Expected 0 for empty title, got %v", zero)
	}
}

func TestAnnotateFillsFieldsAndFallsBack(t *testing.T) {
	annotator := newTestAnnotator(t, nil)

	batch := []posts.Post{
		{ID: "p1", Title: "Nation celebrates as team wins great title"},
		{ID: "p2", Title: "Quarterly earnings report released"},
	}
	annotator.Annotate(batch)

	if batch[0].Emotion != "joy" {
		t.Errorf("Expected joy for first post, got %q", batch[0].Emotion)
	}
	if batch[0].Sentiment <= 0 {
		t.Errorf("Expected positive sentiment for first post, got %v", batch[0].Sentiment)
	}
	// Nothing matched: classification fails and the unknown label is kept.
	if batch[1].Emotion != UnknownEmotion {
		t.Errorf("Expected %q fallback, got %q", UnknownEmotion, batch[1].Emotion)
	}
}

func TestAnnotateMemoizes(t *testing.T) {
	annotator := newTestAnnotator(t, nil)

	batch := []posts.Post{
		{ID: "p1", Title: "Nation celebrates as team wins"},
		{ID: "p2", Title: "Nation celebrates as team wins"},
	}
	annotator.Annotate(batch)

	if annotator.MemoSize() != 1 {
		t.Errorf("Expected one memoized title for identical inputs, got %d", annotator.MemoSize())
	}
	if batch[0].Sentiment != batch[1].Sentiment || batch[0].Emotion != batch[1].Emotion {
		t.Errorf("Expected identical annotations for identical titles, got %+v vs %+v", batch[0], batch[1])
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	defer cache.Close()

	if _, found, err := cache.Get("missing title"); err != nil || found {
		t.Errorf("Expected clean miss, got found=%v err=%v", found, err)
	}

	want := Annotation{Sentiment: 0.5, Toxicity: 0.1, Emotion: "joy"}
	if err := cache.Put("a title", want); err != nil {
		t.Fatalf("Failed to store annotation: %v", err)
	}

	got, found, err := cache.Get("a title")
	if err != nil {
		t.Fatalf("Failed to load annotation: %v", err)
	}
	if !found {
		t.Fatal("Expected cached annotation to be found")
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if n, err := cache.Size(); err != nil || n != 1 {
		t.Errorf("Expected cache size 1, got %d (err=%v)", n, err)
	}
}

// TestAnnotatePersistsToCache confirms a second annotator reuses cached
// results instead of rescoring.
func TestAnnotatePersistsToCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}

	first := newTestAnnotator(t, cache)
	batch := []posts.Post{{ID: "p1", Title: "Nation celebrates as team wins"}}
	first.Annotate(batch)
	cache.Close()

	reopened, err := OpenCache(path)
	if err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	defer reopened.Close()

	got, found, err := reopened.Get("Nation celebrates as team wins")
	if err != nil || !found {
		t.Fatalf("Expected annotation persisted across reopen, found=%v err=%v", found, err)
	}
	if got.Emotion != batch[0].Emotion || got.Sentiment != batch[0].Sentiment {
		t.Errorf("Expected persisted annotation %+v, got %+v", batch[0], got)
	}
}
