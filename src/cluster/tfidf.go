package cluster

import (
	"math"
	"sort"

	"linkspread/src/posts"
)

// DefaultMaxFeatures caps the TF-IDF vocabulary at the most common terms,
// matching the bag-of-words size the dashboards have always used.
const DefaultMaxFeatures = 1000

// english stopwords pruned from titles before vectorization.
var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "but": true,
	"by": true, "can": true, "could": true, "did": true, "do": true,
	"does": true, "for": true, "from": true, "had": true, "has": true,
	"have": true, "he": true, "her": true, "his": true, "how": true,
	"i": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "just": true, "me": true, "more": true,
	"most": true, "my": true, "new": true, "no": true, "not": true,
	"now": true, "of": true, "on": true, "one": true, "or": true,
	"our": true, "out": true, "over": true, "s": true, "said": true,
	"she": true, "so": true, "some": true, "t": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "to": true,
	"up": true, "us": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "which": true, "who": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
}

// Vectorizer turns titles into TF-IDF vectors over a capped vocabulary.
type Vectorizer struct {
	Vocabulary map[string]int // term -> column index
	IDF        []float64
	docCount   int
}

// NewVectorizer builds the vocabulary and IDF table from the title corpus.
// The vocabulary keeps the maxFeatures terms with the highest document
// frequency; ties break alphabetically for determinism.
func NewVectorizer(titles []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	docFreq := make(map[string]int)
	for _, title := range titles {
		seen := make(map[string]bool)
		for _, token := range tokenizeTitle(title) {
			if !seen[token] {
				docFreq[token]++
				seen[token] = true
			}
		}
	}

	type termFreq struct {
		term string
		freq int
	}
	terms := make([]termFreq, 0, len(docFreq))
	for term, freq := range docFreq {
		terms = append(terms, termFreq{term, freq})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].freq != terms[j].freq {
			return terms[i].freq > terms[j].freq
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
		docCount:   len(titles),
	}
	for i, tf := range terms {
		v.Vocabulary[tf.term] = i
		// Smoothed IDF so terms present in every document keep a nonzero
		// weight instead of zeroing out short corpora.
		v.IDF[i] = math.Log(float64(1+v.docCount)/float64(1+tf.freq)) + 1
	}
	return v
}

// Vectorize produces the TF-IDF vector for one title.
func (v *Vectorizer) Vectorize(title string) []float64 {
	vec := make([]float64, len(v.IDF))
	tokens := tokenizeTitle(title)
	if len(tokens) == 0 {
		return vec
	}
	for _, token := range tokens {
		if idx, ok := v.Vocabulary[token]; ok {
			vec[idx]++
		}
	}
	for i := range vec {
		if vec[i] > 0 {
			vec[i] = (vec[i] / float64(len(tokens))) * v.IDF[i]
		}
	}
	return vec
}

// VectorizeAll vectorizes the whole corpus in vocabulary order.
func (v *Vectorizer) VectorizeAll(titles []string) [][]float64 {
	vectors := make([][]float64, len(titles))
	for i, title := range titles {
		vectors[i] = v.Vectorize(title)
	}
	return vectors
}

func tokenizeTitle(title string) []string {
	raw := posts.Tokenize(title)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < 2 || stopwords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
