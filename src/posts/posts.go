package posts

import (
	"regexp"
	"strings"
	"time"
)

// Post represents one shared-link submission from the processed dataset.
// The annotation fields (Sentiment, Toxicity, Emotion, Cluster) are only
// populated on filtered copies; the source table never carries them.
type Post struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Unix        int64     `json:"unix"`
	Subreddit   string    `json:"subreddit"`
	Domain      string    `json:"domain"`
	Title       string    `json:"title"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`

	Sentiment float64 `json:"sentiment"`
	Toxicity  float64 `json:"toxicity"`
	Emotion   string  `json:"emotion"`
	Cluster   int     `json:"cluster"`
}

var (
	apostropheRe = regexp.MustCompile(`'\w*`)
	punctRe      = regexp.MustCompile(`[^a-z0-9 ]`)
)

// Tokenize splits a title into tokens for lexicon scoring and clustering.
// - Converts to lowercase
// - Removes apostrophes and what follows
// - Removes punctuation
// - Splits on whitespace
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = apostropheRe.ReplaceAllString(text, "")
	text = punctRe.ReplaceAllString(text, " ")
	return strings.Fields(text)
}
