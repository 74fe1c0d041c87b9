package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"linkspread/src/cluster"
	"linkspread/src/posts"
	"linkspread/src/trend"
)

// Mean-sentiment boundaries for overall tone wording.
const (
	negativeTone = -0.1
	positiveTone = 0.1
)

// SubredditCount pairs a subreddit with how many matching posts it carried.
type SubredditCount struct {
	Subreddit string
	Count     int
}

// EmotionCount pairs an emotion label with its post count.
type EmotionCount struct {
	Emotion string
	Count   int
}

// Stats is the full per-domain rollup displayed on the dashboard and in the
// PDF export.
type Stats struct {
	Domain        string
	TotalPosts    int
	AvgSentiment  float64
	AvgToxicity   float64
	Emotions      []EmotionCount
	TopSubreddits []SubredditCount
	Daily         []trend.DayCount
	Peak          trend.DayCount
	Trend         trend.Label
	ClusterCount  int
	ClusterWords  [][]string
}

// Build aggregates annotated, clustered posts into a Stats rollup.
func Build(domain string, batch []posts.Post, clusters cluster.Result) Stats {
	stats := Stats{
		Domain:       domain,
		TotalPosts:   len(batch),
		ClusterCount: clusters.DistinctClusters(),
		ClusterWords: clusters.Keywords,
	}
	if len(batch) == 0 {
		stats.Trend = trend.Stable
		return stats
	}

	sentimentSum := 0.0
	toxicitySum := 0.0
	emotionCounts := make(map[string]int)
	subredditCounts := make(map[string]int)
	for _, p := range batch {
		sentimentSum += p.Sentiment
		toxicitySum += p.Toxicity
		emotionCounts[p.Emotion]++
		if p.Subreddit != "" {
			subredditCounts[p.Subreddit]++
		}
	}
	stats.AvgSentiment = sentimentSum / float64(len(batch))
	stats.AvgToxicity = toxicitySum / float64(len(batch))
	stats.Emotions = sortedEmotions(emotionCounts)
	stats.TopSubreddits = topSubreddits(subredditCounts, 10)
	stats.Daily = trend.DailyCounts(batch)
	stats.Peak = trend.Peak(stats.Daily)
	stats.Trend = trend.Classify(stats.Daily)
	return stats
}

// Tone maps the average sentiment to the wording used in the narrative.
func (s Stats) Tone() string {
	switch {
	case s.AvgSentiment < negativeTone:
		return "negative"
	case s.AvgSentiment < positiveTone:
		return "mixed"
	default:
		return "positive"
	}
}

// DominantEmotion returns the most common emotion label, or "unknown" when
// there are no posts.
func (s Stats) DominantEmotion() string {
	if len(s.Emotions) == 0 {
		return "unknown"
	}
	return s.Emotions[0].Emotion
}

// TopSubreddit returns the busiest subreddit, or empty when none matched.
func (s Stats) TopSubreddit() string {
	if len(s.TopSubreddits) == 0 {
		return ""
	}
	return s.TopSubreddits[0].Subreddit
}

// Narrative renders the insight paragraph shown under the charts.
func Narrative(s Stats) string {
	if s.TotalPosts == 0 {
		return fmt.Sprintf("No posts found linking to %s.", s.Domain)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The domain %s appears %s times across the platform. ",
		s.Domain, humanize.Comma(int64(s.TotalPosts)))
	fmt.Fprintf(&b, "The overall tone is %s, with a dominant emotional footprint of %s. ",
		s.Tone(), s.DominantEmotion())
	if sub := s.TopSubreddit(); sub != "" {
		fmt.Fprintf(&b, "It is most shared within r/%s, indicating the audience interest type. ", sub)
	}
	fmt.Fprintf(&b, "Posting activity peaked at %s posts/day on %s, and is currently %s. ",
		humanize.Comma(int64(s.Peak.Count)), s.Peak.Day.Format("2006-01-02"), s.Trend)
	fmt.Fprintf(&b, "The clustering model identified %d thematic groups, suggesting %s narrative contexts.",
		s.ClusterCount, diversityWord(s.ClusterCount))
	return b.String()
}

func diversityWord(clusters int) string {
	if clusters > 1 {
		return "diverse"
	}
	return "uniform"
}

func sortedEmotions(counts map[string]int) []EmotionCount {
	out := make([]EmotionCount, 0, len(counts))
	for emotion, count := range counts {
		out = append(out, EmotionCount{Emotion: emotion, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

func topSubreddits(counts map[string]int, limit int) []SubredditCount {
	out := make([]SubredditCount, 0, len(counts))
	for sub, count := range counts {
		out = append(out, SubredditCount{Subreddit: sub, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Subreddit < out[j].Subreddit
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
