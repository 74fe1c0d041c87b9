package trend

import (
	"time"

	"linkspread/src/posts"
)

// Label classifies recent posting activity for a domain.
type Label string

const (
	Rising    Label = "rising"
	Declining Label = "declining"
	Stable    Label = "stable"
)

// Trend-ratio thresholds: trailing 7-day mean over preceding 7-day mean.
// Both comparisons are strict, so a ratio of exactly 1.3 or 0.7 is stable.
const (
	risingThreshold    = 1.3
	decliningThreshold = 0.7
	windowDays         = 7
)

// DayCount is the number of posts on one calendar day (UTC).
type DayCount struct {
	Day   time.Time
	Count int
}

// DailyCounts buckets posts into contiguous calendar days from the first to
// the last post, zero-filling days with no activity. Input order does not
// matter. Returns nil for an empty batch.
func DailyCounts(batch []posts.Post) []DayCount {
	if len(batch) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	for _, p := range batch {
		day := p.CreatedAt.UTC().Truncate(24 * time.Hour)
		counts[day]++
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	var series []DayCount
	for day := first; !day.After(last); day = day.Add(24 * time.Hour) {
		series = append(series, DayCount{Day: day, Count: counts[day]})
	}
	return series
}

// Classify compares the mean of the trailing window against the mean of the
// window preceding it. With fewer than two days of data there is nothing to
// compare and the activity is stable. A preceding window with no activity
// and a trailing window with some is rising.
func Classify(series []DayCount) Label {
	if len(series) < 2 {
		return Stable
	}

	trailStart := len(series) - windowDays
	if trailStart < 0 {
		trailStart = len(series) / 2
	}
	prevStart := trailStart - windowDays
	if prevStart < 0 {
		prevStart = 0
	}

	trailing := mean(series[trailStart:])
	preceding := mean(series[prevStart:trailStart])

	if preceding == 0 {
		if trailing > 0 {
			return Rising
		}
		return Stable
	}

	ratio := trailing / preceding
	if ratio > risingThreshold {
		return Rising
	}
	if ratio < decliningThreshold {
		return Declining
	}
	return Stable
}

// Peak returns the busiest day in the series. Zero values for an empty
// series.
func Peak(series []DayCount) DayCount {
	var peak DayCount
	for _, dc := range series {
		if dc.Count > peak.Count {
			peak = dc
		}
	}
	return peak
}

func mean(window []DayCount) float64 {
	if len(window) == 0 {
		return 0
	}
	total := 0
	for _, dc := range window {
		total += dc.Count
	}
	return float64(total) / float64(len(window))
}
