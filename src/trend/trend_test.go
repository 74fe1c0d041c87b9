package trend

import (
	"testing"
	"time"

	"linkspread/src/posts"
)

func day(n int) time.Time {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(n) * 24 * time.Hour)
}

// postsOnDay builds count posts stamped within the given calendar day.
func postsOnDay(n, count int) []posts.Post {
	var batch []posts.Post
	for i := 0; i < count; i++ {
		ts := day(n).Add(time.Duration(i) * time.Minute)
		batch = append(batch, posts.Post{
			CreatedAt: ts,
			Unix:      ts.Unix(),
			Domain:    "example.com",
		})
	}
	return batch
}

func series(counts ...int) []DayCount {
	var s []DayCount
	for i, c := range counts {
		s = append(s, DayCount{Day: day(i), Count: c})
	}
	return s
}

func TestDailyCountsZeroFillsGaps(t *testing.T) {
	var batch []posts.Post
	batch = append(batch, postsOnDay(0, 2)...)
	batch = append(batch, postsOnDay(3, 1)...)

	got := DailyCounts(batch)
	if len(got) != 4 {
		t.Fatalf("Expected 4 contiguous days, got %d", len(got))
	}
	want := []int{2, 0, 0, 1}
	for i, w := range want {
		if got[i].Count != w {
			t.Errorf("Expected count %d on day %d, got %d", w, i, got[i].Count)
		}
		if !got[i].Day.Equal(day(i)) {
			t.Errorf("Expected day %v at index %d, got %v", day(i), i, got[i].Day)
		}
	}
}

func TestDailyCountsOrderIndependent(t *testing.T) {
	var batch []posts.Post
	batch = append(batch, postsOnDay(2, 1)...)
	batch = append(batch, postsOnDay(0, 1)...)

	got := DailyCounts(batch)
	if len(got) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(got))
	}
	if !got[0].Day.Equal(day(0)) {
		t.Errorf("Expected series to start at earliest day, got %v", got[0].Day)
	}
}

func TestDailyCountsEmpty(t *testing.T) {
	if got := DailyCounts(nil); got != nil {
		t.Errorf("Expected nil series for empty batch, got %v", got)
	}
}

func TestClassifyRising(t *testing.T) {
	// Preceding week averages 100, trailing week 140: ratio 1.4.
	s := series(100, 100, 100, 100, 100, 100, 100, 140, 140, 140, 140, 140, 140, 140)
	if got := Classify(s); got != Rising {
		t.Errorf("Expected rising, got %s", got)
	}
}

func TestClassifyDeclining(t *testing.T) {
	// Preceding week averages 100, trailing week 60: ratio 0.6.
	s := series(100, 100, 100, 100, 100, 100, 100, 60, 60, 60, 60, 60, 60, 60)
	if got := Classify(s); got != Declining {
		t.Errorf("Expected declining, got %s", got)
	}
}

func TestClassifyBoundaryRatiosAreStable(t *testing.T) {
	// Ratio of exactly 1.3 must not count as rising.
	up := series(100, 100, 100, 100, 100, 100, 100, 130, 130, 130, 130, 130, 130, 130)
	if got := Classify(up); got != Stable {
		t.Errorf("Expected stable at ratio 1.3, got %s", got)
	}
	// Ratio of exactly 0.7 must not count as declining.
	down := series(100, 100, 100, 100, 100, 100, 100, 70, 70, 70, 70, 70, 70, 70)
	if got := Classify(down); got != Stable {
		t.Errorf("Expected stable at ratio 0.7, got %s", got)
	}
}

func TestClassifyShortSeriesSplitsInHalf(t *testing.T) {
	// With under two full weeks the series is halved: [1 1] vs [5 5].
	s := series(1, 1, 5, 5)
	if got := Classify(s); got != Rising {
		t.Errorf("Expected rising for quadrupled activity, got %s", got)
	}
}

func TestClassifySingleDayIsStable(t *testing.T) {
	if got := Classify(series(50)); got != Stable {
		t.Errorf("Expected stable for one day of data, got %s", got)
	}
	if got := Classify(nil); got != Stable {
		t.Errorf("Expected stable for empty series, got %s", got)
	}
}

func TestClassifyQuietPrecedingWindow(t *testing.T) {
	s := series(0, 0, 3, 4)
	if got := Classify(s); got != Rising {
		t.Errorf("Expected rising when preceding window is silent, got %s", got)
	}
	flat := series(0, 0, 0, 0)
	if got := Classify(flat); got != Stable {
		t.Errorf("Expected stable for an all-zero series, got %s", got)
	}
}

func TestPeak(t *testing.T) {
	s := series(1, 7, 3)
	peak := Peak(s)
	if peak.Count != 7 {
		t.Errorf("Expected peak count 7, got %d", peak.Count)
	}
	if !peak.Day.Equal(day(1)) {
		t.Errorf("Expected peak on day 1, got %v", peak.Day)
	}
	empty := Peak(nil)
	if empty.Count != 0 {
		t.Errorf("Expected zero peak for empty series, got %d", empty.Count)
	}
}
