package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linkspread/src/analyze"
	"linkspread/src/posts"
)

func newTestAnnotator(t *testing.T) *analyze.Annotator {
	t.Helper()
	sentiment, err := analyze.NewSentimentScorer(
		"../analyze/testdata/vader_lexicon.txt",
		"../analyze/testdata/emoji_lexicon.txt")
	if err != nil {
		t.Fatalf("Failed to load sentiment lexicon: %v", err)
	}
	toxicity, err := analyze.NewToxicityScorer("../analyze/testdata/toxicity_lexicon.txt")
	if err != nil {
		t.Fatalf("Failed to load toxicity lexicon: %v", err)
	}
	emotion, err := analyze.NewEmotionClassifier("../analyze/testdata/emotion_lexicon.txt")
	if err != nil {
		t.Fatalf("Failed to load emotion lexicon: %v", err)
	}
	return analyze.NewAnnotator(sentiment, toxicity, emotion, nil)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	table := posts.NewTable(100)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	titles := []string{
		"Great news from the election results",
		"Horrible coverage of the debate",
		"Love this analysis of the economy",
		"Bad take on foreign policy",
		"Terrible reporting again",
	}
	for i, title := range titles {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		table.Append(&posts.Post{
			ID:        fmt.Sprintf("p%d", i),
			CreatedAt: ts,
			Unix:      ts.Unix(),
			Subreddit: "news",
			Domain:    "cnn.com",
			Title:     title,
		})
	}
	ts2 := base.Add(30 * 24 * time.Hour)
	table.Append(&posts.Post{
		ID:        "q0",
		CreatedAt: ts2,
		Unix:      ts2.Unix(),
		Subreddit: "sports",
		Domain:    "espn.com",
		Title:     "Good game last night",
	})

	srv := New(table, newTestAnnotator(t), 2, t.TempDir())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestIndexServesForm(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "name=\"domain\"") {
		t.Errorf("Expected the domain input form on the index page")
	}
	if strings.Contains(body, "Total Posts") {
		t.Errorf("Expected no metrics before a query is made")
	}
}

func TestIndexRejectsUnknownPaths(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", resp.StatusCode)
	}
}

func TestDashboardWithData(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/dashboard?domain=cnn.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "The domain cnn.com appears 5 times") {
		t.Errorf("Expected narrative for 5 matching posts, got:\n%s", body)
	}
	if !strings.Contains(body, "r/news") {
		t.Errorf("Expected top subreddit in the narrative")
	}
	if !strings.Contains(body, "/charts/activity.png?domain=cnn.com") {
		t.Errorf("Expected activity chart link on the dashboard")
	}
	if !strings.Contains(body, "/export.pdf?domain=cnn.com") {
		t.Errorf("Expected PDF export link on the dashboard")
	}
}

func TestDashboardCaseInsensitiveDomain(t *testing.T) {
	ts := newTestServer(t)
	_, body := get(t, ts.URL+"/dashboard?domain=CNN.com")
	if !strings.Contains(body, "appears 5 times") {
		t.Errorf("Expected the match to ignore case")
	}
}

func TestDashboardNoData(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/dashboard?domain=nowhere.example")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "No posts found linking to nowhere.example.") {
		t.Errorf("Expected the no-data message, got:\n%s", body)
	}
}

func TestActivityChart(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/charts/activity.png?domain=cnn.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("Expected image/png, got %s", got)
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Errorf("Expected PNG magic bytes in the response")
	}
}

func TestChartRequiresDomain(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts.URL+"/charts/activity.png")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without a domain, got %d", resp.StatusCode)
	}
}

func TestCompareChart(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/charts/compare.png?domain=cnn.com&compare=espn.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Errorf("Expected PNG magic bytes in the response")
	}

	resp, _ = get(t, ts.URL+"/charts/compare.png?domain=cnn.com")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without a compare domain, got %d", resp.StatusCode)
	}
}

func TestExportPDF(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/export.pdf?domain=cnn.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", got)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "linkspread-cnn.com.pdf") {
		t.Errorf("Expected attachment filename, got %s", resp.Header.Get("Content-Disposition"))
	}
	if !strings.HasPrefix(body, "%PDF-") {
		t.Errorf("Expected PDF header in the response body")
	}
}

func TestExportPDFUnknownDomain(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts.URL+"/export.pdf?domain=nowhere.example")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for a domain with no posts, got %d", resp.StatusCode)
	}
}
