package posts

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Expected column order in a processed CSV dump. Extra columns are ignored.
var CSVCols = []string{
	"id",
	"created_utc",
	"subreddit",
	"domain",
	"title",
	"score",
	"num_comments",
}

// ParseRow parses a single CSV row (already split into fields) into a Post.
// Header rows are rejected so a feeder can push whole files without
// stripping them first.
func ParseRow(record []string) (*Post, error) {
	if len(record) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(record))
	}
	if record[0] == "id" || record[1] == "created_utc" {
		return nil, fmt.Errorf("header row detected, skipping")
	}

	createdAt, err := parseTimestamp(normalizeWhitespace(record[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_utc: %v", err)
	}

	post := &Post{
		ID:        record[0],
		CreatedAt: createdAt,
		Unix:      createdAt.Unix(),
		Subreddit: strings.TrimSpace(record[2]),
		Domain:    strings.TrimSpace(record[3]),
		Title:     record[4],
		Emotion:   "",
	}

	// score and num_comments are optional trailing columns
	if len(record) > 5 {
		if n, err := strconv.Atoi(strings.TrimSpace(record[5])); err == nil {
			post.Score = n
		}
	}
	if len(record) > 6 {
		if n, err := strconv.Atoi(strings.TrimSpace(record[6])); err == nil {
			post.NumComments = n
		}
	}

	return post, nil
}

// ParseRowString parses a raw CSV line, as delivered over the ingest queue.
func ParseRowString(row string) (*Post, error) {
	reader := csv.NewReader(strings.NewReader(row))
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	return ParseRow(record)
}

// parseTimestamp accepts epoch seconds (the usual processed.csv form) or any
// date string dateparse can make sense of.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(int64(secs), 0).UTC(), nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// normalizeWhitespace collapses all whitespace runs to a single space.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LoadCSV reads a processed CSV file into the given table. Malformed rows
// are logged and skipped rather than aborting the load; the returned count
// is the number of rows appended (duplicates excluded).
func LoadCSV(path string, table *Table) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	appended := 0
	skipped := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			slog.Warn("Skipping unreadable CSV row", "line", line, "error", err)
			continue
		}
		post, err := ParseRow(record)
		if err != nil {
			// Header rows land here too; only log rows that look like data.
			if line > 1 {
				skipped++
				slog.Warn("Skipping malformed row", "line", line, "error", err)
			}
			continue
		}
		if table.Append(post) {
			appended++
		}
	}

	slog.Info("Dataset loaded", "path", path, "rows", appended, "skipped", skipped)
	return appended, nil
}
