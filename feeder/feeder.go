package main

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linkspread/src/ingest"
	"linkspread/src/posts"
)

// The feeder publishes processed CSV dumps to the dashboard's ingest queue,
// one raw row per message. Dumps may be plain .csv or gzipped .csv.gz.

func main() {
	inputDir := flag.String("inputdir", "", "Path to input directory containing CSV dumps")
	mqHost := flag.String("mq-host", "localhost", "RabbitMQ host")
	mqPort := flag.Int("mq-port", 5672, "RabbitMQ port")
	mqUser := flag.String("mq-user", "guest", "RabbitMQ username")
	mqPass := flag.String("mq-pass", "guest", "RabbitMQ password")
	mqQueue := flag.String("mq-queue", "post_in", "Queue to publish post rows to")
	throttle := flag.Int("throttle", 0, "Milliseconds to sleep between rows (0 = no throttle)")
	flag.Parse()

	if *inputDir == "" {
		log.Fatalf("Usage: feeder -inputdir input_dir [-mq-host host] [-mq-queue queue]")
	}

	files, err := listDumps(*inputDir)
	if err != nil {
		log.Fatalf("Failed to list dumps: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No .csv or .csv.gz files found in %s", *inputDir)
	}

	mq, err := ingest.NewMQ(ingest.MQConfig{
		Host:     *mqHost,
		Port:     *mqPort,
		Username: *mqUser,
		Password: *mqPass,
		Queue:    *mqQueue,
	})
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mq.Close()

	ctx := context.Background()
	total := 0
	for _, file := range files {
		log.Printf("Publishing %s", file)
		n, err := publishFile(ctx, mq, file, time.Duration(*throttle)*time.Millisecond)
		if err != nil {
			log.Printf("Failed to publish %s: %v", file, err)
			continue
		}
		total += n
	}
	log.Printf("Done: published %d rows from %d files", total, len(files))
}

func listDumps(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.csv", "*.csv.gz"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// publishFile streams one dump to the queue. Rows that do not parse as posts
// (including the header) are skipped here so the consumer side only sees
// plausible data.
func publishFile(ctx context.Context, mq *ingest.MQ, path string, throttle time.Duration) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("failed to open gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	published := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Skipping row: %v", err)
			continue
		}
		if _, err := posts.ParseRow(record); err != nil {
			continue
		}
		if err := mq.Publish(ctx, joinCSV(record)); err != nil {
			return published, err
		}
		published++
		if throttle > 0 {
			time.Sleep(throttle)
		}
	}
	return published, nil
}

// joinCSV re-encodes a record as a single CSV line.
func joinCSV(record []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(record)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
