package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"linkspread/src/posts"
	"linkspread/src/trend"
)

// Standalone inspection utility: reads processed CSV dumps and prints the
// top domains and subreddits plus an ASCII graph of posting activity, to
// sanity-check a dataset before pointing the dashboard at it.

// Reads all CSV files in a directory (non-recursive)
func getCSVFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	// Sort for reproducibility
	sort.Strings(files)
	return files, nil
}

func main() {
	inputDir := flag.String("input", "data", "Directory containing processed CSV files")
	top := flag.Int("top", 20, "Number of top domains/subreddits to print")
	flag.Parse()

	files, err := getCSVFiles(*inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input directory: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No CSV files found in directory: %s\n", *inputDir)
		os.Exit(1)
	}

	domainCounts := make(map[string]int)
	subredditCounts := make(map[string]int)
	var all []posts.Post
	rowsRead := 0
	skipped := 0
	startTime := time.Now()

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening file %s: %v\n", file, err)
			continue
		}
		reader := csv.NewReader(bufio.NewReader(f))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading CSV: %v\n", err)
				break
			}
			post, err := posts.ParseRow(record)
			if err != nil {
				skipped++
				continue
			}
			rowsRead++
			domainCounts[post.Domain]++
			subredditCounts[post.Subreddit]++
			all = append(all, *post)
		}
		f.Close()
	}

	elapsed := time.Since(startTime).Seconds()
	fmt.Printf("Read %d posts (%d skipped) from %d files in %.1fs\n\n",
		rowsRead, skipped, len(files), elapsed)

	printTop("Top domains", domainCounts, *top)
	printTop("Top subreddits", subredditCounts, *top)

	daily := trend.DailyCounts(all)
	if len(daily) > 0 {
		xVals := make([]int, len(daily))
		yVals := make([]int, len(daily))
		for i, dc := range daily {
			xVals[i] = i
			yVals[i] = dc.Count
		}
		fmt.Printf("\nActivity: %s to %s, peak %d posts/day, trend %s\n",
			daily[0].Day.Format("2006-01-02"),
			daily[len(daily)-1].Day.Format("2006-01-02"),
			trend.Peak(daily).Count,
			trend.Classify(daily))
		printASCIIGraph(xVals, yVals, 60, 20)
	}
}

func printTop(title string, counts map[string]int, limit int) {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		if name == "" {
			continue
		}
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	fmt.Printf("%s:\n", title)
	for _, e := range entries {
		fmt.Printf("  %7d  %s\n", e.count, e.name)
	}
}

// printASCIIGraph prints a simple ASCII line graph for the data
func printASCIIGraph(xVals, yVals []int, width, height int) {
	if len(xVals) < 2 {
		fmt.Println("Not enough data for graph.")
		return
	}
	// Find min/max
	xMin, xMax := xVals[0], xVals[len(xVals)-1]
	yMin, yMax := yVals[0], yVals[0]
	for _, y := range yVals {
		if y < yMin {
			yMin = y
		}
		if y > yMax {
			yMax = y
		}
	}
	if yMax == yMin {
		yMax = yMin + 1 // avoid div by zero
	}
	// Prepare grid
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	// Map data points to grid
	for i := 0; i < len(xVals); i++ {
		col := int(float64(i) / float64(len(xVals)-1) * float64(width-1))
		row := int(float64(yVals[i]-yMin) / float64(yMax-yMin) * float64(height-1))
		row = height - 1 - row // invert Y axis
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = '*'
		}
	}
	// Prepare Y axis labels
	yLabels := make([]string, height)
	yLabels[0] = fmt.Sprintf("%d", yMax)
	yLabels[height/2] = fmt.Sprintf("%d", (yMax+yMin)/2)
	yLabels[height-1] = fmt.Sprintf("%d", yMin)
	for i := 1; i < height-1; i++ {
		if yLabels[i] == "" {
			yLabels[i] = " "
		}
	}
	// Print graph with Y axis labels
	fmt.Println("\nASCII Graph: Posts per Day")
	for i := 0; i < height; i++ {
		fmt.Printf("%8s |", yLabels[i])
		for j := 0; j < width; j++ {
			fmt.Print(string(grid[i][j]))
		}
		fmt.Println()
	}
	// X axis
	fmt.Printf("%8s +%s\n", "", strings.Repeat("-", width))
	xMid := (xMin + xMax) / 2
	label := fmt.Sprintf("%d", xMin)
	labelMid := fmt.Sprintf("%d", xMid)
	labelMax := fmt.Sprintf("%d", xMax)
	labelLine := make([]rune, width)
	for i := range labelLine {
		labelLine[i] = ' '
	}
	copy(labelLine[0:], []rune(label))
	copy(labelLine[width/2-len(labelMid)/2:], []rune(labelMid))
	copy(labelLine[width-len(labelMax):], []rune(labelMax))
	fmt.Printf("         %s\n", string(labelLine))
	fmt.Printf("Y: %d to %d (days since first post on X)\n", yMin, yMax)
}
