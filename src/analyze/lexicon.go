package analyze

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadWeightedLexicon reads a "term weight" file, one entry per line.
// Lines starting with # are comments, blank lines are skipped. Terms are
// lowercased for case-insensitive matching.
func loadWeightedLexicon(filename string) (map[string]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file %s: %v", filename, err)
	}
	defer file.Close()

	lexicon := make(map[string]float64)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed lexicon line %d in %s: %q", lineNum, filename, line)
		}
		weight, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight on line %d in %s: %v", lineNum, filename, err)
		}
		lexicon[strings.ToLower(fields[0])] = weight
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lexicon file %s at line %d: %v", filename, lineNum, err)
	}
	return lexicon, nil
}

// loadLabeledLexicon reads a "term label" file, one entry per line, with the
// same comment and blank-line rules as loadWeightedLexicon.
func loadLabeledLexicon(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file %s: %v", filename, err)
	}
	defer file.Close()

	lexicon := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed lexicon line %d in %s: %q", lineNum, filename, line)
		}
		lexicon[strings.ToLower(fields[0])] = strings.ToLower(fields[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lexicon file %s at line %d: %v", filename, lineNum, err)
	}
	return lexicon, nil
}
