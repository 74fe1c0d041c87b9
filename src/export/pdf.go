package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"linkspread/src/report"
)

// ChartImage is one rendered chart destined for its own PDF page.
type ChartImage struct {
	Title string
	PNG   []byte
}

// Options controls the assembled document.
type Options struct {
	Title       string
	Domains     []string // one, or two when comparing
	GeneratedAt time.Time
}

// WritePDF assembles the report document: a letter-sized text page with the
// stats list and insight narrative, then one page per chart image, in input
// order.
func WritePDF(w io.Writer, opts Options, stats report.Stats, narrative string, images []ChartImage) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(opts.Title, true)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, opts.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, domain := range opts.Domains {
		pdf.CellFormat(0, 8, fmt.Sprintf("Domain: %s", domain), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", opts.GeneratedAt.UTC().Format(time.RFC1123)),
		"", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Summary statistics", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range statLines(stats) {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Insight", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, narrative, "", "L", false)

	for i, img := range images {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, img.Title, "", 1, "C", false, 0, "")

		name := fmt.Sprintf("chart-%d", i)
		pdf.RegisterImageOptionsReader(name,
			fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))
		// 190mm wide, aspect preserved, centered on a 216mm letter page.
		pdf.ImageOptions(name, 13, 40, 190, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func statLines(s report.Stats) []string {
	lines := []string{
		fmt.Sprintf("Total posts: %d", s.TotalPosts),
		fmt.Sprintf("Average sentiment: %.3f", s.AvgSentiment),
		fmt.Sprintf("Average toxicity: %.3f", s.AvgToxicity),
		fmt.Sprintf("Dominant emotion: %s", s.DominantEmotion()),
		fmt.Sprintf("Peak activity: %d posts/day on %s", s.Peak.Count, s.Peak.Day.Format("2006-01-02")),
		fmt.Sprintf("Trend: %s", s.Trend),
		fmt.Sprintf("Thematic groups: %d", s.ClusterCount),
	}
	if sub := s.TopSubreddit(); sub != "" {
		lines = append(lines, fmt.Sprintf("Top subreddit: r/%s", sub))
	}
	return lines
}

// WriteTempPDF writes the document to a uniquely named file under dir (the
// OS temp dir when empty) and returns its path. The caller removes the file
// after streaming it.
func WriteTempPDF(dir string, opts Options, stats report.Stats, narrative string, images []ChartImage) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("linkspread-%s.pdf", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create pdf file: %w", err)
	}
	defer f.Close()

	if err := WritePDF(f, opts, stats, narrative, images); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
