package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"linkspread/src/analyze"
	"linkspread/src/charts"
	"linkspread/src/cluster"
	"linkspread/src/export"
	"linkspread/src/posts"
	"linkspread/src/report"
)

// Server wires the post table and the annotator into the HTTP dashboard.
// Every request recomputes its view from the live table; repeated model
// work is absorbed by the annotator's memo and cache layers.
type Server struct {
	table     *posts.Table
	annotator *analyze.Annotator
	clusterK  int
	pdfDir    string
	mux       *http.ServeMux
}

// New builds a Server and registers its routes.
func New(table *posts.Table, annotator *analyze.Annotator, clusterK int, pdfDir string) *Server {
	s := &Server{
		table:     table,
		annotator: annotator,
		clusterK:  clusterK,
		pdfDir:    pdfDir,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/charts/activity.png", s.handleActivityChart)
	s.mux.HandleFunc("/charts/emotions.png", s.handleEmotionsChart)
	s.mux.HandleFunc("/charts/subreddits.png", s.handleSubredditsChart)
	s.mux.HandleFunc("/charts/compare.png", s.handleCompareChart)
	s.mux.HandleFunc("/export.pdf", s.handleExportPDF)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// domainResult is one domain's fully annotated, clustered, aggregated view.
type domainResult struct {
	batch    []posts.Post
	clusters cluster.Result
	stats    report.Stats
}

// analyzeDomain runs the whole per-domain pipeline: filter, annotate,
// cluster, aggregate.
func (s *Server) analyzeDomain(query string) domainResult {
	batch := s.table.FilterDomain(query)
	s.annotator.Annotate(batch)

	titles := make([]string, len(batch))
	for i, p := range batch {
		titles[i] = p.Title
	}
	clusters := cluster.Run(titles, s.clusterK)
	for i := range batch {
		if i < len(clusters.Assignments) {
			batch[i].Cluster = clusters.Assignments[i]
		}
	}

	return domainResult{
		batch:    batch,
		clusters: clusters,
		stats:    report.Build(query, batch, clusters),
	}
}

type sampleRow struct {
	Title   string
	Cluster int
}

type dashboardView struct {
	Domain       string
	Compare      string
	DomainQuery  string
	CompareQuery string
	Queried      bool
	NoData       bool
	HasCompare   bool
	Stats        report.Stats
	Narrative    string
	Samples      []sampleRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderDashboard(w, "", "")
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r.URL.Query().Get("domain"), r.URL.Query().Get("compare"))
}

func (s *Server) renderDashboard(w http.ResponseWriter, domain, compare string) {
	view := dashboardView{
		Domain:       domain,
		Compare:      compare,
		DomainQuery:  url.QueryEscape(domain),
		CompareQuery: url.QueryEscape(compare),
	}

	if domain != "" {
		view.Queried = true
		result := s.analyzeDomain(domain)
		if len(result.batch) == 0 {
			view.NoData = true
		} else {
			view.Stats = result.stats
			view.Narrative = report.Narrative(result.stats)
			view.HasCompare = compare != ""
			limit := 20
			if len(result.batch) < limit {
				limit = len(result.batch)
			}
			for _, p := range result.batch[:limit] {
				view.Samples = append(view.Samples, sampleRow{Title: p.Title, Cluster: p.Cluster})
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
	}
}

// requireDomain pulls the domain query param or writes a 400.
func requireDomain(w http.ResponseWriter, r *http.Request) (string, bool) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		http.Error(w, "missing domain parameter", http.StatusBadRequest)
		return "", false
	}
	return domain, true
}

// writeChart renders into a buffer first so a failed render produces a clean
// error response instead of a truncated image.
func writeChart(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error("Chart render failed", "error", err)
		http.Error(w, "chart unavailable", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleActivityChart(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	result := s.analyzeDomain(domain)
	writeChart(w, func(buf *bytes.Buffer) error {
		return charts.Activity(buf, domain, result.stats.Daily)
	})
}

func (s *Server) handleEmotionsChart(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	result := s.analyzeDomain(domain)
	writeChart(w, func(buf *bytes.Buffer) error {
		return charts.Emotions(buf, domain, result.stats.Emotions)
	})
}

func (s *Server) handleSubredditsChart(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	result := s.analyzeDomain(domain)
	writeChart(w, func(buf *bytes.Buffer) error {
		return charts.Subreddits(buf, domain, result.stats.TopSubreddits)
	})
}

func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	compare := r.URL.Query().Get("compare")
	if compare == "" {
		http.Error(w, "missing compare parameter", http.StatusBadRequest)
		return
	}
	result1 := s.analyzeDomain(domain)
	result2 := s.analyzeDomain(compare)
	writeChart(w, func(buf *bytes.Buffer) error {
		return charts.Compare(buf, domain, result1.stats.Daily, compare, result2.stats.Daily)
	})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	compare := r.URL.Query().Get("compare")

	result := s.analyzeDomain(domain)
	if len(result.batch) == 0 {
		http.Error(w, fmt.Sprintf("no posts found for %s", domain), http.StatusNotFound)
		return
	}

	images, err := s.renderReportCharts(domain, compare, result)
	if err != nil {
		slog.Error("Failed to render report charts", "domain", domain, "error", err)
		http.Error(w, "report charts unavailable", http.StatusInternalServerError)
		return
	}

	opts := export.Options{
		Title:       "Link Spread Intelligence Report",
		Domains:     []string{domain},
		GeneratedAt: time.Now(),
	}
	if compare != "" {
		opts.Domains = append(opts.Domains, compare)
	}

	path, err := export.WriteTempPDF(s.pdfDir, opts, result.stats, report.Narrative(result.stats), images)
	if err != nil {
		slog.Error("Failed to assemble PDF", "domain", domain, "error", err)
		http.Error(w, "pdf export failed", http.StatusInternalServerError)
		return
	}
	defer os.Remove(path)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("linkspread-%s.pdf", domain)))
	http.ServeFile(w, r, path)
}

// renderReportCharts renders the chart set embedded in the PDF, one image
// per page: activity, emotions, subreddits, and the comparison when a
// second domain was given.
func (s *Server) renderReportCharts(domain, compare string, result domainResult) ([]export.ChartImage, error) {
	images := make([]export.ChartImage, 0, 4)

	var buf bytes.Buffer
	if err := charts.Activity(&buf, domain, result.stats.Daily); err != nil {
		return nil, err
	}
	images = append(images, export.ChartImage{Title: "Trend Over Time", PNG: append([]byte(nil), buf.Bytes()...)})

	buf.Reset()
	if err := charts.Emotions(&buf, domain, result.stats.Emotions); err != nil {
		return nil, err
	}
	images = append(images, export.ChartImage{Title: "Emotion Distribution", PNG: append([]byte(nil), buf.Bytes()...)})

	buf.Reset()
	if err := charts.Subreddits(&buf, domain, result.stats.TopSubreddits); err != nil {
		return nil, err
	}
	images = append(images, export.ChartImage{Title: "Top Subreddits", PNG: append([]byte(nil), buf.Bytes()...)})

	if compare != "" {
		other := s.analyzeDomain(compare)
		buf.Reset()
		if err := charts.Compare(&buf, domain, result.stats.Daily, compare, other.stats.Daily); err != nil {
			return nil, err
		}
		images = append(images, export.ChartImage{Title: "Activity Comparison", PNG: append([]byte(nil), buf.Bytes()...)})
	}

	return images, nil
}
