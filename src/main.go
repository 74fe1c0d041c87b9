package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"log/slog"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"linkspread/src/analyze"
	"linkspread/src/ingest"
	"linkspread/src/posts"
	"linkspread/src/server"
)

// Config struct for the YAML config file.
type Config struct {
	Dataset           string `yaml:"dataset"`
	ListenAddr        string `yaml:"listen_addr"`
	LogDir            string `yaml:"log_dir"`
	VaderLexicon      string `yaml:"vader_lexicon"`
	VaderEmojiLexicon string `yaml:"vader_emoji_lexicon"`
	ToxicityLexicon   string `yaml:"toxicity_lexicon"`
	EmotionLexicon    string `yaml:"emotion_lexicon"`
	CacheDB           string `yaml:"cache_db"`
	ClusterK          int    `yaml:"cluster_k"`
	ExpectedPosts     int    `yaml:"expected_posts"`
	PDFDir            string `yaml:"pdf_dir"`
	ReloadCron        string `yaml:"reload_cron"`
	MQEnabled         bool   `yaml:"mq_enabled"`
	MQHost            string `yaml:"mq_host"`
	MQPort            int    `yaml:"mq_port"`
	MQUser            string `yaml:"mq_user"`
	MQPass            string `yaml:"mq_pass"`
	MQQueue           string `yaml:"mq_queue"`
	Verbose           bool   `yaml:"verbose"`
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Require log_dir to be present and non-empty
	if cfg.LogDir == "" {
		fmt.Fprintln(os.Stderr, "ERROR: 'log_dir' must be defined in the config file and cannot be empty.")
		os.Exit(1)
	}

	logger, logFile, err := setupLogger(cfg.LogDir, cfg.Verbose)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	slog.Info("Starting link spread dashboard", "dataset", cfg.Dataset, "listen", cfg.ListenAddr)

	table := posts.NewTable(uint(cfg.ExpectedPosts))
	if _, err := posts.LoadCSV(cfg.Dataset, table); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	annotator, cache, err := buildAnnotator(cfg)
	if err != nil {
		log.Fatalf("Failed to set up annotators: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Optional live ingest from the feeder queue.
	if cfg.MQEnabled {
		mq, err := ingest.NewMQ(ingest.MQConfig{
			Host:     cfg.MQHost,
			Port:     cfg.MQPort,
			Username: cfg.MQUser,
			Password: cfg.MQPass,
			Queue:    cfg.MQQueue,
		})
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()
		go func() {
			if err := mq.Consume(ctx, table); err != nil {
				slog.Error("Ingest consumer stopped", "error", err)
			}
		}()
	}

	// Optional scheduled dataset reload picks up rewritten CSV dumps.
	if cfg.ReloadCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.ReloadCron, func() {
			fresh := posts.NewTable(uint(cfg.ExpectedPosts))
			if _, err := posts.LoadCSV(cfg.Dataset, fresh); err != nil {
				slog.Error("Scheduled reload failed", "error", err)
				return
			}
			table.Replace(fresh)
			slog.Info("Dataset reloaded", "rows", table.Len())
		})
		if err != nil {
			log.Fatalf("Invalid reload_cron %q: %v", cfg.ReloadCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	startStatsLogger(ctx, table, annotator)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(table, annotator, cfg.ClusterK, cfg.PDFDir).Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Dashboard listening", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server failed: %v", err)
	}
	slog.Info("Dashboard stopped")
}

// loadConfig loads the YAML config file into a Config struct and applies
// defaults for everything except log_dir, which main checks explicitly.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "data/processed.csv"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ClusterK <= 0 {
		cfg.ClusterK = 3
	}
	if cfg.ExpectedPosts <= 0 {
		cfg.ExpectedPosts = 100000
	}
	if cfg.MQQueue == "" {
		cfg.MQQueue = "post_in"
	}
	if cfg.MQHost == "" {
		cfg.MQHost = "localhost"
	}
	if cfg.MQPort == 0 {
		cfg.MQPort = 5672
	}
	if cfg.MQUser == "" {
		cfg.MQUser = "guest"
	}
	if cfg.MQPass == "" {
		cfg.MQPass = "guest"
	}
	return &cfg, nil
}

// buildAnnotator loads the lexicons and wires the scorers together with the
// optional persistent cache.
func buildAnnotator(cfg *Config) (*analyze.Annotator, *analyze.Cache, error) {
	sentiment, err := analyze.NewSentimentScorer(cfg.VaderLexicon, cfg.VaderEmojiLexicon)
	if err != nil {
		return nil, nil, err
	}
	toxicity, err := analyze.NewToxicityScorer(cfg.ToxicityLexicon)
	if err != nil {
		return nil, nil, err
	}
	emotion, err := analyze.NewEmotionClassifier(cfg.EmotionLexicon)
	if err != nil {
		return nil, nil, err
	}

	var cache *analyze.Cache
	if cfg.CacheDB != "" {
		cache, err = analyze.OpenCache(cfg.CacheDB)
		if err != nil {
			// Degrade to in-memory memoization only.
			slog.Warn("Annotation cache unavailable, running without persistence", "error", err)
			cache = nil
		}
	}

	return analyze.NewAnnotator(sentiment, toxicity, emotion, cache), cache, nil
}

// setupLogger creates the log directory if needed and returns a slog.Logger
// that writes to a file.
func setupLogger(logDir string, verbose bool) (*slog.Logger, *os.File, error) {
	if logDir == "" {
		return nil, nil, fmt.Errorf("logDir must be set in config; refusing to use a default")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, err
	}
	logPath := filepath.Join(logDir, "linkspread.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	return logger, logFile, nil
}

// startStatsLogger logs table and memo sizes every 30 seconds until the
// context is cancelled.
func startStatsLogger(ctx context.Context, table *posts.Table, annotator *analyze.Annotator) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				slog.Info("Dashboard stats",
					"posts", table.Len(),
					"memoized_titles", annotator.MemoSize())
			}
		}
	}()
}
