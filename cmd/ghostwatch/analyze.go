package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ghostwatch/internal/admission"
	"github.com/jonathan/ghostwatch/internal/cache"
	"github.com/jonathan/ghostwatch/internal/config"
	"github.com/jonathan/ghostwatch/internal/db"
	"github.com/jonathan/ghostwatch/internal/nlp"
	"github.com/jonathan/ghostwatch/internal/observability"
	"github.com/jonathan/ghostwatch/internal/pipeline"
	"github.com/jonathan/ghostwatch/internal/snapshot"
	"github.com/jonathan/ghostwatch/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url> [url...]",
	Short: "Analyze one or more job posting URLs for ghost-job risk",
	Long: `Analyzes each URL through admission control, the posting cache, and the
weighted scoring aggregator, then prints a verdict with a per-signal
breakdown.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values; environment variables (optionally
from a .env file) fill anything still unset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeConfigPath  string
	analyzeUserID      string
	analyzeDatabaseURL string
	analyzeRedisURL    string
	analyzeAdapterURL  string
	analyzeAPIKey      string
	analyzeModel       string
	analyzeFreshHours  int
	analyzeThreshold   int
	analyzeConcurrency int
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeUserID, "user-id", "u", "", "Requesting user identifier (required)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	analyzeCmd.Flags().StringVar(&analyzeRedisURL, "redis-url", "", "Redis URL for admission locks (optional; defaults to REDIS_URL env var, falls back to Postgres locks)")
	analyzeCmd.Flags().StringVar(&analyzeAdapterURL, "adapter-url", "", "Scraper/adapter service URL (defaults to ADAPTER_URL env var)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var; NLP signals are skipped without it)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model override")
	analyzeCmd.Flags().IntVar(&analyzeFreshHours, "fresh-hours", 0, "Hours a cached posting stays fresh (default 24)")
	analyzeCmd.Flags().IntVar(&analyzeThreshold, "simhash-threshold", 0, "Hamming distance above which a change is significant (default 10)")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 1, "URLs analyzed in parallel (per-user admission still serializes one user)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := buildAnalyzeConfig(cmd)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var lockStore admission.LockStore = database
	if cfg.RedisURL != "" {
		rdb, err := admission.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		lockStore = admission.NewRedisLockStore(rdb, cfg.InitialTokens)
		if cfg.Verbose {
			log.Printf("[cli] using redis admission locks")
		}
	}

	var analyzer nlp.Analyzer
	if cfg.APIKey != "" {
		model := cfg.Model
		if model == "" {
			model = nlp.DefaultModel
		}
		gemini, err := nlp.NewGeminiAnalyzer(ctx, cfg.APIKey, model)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		defer gemini.Close()
		analyzer = gemini
	} else {
		log.Printf("[cli] no Gemini API key; skill and buzzword signals will be skipped")
	}

	engine := snapshot.NewEngine(database).WithThreshold(cfg.SimhashThreshold)
	layer := cache.NewLayer(
		database,
		source.NewHTTPFetcher(cfg.AdapterURL),
		engine,
		time.Duration(cfg.FreshWithinHours)*time.Hour,
	)
	p := pipeline.New(
		admission.NewController(lockStore),
		layer,
		engine,
		analyzer,
		cfg.SimhashThreshold,
	)

	printer := observability.NewPrinter(os.Stdout)

	reports := make([]*pipeline.Report, len(args))
	errs := make([]error, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)
	for i, url := range args {
		i, url := i, url
		g.Go(func() error {
			reports[i], errs[i] = p.Analyze(gctx, pipeline.Request{UserID: cfg.UserID, URL: url})
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for i, url := range args {
		if len(args) > 1 {
			fmt.Fprintf(os.Stdout, "\n%s\n", url)
		}
		if errs[i] != nil {
			failures++
			log.Printf("[cli] analysis failed for %s: %v", url, errs[i])
			fmt.Fprintln(os.Stdout, pipeline.UserMessage(errs[i]))
			continue
		}
		printer.PrintReport(reports[i])
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d analyses failed", failures, len(args))
	}
	return nil
}

// buildAnalyzeConfig merges the config file, explicit flags, and the
// environment, in that priority order, then validates the result.
func buildAnalyzeConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if analyzeConfigPath != "" {
		loaded, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if analyzeVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// Only override when the flag was explicitly set
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = analyzeUserID
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("redis-url") {
		cfg.RedisURL = analyzeRedisURL
	}
	if cmd.Flags().Changed("adapter-url") {
		cfg.AdapterURL = analyzeAdapterURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = analyzeModel
	}
	if cmd.Flags().Changed("fresh-hours") {
		cfg.FreshWithinHours = analyzeFreshHours
	}
	if cmd.Flags().Changed("simhash-threshold") {
		cfg.SimhashThreshold = analyzeThreshold
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	cfg.FromEnv()
	cfg.ApplyDefaults()

	if cfg.UserID == "" {
		return nil, fmt.Errorf("--user-id is required (via flag or config)")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	if cfg.AdapterURL == "" {
		return nil, fmt.Errorf("ADAPTER_URL environment variable or --adapter-url flag is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
