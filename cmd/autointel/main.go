package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"auto-intel/pipeline/internal/config"
	"auto-intel/pipeline/internal/crawl"
	"auto-intel/pipeline/internal/database"
	"auto-intel/pipeline/internal/export"
	"auto-intel/pipeline/internal/extract"
	"auto-intel/pipeline/internal/pipeline"
	"auto-intel/pipeline/internal/server"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func main() {
	cfg := config.DefaultConfig()

	crawlCmd := flag.NewFlagSet("crawl", flag.ExitOnError)
	crawlCmd.StringVar(&cfg.Spider, "spider", config.GetEnvString("AUTOINTEL_SPIDER", config.DefaultSpider),
		"Spider to run: news, reviews or all (env: AUTOINTEL_SPIDER)")

	var intervalMinutes int
	crawlCmd.IntVar(&intervalMinutes, "interval", config.GetEnvInt("AUTOINTEL_INTERVAL", config.DefaultInterval),
		"Interval in minutes between crawl runs, 0 for one-shot mode (env: AUTOINTEL_INTERVAL)")

	var crawlLogLevelStr string
	crawlCmd.StringVar(&crawlLogLevelStr, "log-level", config.GetEnvString("AUTOINTEL_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: AUTOINTEL_LOG_LEVEL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("AUTOINTEL_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: AUTOINTEL_HOST)")

	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("AUTOINTEL_PORT", config.DefaultServerPort),
		"Port to listen on (env: AUTOINTEL_PORT)")

	var serverLogLevelStr string
	serverCmd.StringVar(&serverLogLevelStr, "log-level", config.GetEnvString("AUTOINTEL_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: AUTOINTEL_LOG_LEVEL)")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportCmd.StringVar(&cfg.ExportDir, "dir", config.GetEnvString("AUTOINTEL_EXPORT_DIR", config.DefaultExportDir),
		"Directory to write CSV snapshots into (env: AUTOINTEL_EXPORT_DIR)")

	var exportLogLevelStr string
	exportCmd.StringVar(&exportLogLevelStr, "log-level", config.GetEnvString("AUTOINTEL_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: AUTOINTEL_LOG_LEVEL)")

	if len(os.Args) < 2 {
		fmt.Println("Usage: autointel [command] [options]")
		fmt.Println("Commands: crawl, server, export")
		fmt.Println("\nFor command-specific options, use: autointel [command] -h")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "crawl":
		crawlCmd.Parse(os.Args[2:])

		// Handle log level parsing separately since it needs conversion
		if level, err := zerolog.ParseLevel(crawlLogLevelStr); err == nil {
			cfg.LogLevel = level
		}

		// Convert interval minutes to duration
		cfg.Interval = time.Duration(intervalMinutes) * time.Minute

		zerolog.SetGlobalLevel(cfg.LogLevel)

		err := runCrawl(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Crawl failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])

		// Handle log level parsing separately
		if level, err := zerolog.ParseLevel(serverLogLevelStr); err == nil {
			cfg.LogLevel = level
		}

		zerolog.SetGlobalLevel(cfg.LogLevel)

		err := runServer(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "export":
		exportCmd.Parse(os.Args[2:])

		// Handle log level parsing separately
		if level, err := zerolog.ParseLevel(exportLogLevelStr); err == nil {
			cfg.LogLevel = level
		}

		zerolog.SetGlobalLevel(cfg.LogLevel)

		err := runExport(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Export failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		fmt.Println("Usage: autointel [command] [options]")
		fmt.Println("Commands: crawl, server, export")
		fmt.Println("\nFor command-specific options, use: autointel [command] -h")
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println("Available commands: crawl, server, export")
		fmt.Println("\nFor command-specific options, use: autointel [command] -h")
		os.Exit(1)
	}
}

// runCrawl executes the configured spiders either once or periodically.
func runCrawl(cfg *config.Config) error {
	switch cfg.Spider {
	case "news", "reviews", "all":
	default:
		return fmt.Errorf("unknown spider %q: use news, reviews or all", cfg.Spider)
	}

	if cfg.Interval <= 0 {
		log.Info().Msg("Running in one-shot mode")
	} else {
		log.Info().Int64("interval_minutes", int64(cfg.Interval.Minutes())).Msg("Running in periodic mode")
	}

	dbCfg := database.NewConfig(cfg)
	db, err := database.NewDB(dbCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel() // Cancel the context to stop crawling
	}()

	if err := runCrawlCycle(ctx, db, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Crawl cycle canceled by shutdown signal")
			return nil
		}
		return err
	}

	if cfg.Interval == 0 {
		log.Info().Msg("One-shot crawl completed, exiting")
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", cfg.Interval).
		Time("next_run", time.Now().Add(cfg.Interval)).
		Msg("Waiting for next crawl cycle")

	for {
		select {
		case <-ticker.C:
			log.Info().Msg("Starting scheduled crawl cycle")

			if err := runCrawlCycle(ctx, db, cfg); err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info().Msg("Crawl cycle canceled by shutdown signal")
					return nil
				}
				log.Error().Err(err).Msg("Crawl cycle failed")
				// Continue to the next cycle rather than exiting
			}

			log.Info().
				Time("next_run", time.Now().Add(cfg.Interval)).
				Msg("Waiting for next crawl cycle")

		case <-ctx.Done():
			log.Info().Msg("Shutting down periodic crawling")
			return nil
		}
	}
}

// runCrawlCycle executes a single crawl over the configured spiders.
func runCrawlCycle(ctx context.Context, db *database.DB, cfg *config.Config) error {
	pipe, err := pipeline.New(db)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	crawlCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	registry := extract.NewRegistry()

	log.Info().Str("spider", cfg.Spider).Msg("Starting crawl cycle")
	startTime := time.Now()

	var crawlErr error
	if cfg.Spider == "news" || cfg.Spider == "all" {
		crawler := crawl.NewNewsCrawler(cfg.UserAgent, registry, pipe)
		if err := crawler.Run(crawlCtx); err != nil {
			crawlErr = errors.Join(crawlErr, fmt.Errorf("news crawl: %w", err))
		}
	}
	if cfg.Spider == "reviews" || cfg.Spider == "all" {
		crawler := crawl.NewReviewCrawler(cfg.UserAgent, registry, pipe)
		if err := crawler.Run(crawlCtx); err != nil {
			crawlErr = errors.Join(crawlErr, fmt.Errorf("review crawl: %w", err))
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Crawl cycle finished")

	if crawlErr != nil {
		if ctxErr := crawlCtx.Err(); ctxErr != nil {
			return ctx.Err() // Propagate cancellation
		}
		return fmt.Errorf("crawl error: %w", crawlErr)
	}

	persisted, duplicates, rejected := pipe.Stats()
	log.Info().
		Int64("persisted", persisted).
		Int64("duplicates", duplicates).
		Int64("rejected", rejected).
		Msg("Crawl stats")

	return nil
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	log.Debug().Msg("Starting server with debug logging enabled")

	dbCfg := database.NewConfig(cfg)
	db, err := database.NewDB(dbCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return server.RunServer(db, cfg.ListenAddr(), log.Logger, cfg.APIKey, cfg.AnalysisTTL)
}

// runExport writes timestamped CSV snapshots of both record tables.
func runExport(cfg *config.Config) error {
	dbCfg := database.NewConfig(cfg)
	db, err := database.NewDB(dbCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return export.ExportAll(ctx, db, cfg.ExportDir)
}
