package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/adfharrison1/go-staffdb/pkg/api"
	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/config"
	"github.com/adfharrison1/go-staffdb/pkg/logger"
	"github.com/adfharrison1/go-staffdb/pkg/metrics"
	"github.com/adfharrison1/go-staffdb/pkg/server"
	"github.com/adfharrison1/go-staffdb/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override the environment
	pflag.StringVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	pflag.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "Snapshot file path for persistence")
	pflag.StringVar(&cfg.Format, "format", cfg.Format, "Snapshot format: lines or binary")
	pflag.StringVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Registry locking policy: rw or single")
	pflag.DurationVar(&cfg.BackgroundSave, "background-save", cfg.BackgroundSave, "Background save interval (e.g., 5m, 30s). Set to 0 to disable.")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pflag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also append logs to this file")
	pflag.IntVar(&cfg.MaxPageSize, "max-page", cfg.MaxPageSize, "Largest page size accepted by GET /employees")
	showHelp := pflag.BoolP("help", "h", false, "Show help message")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nstaffdb is an in-memory employee registry with snapshot persistence.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEvery option can also be set through STAFFDB_* environment variables or a .env file.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --format binary --data-file s.stdb # Compressed snapshots\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --background-save 5m              # Auto-save every 5 minutes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSafety Note:\n")
		fmt.Fprintf(os.Stderr, "  Without --background-save, data is only saved on graceful shutdown or POST /snapshot.\n")
	}

	pflag.Parse()

	if *showHelp {
		pflag.Usage()
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)
	mainLog := logger.Component("main")

	snapshotCodec, err := codec.ForName(cfg.Format)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("invalid snapshot format")
	}
	policy, err := storage.ParsePolicy(cfg.Concurrency)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("invalid concurrency policy")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Build registry options based on configuration
	registryOptions := []storage.RegistryOption{
		storage.WithConcurrency(policy),
		storage.WithCodec(snapshotCodec),
		storage.WithLogger(log.Logger),
		storage.WithMetrics(metrics.New(promRegistry)),
	}
	if cfg.BackgroundSave > 0 {
		registryOptions = append(registryOptions, storage.WithBackgroundSave(cfg.DataFile, cfg.BackgroundSave))
	} else {
		mainLog.Warn().Msg("background save disabled - data only saved on graceful shutdown")
	}

	registry := storage.NewRegistry(registryOptions...)
	srv := server.NewServer(registry, promRegistry,
		api.WithDataFile(cfg.DataFile),
		api.WithMaxPageSize(cfg.MaxPageSize),
		api.WithLogger(log.Logger),
	)

	// Initialize registry from file
	mainLog.Info().Str("file", cfg.DataFile).Str("format", snapshotCodec.Name()).Msg("loading data")
	if err := srv.InitDB(cfg.DataFile); err != nil {
		mainLog.Fatal().Err(err).Msg("refusing to start with an unreadable snapshot")
	}

	registry.StartBackgroundWorkers()
	defer registry.StopBackgroundWorkers()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		mainLog.Info().
			Str("port", cfg.Port).
			Str("concurrency", policy.String()).
			Msgf("API endpoints available at http://localhost:%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	mainLog.Info().Msg("shutting down server")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		mainLog.Error().Err(err).Msg("server forced to shutdown")
	}

	registry.StopBackgroundWorkers()

	// Save registry after the last request has finished
	mainLog.Info().Str("file", cfg.DataFile).Msg("saving data")
	if err := srv.SaveDB(cfg.DataFile); err != nil {
		os.Exit(1)
	}

	mainLog.Info().Msg("server exited")
}
