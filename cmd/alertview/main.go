// Package main is the entry point for the AlertView report service.
// It initializes all components and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"alertview-go/internal/accumulator"
	"alertview-go/internal/api"
	"alertview-go/internal/banner"
	"alertview-go/internal/columns"
	"alertview-go/internal/config"
	"alertview-go/internal/export"
	"alertview-go/internal/store/memory"
	"alertview-go/internal/upstream"
	"alertview-go/internal/view"
)

func main() {
	// Parse command line flags
	banner.Print()

	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration before the logger so the logger honors config
	bootstrap := initLogger(&config.LoggerConfig{Level: "info", Format: "text"})
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}

	logger := initLogger(&cfg.Logger)
	logger.Info("configuration loaded",
		"path", *configPath,
		"upstream", cfg.Upstream.BaseURL,
	)

	// Wire dependencies: upstream client feeds the accumulator; the view
	// state, column model and export engine sit behind the HTTP surface.
	client := upstream.NewClient(&cfg.Upstream, logger)
	snapshots := memory.NewSnapshotStore()
	acc := accumulator.NewService(client, snapshots, cfg.Report.FetchPageSize, logger)
	viewState := view.NewState(cfg.Report.ViewPageSize)
	colModel := columns.NewModel()
	engine := export.NewEngine(cfg.Report.PrintRowLimit, logger)

	server := api.NewServer(api.ServerDeps{
		Config:         &cfg.Server,
		Logger:         logger,
		ReportHandler:  api.NewReportHandler(acc, viewState, colModel, logger),
		ColumnsHandler: api.NewColumnsHandler(colModel, logger),
		ExportHandler:  api.NewExportHandler(acc, viewState, colModel, engine, logger),
	})

	// Create context that listens for shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	logger.Info("AlertView started", "address", cfg.Server.Address())

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Abandon any in-flight accumulation, then stop the server
	acc.Cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("AlertView stopped")
}

// initLogger creates and configures the application logger.
func initLogger(cfg *config.LoggerConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
