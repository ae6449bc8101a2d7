// cmd/calorie-calc/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mcp-calorie-calc/internal/analyzer"
	"mcp-calorie-calc/internal/catalog"
	"mcp-calorie-calc/internal/config"
	"mcp-calorie-calc/internal/extract"
	logpkg "mcp-calorie-calc/internal/logger"
	"mcp-calorie-calc/internal/metrics"
	"mcp-calorie-calc/internal/nlp"
	"mcp-calorie-calc/internal/server"
	"mcp-calorie-calc/internal/storage"
)

var (
	configPath = flag.String("config", "config/local.yaml", "Path to the YAML config file")
	port       = flag.Int("port", 0, "Port for HTTP transport (overrides config)")
	host       = flag.String("host", "", "Host address (overrides config)")
	address    = flag.String("address", "", "Address (alias for host)")
	mode       = flag.String("extract-mode", "", "Extraction mode: strict or compound (overrides config)")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("mcp-calorie-calc version 1.0.0")
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	applyFlags(&cfg)

	logger, err := logpkg.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting calorie calculator",
		zap.String("env", cfg.Env),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("tagger", cfg.Tagger.Driver),
		zap.String("extract_mode", cfg.Extract.Mode),
		zap.Int("sources", len(cfg.Catalog.Sources)),
	)

	metrics.RegisterMealMetrics()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	sources := make([]storage.Source, 0, len(cfg.Catalog.Sources))
	for _, sc := range cfg.Catalog.Sources {
		src, err := storage.NewSource(storage.SourceSpec{
			Path:   sc.Path,
			Format: sc.Format,
			Table:  sc.Table,
			Origin: sc.Origin,
		})
		if err != nil {
			logger.Fatal("Invalid catalog source", zap.String("path", sc.Path), zap.Error(err))
		}
		sources = append(sources, src)
	}

	cat, err := catalog.Load(ctx, sources...)
	if err != nil {
		logger.Fatal("Failed to load nutrient catalog", zap.Error(err))
	}
	metrics.CatalogEntries.Set(float64(cat.Len()))
	logger.Info("Loaded nutrient catalog", zap.Int("entries", cat.Len()))

	extractMode, err := extract.ParseMode(cfg.Extract.Mode)
	if err != nil {
		logger.Fatal("Invalid extraction mode", zap.Error(err))
	}
	extractor := extract.New(buildTagger(cfg.Tagger), extractMode)
	svc := analyzer.NewFromConfig(extractor, cat, cfg.Suggest.Max, cfg.Suggest.Cutoff)

	srv, err := server.NewCalorieServer(&server.Config{
		Transport:       cfg.Server.Transport,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownSec) * time.Second,
		MaxSuggestions:  cfg.Suggest.Max,
		Cutoff:          cfg.Suggest.Cutoff,
	}, svc, cat, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	logger.Info("Shutting down...")
	if err := srv.Stop(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// applyFlags lets command-line flags override the config file.
func applyFlags(cfg *config.Config) {
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *address != "" {
		cfg.Server.Host = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *mode != "" {
		cfg.Extract.Mode = *mode
	}
}

func buildTagger(tc config.TaggerConfig) nlp.Tagger {
	if tc.Driver == "remote" {
		return nlp.NewRemoteTagger(nlp.RemoteConfig{
			ProxyURL: tc.ProxyURL,
			APIKey:   tc.APIKey,
			Service:  tc.Service,
			Tool:     tc.Tool,
			Timeout:  time.Duration(tc.TimeoutSec) * time.Second,
		})
	}
	return nlp.NewProseTagger()
}
