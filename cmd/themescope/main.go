package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/themescope/themescope/internal/api"
	"github.com/themescope/themescope/internal/config"
	"github.com/themescope/themescope/internal/graph"
	"github.com/themescope/themescope/internal/llm"
	"github.com/themescope/themescope/internal/themes"
)

var version = "dev"

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path (default config/config.yaml)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("themescope version %s\n", version)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting themescope", zap.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	index, err := graph.NewNeo4jIndex(ctx, cfg.Graph)
	if err != nil {
		logger.Fatal("failed to initialize similarity index", zap.Error(err))
	}
	defer index.Close(context.Background())

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize LLM client", zap.Error(err))
	}

	service, err := themes.NewService(llmClient, llmClient, index,
		themes.WithSynthesisWorkers(cfg.Pipeline.SynthesisWorkers),
		themes.WithHallucinationPolicy(themes.HallucinationPolicy(cfg.Pipeline.HallucinationPolicy)),
		themes.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to initialize theme service", zap.Error(err))
	}
	defer service.Close()

	gateway := api.NewGateway(cfg.API, cfg.Pipeline.DefaultK, service, index, logger)

	errc := make(chan error, 1)
	go func() {
		if err := gateway.Start(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		logger.Error("gateway failed", zap.Error(err))
	case sig := <-sigc:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := gateway.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
