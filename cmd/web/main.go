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

	"go.uber.org/zap"

	"github.com/Ayush-gihub-12345/Web-app/internal/catalog"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/config"
	"github.com/Ayush-gihub-12345/Web-app/internal/platform/observability"
	"github.com/Ayush-gihub-12345/Web-app/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level, cfg.Server.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	metrics := observability.NewMetrics()
	cat, err := loadCatalog(cfg.Catalog.File, logger, metrics)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.String("file", cfg.Catalog.File), zap.Error(err))
	}

	srvCfg, err := server.Assemble(cfg, server.Deps{Logger: logger, Catalog: cat, Metrics: metrics})
	if err != nil {
		logger.Fatal("failed to assemble server", zap.Error(err))
	}
	srv := server.New(srvCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.Int("packages", len(cat.Packages())),
			zap.Bool("metrics", srvCfg.Metrics != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// loadCatalog reads the configured catalog file, or the embedded one when no file is set.
// Recovered defects are logged and counted; fatal defects abort startup.
func loadCatalog(path string, logger *zap.Logger, metrics *observability.Metrics) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, issues, err := catalog.Load(path)
	for _, issue := range issues {
		logger.Warn("catalog issue", zap.String("path", issue.Path), zap.String("issue", issue.Message), zap.Bool("fatal", issue.Fatal))
	}
	metrics.CatalogIssues(len(issues))
	if err != nil {
		return nil, err
	}
	return cat, nil
}
