package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"pembukuan/internal/backend"
	"pembukuan/internal/cache"
	"pembukuan/internal/cli"
	"pembukuan/internal/config"
	apphttp "pembukuan/internal/http"
	"pembukuan/internal/log"
	"pembukuan/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	reports := services.NewReportService(res.Store, res.Store, services.ReportConfig{
		CacheSize: cfg.ReportCacheSize,
		CacheTTL:  cfg.ReportCacheTTL,
	})
	accounts := services.NewAccountService(res.Store, res.Publisher, reports, logger)
	ledgerSvc := services.NewLedgerService(res.Store, res.Store, res.Publisher, reports, logger)

	caches := cache.NewManager()
	for name, c := range reports.Caches() {
		caches.Register(name, c)
	}
	cacheCtx, stopCaches := context.WithCancel(context.Background())
	caches.StartCleanup(cacheCtx, time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Accounts:           accounts,
		Ledger:             ledgerSvc,
		Reports:            reports,
		Ready:              res.Store.Ping,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		stopCaches()
		caches.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting pembukuan server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
