package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sljivkov/pricelog/apis"
	"github.com/sljivkov/pricelog/config"
	"github.com/sljivkov/pricelog/domain"
	"github.com/sljivkov/pricelog/handler"
	"github.com/sljivkov/pricelog/logger"
	"github.com/sljivkov/pricelog/metrics"
	"github.com/sljivkov/pricelog/pricefeed"
	"github.com/sljivkov/pricelog/storage"
)

func main() {
	// load environment variables, a missing .env file is fine
	envPath, envErr := config.LoadEnvFile(".env")

	cfg, cfgErr := config.NewConfig()

	logEnv := os.Getenv("LOG_ENV")
	if cfg != nil {
		logEnv = cfg.LogEnv
	}
	log := logger.New(logEnv)

	if err := errors.Join(envErr, cfgErr); err != nil {
		log.Errorw("failed to load config", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
	if envPath != "" {
		log.Infow("loaded env file", "path", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, cfg, log)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("price poller stopped", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("shutdown complete")
	_ = log.Sync()
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	m := metrics.New()
	recorder := storage.NewFileRecorder(cfg.PriceFile)

	poller, err := pricefeed.NewPoller(
		domain.DefaultAssets(cfg.Url),
		apis.NewHTTPPriceSource(cfg.HTTPTimeout),
		recorder,
		cfg.Interval,
		pricefeed.WithLogger(log),
		pricefeed.WithMetrics(m),
		pricefeed.WithSkipFailed(cfg.SkipFailed()),
	)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           handler.New(m.Registry, poller.Cycles),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Infow("starting metrics server", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server failed", "error", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warnw("metrics server shutdown", "error", err)
			}
		}()
	}

	log.Infow("recording prices", "file", recorder.Path(), "run_once", cfg.RunOnce)

	if cfg.RunOnce {
		return poller.RunCycle(ctx)
	}

	return poller.Run(ctx)
}
