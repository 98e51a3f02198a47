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
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/tradeflow/internal/config"
	"github.com/Simplici0/tradeflow/internal/db"
	"github.com/Simplici0/tradeflow/internal/exrate"
	"github.com/Simplici0/tradeflow/internal/logging"
	"github.com/Simplici0/tradeflow/internal/migrations"
	"github.com/Simplici0/tradeflow/internal/seed"
	"github.com/Simplici0/tradeflow/internal/session"
	"github.com/Simplici0/tradeflow/internal/tariff"
	"github.com/Simplici0/tradeflow/internal/view"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = 15 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDev(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenContext(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	stats, err := seed.Run(ctx, database)
	if err != nil {
		logger.Fatal("failed to seed reference data", zap.Error(err))
	}
	logger.Info("reference data seeded", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	catalog, err := tariff.NewStore(database).Load(ctx)
	if err != nil {
		logger.Fatal("failed to load tariff catalog", zap.Error(err))
	}

	client := exrate.NewClient(cfg.RateURL, cfg.RateTimeout, logger.Named("exrate"))
	poller := exrate.NewPoller(client, cfg.RateRefresh, cfg.FallbackRate, logger.Named("exrate"))
	history := exrate.NewHistory(database, cfg.RateURL)

	controllerLogger := logger.Named("calc")
	registry := session.NewRegistry(func() *view.Controller {
		return view.NewController(view.NewStandardForm(), catalog, view.Options{
			FallbackRate:         cfg.FallbackRate,
			IncludeNationalTaxes: cfg.TotalIncludesNationalTaxes,
			Logger:               controllerLogger,
		})
	}, logger.Named("session"))

	srv, err := newServer(serverDeps{
		logger:   logger,
		sessions: session.NewStore(cfg.SessionSecret, !cfg.IsDev(), logger.Named("session")),
		registry: registry,
		catalog:  catalog,
		rates:    poller,
		history:  history,
	})
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(gctx)
	})

	g.Go(func() error {
		for u := range poller.Updates() {
			if u.Status != exrate.StatusSuccess {
				continue
			}
			registry.ApplyRate(u.Rate)
			if err := history.Record(gctx, exrate.Quote{Rate: u.Rate, At: u.At}); err != nil {
				logger.Warn("failed to record exchange rate", zap.Error(err))
			}
		}
		return nil
	})

	g.Go(func() error {
		return registry.RunJanitor(gctx, janitorInterval, session.DefaultIdleTimeout)
	})

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
