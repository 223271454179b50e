// Package main runs the promiscuity HTTP server.
//
// Usage:
//
//	DATABASE_URL=postgres://... promiscuity-server
//	DATABASE_URL=postgres://... promiscuity-server create-tenant <name>
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/api"
	"github.com/persistorai/promiscuity/internal/config"
	"github.com/persistorai/promiscuity/internal/db"
	"github.com/persistorai/promiscuity/internal/db/migrations"
	"github.com/persistorai/promiscuity/internal/dbpool"
	"github.com/persistorai/promiscuity/internal/metrics"
	"github.com/persistorai/promiscuity/internal/service"
	"github.com/persistorai/promiscuity/internal/store"
)

const (
	shutdownTimeout   = 15 * time.Second
	poolStatsPeriod   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log, os.Args[1:]); err != nil {
		log.WithError(err).Fatal("promiscuity-server exited")
	}
}

func run(log *logrus.Logger, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), dbpool.Options{
		MaxConns:         int32(cfg.DBMaxConns), //nolint:gosec // bounded by config validation.
		StatementTimeout: cfg.SearchTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}

	if len(args) > 0 {
		return runCommand(ctx, base, args)
	}

	cache := service.NewResultCache(cfg.ResultCacheSize, cfg.ResultCacheTTL)
	if err := db.NewNotifyBridge(log, pool, cache).Start(ctx); err != nil {
		return err
	}

	promiscuitySvc := service.NewPromiscuityService(store.NewGraphStore(base), cache, service.Limits{
		MaxHops:     cfg.MaxHops,
		MaxPaths:    cfg.MaxPaths,
		Timeout:     cfg.SearchTimeout,
		MaxDequeues: cfg.SearchMaxDequeues,
	}, log)

	router := api.NewRouter(&api.RouterDeps{
		Log:           log,
		Pool:          pool,
		Nodes:         service.NewNodeService(store.NewNodeStore(base), cache, log),
		Edges:         service.NewEdgeService(store.NewEdgeStore(base), cache, log),
		Promiscuity:   promiscuitySvc,
		TenantLookup:  &base,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       config.Version,
		SchemaVersion: db.SchemaVersion(),
		RateLimit:     cfg.RateLimit,
		RateBurst:     cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.SearchTimeout + 10*time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go reportPoolStats(ctx, pool)

	errCh := make(chan error, 2)
	serve := func(name string, s *http.Server) {
		log.WithFields(logrus.Fields{"server": name, "addr": s.Addr}).Info("listening")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", srv)
	go serve("metrics", metricsSrv)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
}

// runCommand handles the one-shot administrative commands.
func runCommand(ctx context.Context, base store.Base, args []string) error {
	switch args[0] {
	case "create-tenant":
		if len(args) != 2 {
			return errors.New("usage: promiscuity-server create-tenant <name>")
		}

		key, err := newAPIKey()
		if err != nil {
			return err
		}

		id, err := base.CreateTenant(ctx, args[1], key)
		if err != nil {
			return err
		}

		fmt.Printf("tenant_id: %s\napi_key:   %s\n", id, key)

		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating API key: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func reportPoolStats(ctx context.Context, pool *dbpool.Pool) {
	ticker := time.NewTicker(poolStatsPeriod)
	defer ticker.Stop()

	for {
		s := pool.Stats()
		metrics.DBConnections.WithLabelValues("acquired").Set(float64(s.AcquiredConns()))
		metrics.DBConnections.WithLabelValues("idle").Set(float64(s.IdleConns()))
		metrics.DBConnections.WithLabelValues("total").Set(float64(s.TotalConns()))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
