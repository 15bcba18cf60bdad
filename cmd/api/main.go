// Package main is the entry point for the umber API — the ingestion and
// aggregation core of the analytics service. It accepts browser beacons on
// /track, batches enriched events into ClickHouse, and serves day-bucketed
// aggregates on /stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/umber-analytics/umber/internal/config"
	"github.com/umber-analytics/umber/internal/geo"
	"github.com/umber-analytics/umber/internal/handler"
	"github.com/umber-analytics/umber/internal/maintenance"
	"github.com/umber-analytics/umber/internal/queue"
	"github.com/umber-analytics/umber/internal/repository/clickhouse"
	"github.com/umber-analytics/umber/internal/telemetry"
)

const serviceName = "umber-api"

func main() {
	// --ip forces the resolved client address, useful when developing
	// behind localhost where every beacon comes from 127.0.0.1.
	var overrideIP string
	flag.StringVar(&overrideIP, "ip", "", "force client IP for every request, useful in local development")
	flag.Parse()

	// --- Structured Logger ---
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// --- Configuration ---
	cfg := config.New()

	// --- OpenTelemetry ---
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), serviceName, otelEndpoint)
		if err != nil {
			logger.Error("failed to init OTel tracer", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
			logger.Info("OTel tracer initialized", zap.String("endpoint", otelEndpoint))
		}

		mp, err := telemetry.InitMeterProvider(context.Background(), serviceName, otelEndpoint)
		if err != nil {
			logger.Error("failed to init OTel meter provider", zap.Error(err))
		} else {
			defer mp.Shutdown(context.Background())
		}
	}

	// --- Vault Secret Loading (optional) ---
	if vaultAddr := os.Getenv("VAULT_ADDR"); vaultAddr != "" {
		vaultToken := os.Getenv("VAULT_TOKEN")
		secretPath := os.Getenv("VAULT_SECRET_PATH")
		if secretPath == "" {
			secretPath = "secret/data/umber/api"
		}

		vaultManager, err := config.NewSecretManager(vaultAddr, vaultToken)
		if err != nil {
			logger.Fatal("Vault connection failed", zap.Error(err))
		}
		secrets, err := vaultManager.GetKV2(secretPath)
		if err != nil {
			logger.Fatal("failed to load secrets from Vault", zap.Error(err))
		}
		cfg.ApplySecrets(secrets)
		logger.Info("credentials loaded from Vault", zap.String("path", secretPath))
	}

	// --- Columnar Store (ClickHouse) ---
	store, err := clickhouse.Open(context.Background(), clickhouse.Options{
		Host:     cfg.AnalyticsDB.Host,
		Port:     cfg.AnalyticsDB.Port,
		Database: cfg.AnalyticsDB.Name,
		Username: cfg.AnalyticsDB.User,
		Password: cfg.AnalyticsDB.Pass,
	})
	if err != nil {
		logger.Fatal("analytics database connection failed", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("events schema creation failed", zap.Error(err))
	}
	logger.Info("connected to analytics database",
		zap.String("host", cfg.AnalyticsDB.Host),
		zap.Uint16("port", cfg.AnalyticsDB.Port),
	)

	// --- Metadata Database Pool (instrumented with OTel) ---
	// Sites, users and API keys live here; they are the dashboard's
	// concern, but the handle is opened and health-checked at boot so a
	// broken deployment fails fast.
	metaURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.MetaDB.User, cfg.MetaDB.Pass, cfg.MetaDB.Host, cfg.MetaDB.Port, cfg.MetaDB.Name, cfg.MetaDB.SslMode)
	poolCfg, err := pgxpool.ParseConfig(metaURL)
	if err != nil {
		logger.Fatal("failed to parse metadata database URL", zap.Error(err))
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	metaPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("metadata database connection failed", zap.Error(err))
	}
	defer metaPool.Close()

	if err := metaPool.Ping(context.Background()); err != nil {
		logger.Fatal("metadata database unreachable", zap.Error(err))
	}
	logger.Info("connected to metadata database (OTel-instrumented)", zap.String("host", cfg.MetaDB.Host))

	// --- Redis Geo Cache (optional) ---
	var geoCache *redis.Client
	if cfg.Services.RedisAddr != "" {
		geoCache = redis.NewClient(&redis.Options{Addr: cfg.Services.RedisAddr})
		defer geoCache.Close()

		if err := geoCache.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Redis connection failed", zap.Error(err))
		}
		logger.Info("Redis geo cache connected", zap.String("addr", cfg.Services.RedisAddr))
	}

	// --- Enrichment & Batching Pipeline ---
	geoClient := geo.New(cfg.Services.GeoEndpoint, cfg.Ingest.GeoTimeout, geoCache, logger)

	q := queue.New(store, logger, queue.Config{
		BatchSize:     cfg.Ingest.BatchSize,
		FlushInterval: cfg.Ingest.FlushInterval,
		Depth:         cfg.Ingest.QueueDepth,
	})
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	q.Start(consumerCtx)
	logger.Info("batching queue started",
		zap.Int("batch_size", cfg.Ingest.BatchSize),
		zap.Duration("flush_interval", cfg.Ingest.FlushInterval),
	)

	// --- Maintenance Scheduler ---
	scheduler := maintenance.New(store, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start maintenance scheduler", zap.Error(err))
	}

	// --- HTTP Server (Echo) ---
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadHeaderTimeout = cfg.API.ReadHeaderTimeout

	e.Use(otelecho.Middleware(serviceName))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("HTTP request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	handler.NewTrackHandler(q, geoClient, overrideIP, logger).Register(e)
	handler.NewStatsHandler(store, logger).Register(e)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	addr := cfg.API.Host + ":" + cfg.API.Port
	go func() {
		logger.Info("umber API listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failure", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	// Stop accepting connections and let in-flight requests finish.
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}

	scheduler.Stop()

	// Final drain: close intake and wait for the consumer's last flush so
	// buffered events reach ClickHouse before the handle closes.
	if err := q.Close(shutdownCtx); err != nil {
		logger.Error("queue drain incomplete, buffered events lost", zap.Error(err))
	}

	// Store, pool and cache handles are closed by the deferred calls
	// registered at startup.
	logger.Info("umber API shut down cleanly")
}
