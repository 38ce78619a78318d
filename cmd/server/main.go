package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/wagsales/internal"
	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/checkout"
	"github.com/dukerupert/wagsales/internal/cookie"
	"github.com/dukerupert/wagsales/internal/events"
	"github.com/dukerupert/wagsales/internal/handler/storefront"
	"github.com/dukerupert/wagsales/internal/middleware"
	"github.com/dukerupert/wagsales/internal/postal"
	"github.com/dukerupert/wagsales/internal/postgres"
	"github.com/dukerupert/wagsales/internal/router"
	"github.com/dukerupert/wagsales/internal/session"
	"github.com/dukerupert/wagsales/internal/shipping"
	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/dukerupert/wagsales/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// ==========================================================================
	// Database (only when the catalog or the snapshot store lives in Postgres)
	// ==========================================================================

	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		logger.Info("Connecting to database...")
		pool, err = postgres.Connect(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.MigratePool(pool); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")
	}

	// ==========================================================================
	// Collaborators
	// ==========================================================================

	store, err := newStore(cfg, pool)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	persister := storage.NewPersister(store, cfg.Storage.Timeout, logger)
	if cfg.Storage.KeyPrefix != "" {
		persister = persister.WithPrefix(cfg.Storage.KeyPrefix)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	var source catalog.Source = catalog.NewStaticSource(nil)
	if cfg.Catalog.Source == "postgres" {
		source = postgres.NewCatalogSource(pool)
	}
	products, err := catalog.LoadProducts(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded", "source", cfg.Catalog.Source, "products", len(products))

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()
	logger.Info("Event publisher initialized", "driver", cfg.Events.Driver, "subject", cfg.Events.Subject)

	storeMetrics := telemetry.NewStoreMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
	httpMetrics := middleware.NewMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)

	// ==========================================================================
	// Services
	// ==========================================================================

	sessions := session.NewManager(session.Config{
		Products:    products,
		Coupons:     cart.NewStaticRegistry(nil),
		Shipping:    shipping.DefaultPolicy(),
		Persister:   persister,
		Cookies:     cookie.NewConfig("", cfg.CookieSecure),
		IdleTimeout: cfg.Session.IdleTimeout,
		Logger:      logger,
	})
	go sessions.RunSweeper(ctx, cfg.Session.SweepInterval)

	checkoutService := checkout.NewService(checkout.Config{
		Postal:    postal.NewViaCEP(cfg.Postal.BaseURL, cfg.Postal.Timeout),
		Publisher: publisher,
		Metrics:   storeMetrics,
		Logger:    logger,
	})

	// ==========================================================================
	// Router
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)
	r.Mount("/metrics", promhttp.Handler())
	storefront.New(sessions, checkoutService, storeMetrics, logger).Register(r)

	// CORS wraps the whole mux so preflight requests reach it for every path.
	var h http.Handler = r
	if len(cfg.CORSOrigins) > 0 {
		h = router.CORS(cfg.CORSOrigins)(r)
	}

	// ==========================================================================
	// Serve
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// newStore builds the snapshot store. The postgres provider shares the pool.
func newStore(cfg *internal.Config, pool *pgxpool.Pool) (storage.Store, error) {
	if cfg.Storage.Provider == "postgres" {
		return postgres.NewSnapshotStore(pool), nil
	}
	return storage.NewStore(cfg.Storage)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
