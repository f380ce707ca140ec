package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/backend"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/currency"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("storage_driver", cfg.Storage.Driver).
		Str("catalog_url", cfg.Backend.CatalogURL).
		Str("rate_url", cfg.Backend.RateURL).
		Msg("starting storefront server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}
	defer closeStore()

	httpClient := backend.NewClient(cfg.Backend.Timeout, logger)
	catalogClient := catalog.NewClient(
		httpClient,
		cfg.Backend.CatalogURL,
		cfg.Backend.Origin,
		cfg.Backend.PlaceholderImage,
		logger,
	)
	rateClient := currency.NewRateClient(httpClient, cfg.Backend.RateURL, logger)

	storefront := service.NewStorefrontService(
		catalogClient,
		rateClient,
		store,
		service.Options{
			PageSize:    cfg.Storefront.PageSize,
			CheckoutURL: cfg.Storefront.CheckoutURL,
		},
		logger,
	)

	// Initial fetches are bounded by the fetch timeout; failures leave the
	// view in its error state and a later reload can recover.
	startCtx, startCancel := context.WithTimeout(ctx, 2*cfg.Backend.Timeout)
	storefront.Start(startCtx)
	startCancel()

	storefrontHandler := handler.NewStorefrontHandler(storefront, logger)
	mux := router.New(storefrontHandler, cfg.Server.AllowedOrigins, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.Backend.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStore builds the configured state store. With fallback enabled the
// local file mirrors every write and serves reads when the primary fails.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Store, func(), error) {
	closeFn := func() {}

	var primary storage.Store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		primary = storage.NewMemoryStore()

	case config.StorageFile:
		return storage.NewFileStore(cfg.Storage.File, logger), closeFn, nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			if !cfg.Storage.Fallback {
				return nil, nil, err
			}
			logger.Warn().Err(err).Msg("postgres unavailable, using local state file only")
			break
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		primary = storage.NewPostgresStore(pool, logger)
		closeFn = pool.Close

	case config.StorageS3:
		s3Store, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			if !cfg.Storage.Fallback {
				return nil, nil, err
			}
			logger.Warn().Err(err).Msg("S3 unavailable, using local state file only")
			break
		}
		primary = s3Store

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if !cfg.Storage.Fallback {
		return primary, closeFn, nil
	}

	local := storage.NewFileStore(cfg.Storage.File, logger)
	return storage.NewFallbackStore(primary, local, logger), closeFn, nil
}
