//	@title			Pixboard API
//	@version		1.0
//	@description	Image gallery with S3 uploads, real-time listing updates and QR rendering.
//
//	@host		localhost:8080
//	@BasePath	/

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

	"golang.org/x/sync/errgroup"

	"github.com/pixboard/service/internal/config"
	"github.com/pixboard/service/internal/image"
	"github.com/pixboard/service/internal/logger"
	"github.com/pixboard/service/internal/metrics"
	"github.com/pixboard/service/internal/notify"
	"github.com/pixboard/service/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Fatal().Err(err).Msg("server error")
	}
	logger.Log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("object storage init failed: %w", err)
	}

	// Wire dependencies: storage → image service → hub/manager → handlers
	imageSvc := image.NewService(store, cfg.Storage.Timeout, m)
	hub := notify.NewHub(cfg.Notify.SendBuffer, m)
	manager := notify.NewManager(hub, imageSvc)

	g, ctx := errgroup.WithContext(ctx)

	var notifier image.Notifier = hub
	if cfg.Redis.Enabled {
		client, err := notify.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
		defer client.Close()

		relay := notify.NewRelay(client, cfg.Redis.Channel, hub)
		notifier = relay
		g.Go(func() error { return relay.Run(ctx) })
	}

	imageHandler := image.NewHandler(imageSvc, notifier)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, m, imageSvc, imageHandler, manager),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		logger.Log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Str("driver", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Log.Info().Msg("shutting down gracefully...")

		manager.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "aws":
		return storage.NewS3Storage(storage.S3Options{
			Endpoint:   cfg.Endpoint,
			Region:     cfg.Region,
			AccessKey:  cfg.AccessKey,
			SecretKey:  cfg.SecretKey,
			Bucket:     cfg.Bucket,
			PublicBase: cfg.PublicBase,
			UseSSL:     cfg.UseSSL,
		})
	case "minio", "":
		initCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return storage.NewMinioStorage(initCtx, storage.MinioOptions{
			Endpoint:   cfg.Endpoint,
			Region:     cfg.Region,
			AccessKey:  cfg.AccessKey,
			SecretKey:  cfg.SecretKey,
			Bucket:     cfg.Bucket,
			PublicBase: cfg.PublicBase,
			UseSSL:     cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
