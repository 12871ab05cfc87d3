package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/credential"
	dbRedis "github.com/betahouse/listings/internal/db/redis"
	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/metrics"
	"github.com/betahouse/listings/internal/ratelimit"
	propertyrepo "github.com/betahouse/listings/internal/repository/property"
	rlstore "github.com/betahouse/listings/internal/repository/ratelimit"
	userrepo "github.com/betahouse/listings/internal/repository/user"
	chiTransport "github.com/betahouse/listings/internal/transport/chi"
	authuc "github.com/betahouse/listings/internal/usecase/auth"
	healthuc "github.com/betahouse/listings/internal/usecase/health"
	propertyuc "github.com/betahouse/listings/internal/usecase/property"
	searchuc "github.com/betahouse/listings/internal/usecase/search"
	useruc "github.com/betahouse/listings/internal/usecase/user"
	"github.com/betahouse/listings/internal/version"
)

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg
	logger := a.logger
	logger.Info("Starting listings API server",
		zap.String("commit", version.Commit),
		zap.String("built", version.Date),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("ratelimit_driver", cfg.RateLimit.Driver),
	)

	// Text search fails without its index, so create indexes before serving.
	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Pass nil interfaces (not typed nil pointers) for optional dependencies.
	var images domain.ImageStore
	uploader, err := a.imageStore()
	if err != nil {
		return err
	}
	if uploader != nil {
		images = uploader
		logger.Info("Image uploads enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("Object storage not configured, image uploads disabled")
	}

	var (
		cache   healthuc.Pinger
		limiter ratelimit.Limiter
	)
	if cfg.UsesRedis() {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.RateLimit.Addrs,
			Password: cfg.RateLimit.Password,
		})
		if err != nil {
			return fmt.Errorf("create redis store: %w", err)
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to Redis", zap.Strings("addrs", cfg.RateLimit.Addrs))

		cache = redisStore
		limiter = ratelimit.NewShared(rlstore.New(redisStore, cfg.RateLimit.KeyPrefix), cfg.RateLimit.RequestsPerMinute)
	} else if cfg.RateLimit.IsEnabled() {
		limiter = ratelimit.NewLocal(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	tokens, err := credential.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}
	passwords := credential.NewPasswords(cfg.Auth.BcryptCost)

	// Repositories
	propRepo := propertyrepo.New(a.mongo.Collection(cfg.Database.PropertiesCollection))
	userRepo := userrepo.New(a.mongo.Collection(cfg.Database.UsersCollection))

	// Use case services
	listing := cfg.ListingDefaults()
	propSvc := propertyuc.New(propRepo, images, listing)
	searchSvc := searchuc.New(propRepo, listing).WithObserver(metrics.SearchObserver{})
	authSvc := authuc.New(userRepo, passwords, tokens)
	userSvc := useruc.New(userRepo)
	healthSvc := healthuc.New(a.mongo, cache)

	server := chiTransport.NewServer(propSvc, searchSvc, authSvc, userSvc, healthSvc, logger).
		WithErrorDetail(cfg.HTTP.ExposeErrors)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		Logger:         logger,
		Limiter:        limiter,
		LimiterDriver:  cfg.RateLimit.Driver,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
