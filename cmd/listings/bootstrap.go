package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/config"
	dbMongo "github.com/betahouse/listings/internal/db/mongo"
	logpkg "github.com/betahouse/listings/internal/logger"
	propertyrepo "github.com/betahouse/listings/internal/repository/property"
	userrepo "github.com/betahouse/listings/internal/repository/user"
	"github.com/betahouse/listings/internal/transport/objectstore"
)

// app holds what every subcommand needs: config, logger and a ready Mongo store.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	mongo  *dbMongo.Store
}

func bootstrap(ctx context.Context) (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Name,
		ConnectTimeout: time.Duration(cfg.Database.ConnectTimeoutSec) * time.Second,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create mongo store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		_ = store.Close(context.Background())
		_ = logger.Sync()
		return nil, fmt.Errorf("mongo not ready: %w", err)
	}
	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database.Name))

	return &app{env: env, cfg: cfg, logger: logger, mongo: store}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.mongo.Close(ctx); err != nil {
		a.logger.Error("Error disconnecting MongoDB", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// ensureIndexes creates the listing and user indexes. Identical existing indexes are a no-op.
func (a *app) ensureIndexes(ctx context.Context) error {
	props := a.mongo.Collection(a.cfg.Database.PropertiesCollection)
	names, err := propertyrepo.EnsureIndexes(ctx, props.Indexes())
	if err != nil {
		return fmt.Errorf("property indexes: %w", err)
	}
	a.logger.Info("Property indexes ready", zap.Strings("indexes", names))

	users := a.mongo.Collection(a.cfg.Database.UsersCollection)
	names, err = userrepo.EnsureIndexes(ctx, users.Indexes())
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	a.logger.Info("User indexes ready", zap.Strings("indexes", names))
	return nil
}

// imageStore returns nil when object storage is not configured.
func (a *app) imageStore() (*objectstore.Uploader, error) {
	s := a.cfg.Storage
	if s.Endpoint == "" {
		return nil, nil
	}
	u, err := objectstore.New(&objectstore.Config{
		Endpoint:  s.Endpoint,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Region:    s.Region,
		UseSSL:    s.UseSSL,
		Bucket:    s.Bucket,
		Prefix:    s.Prefix,
		PublicURL: s.PublicURL,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}
	return u, nil
}
