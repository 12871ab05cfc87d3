package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func runMigrate(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}

	uploader, err := a.imageStore()
	if err != nil {
		return err
	}
	if uploader == nil {
		a.logger.Info("Object storage not configured, skipping bucket")
		return nil
	}
	if err := uploader.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	a.logger.Info("Image bucket ready", zap.String("bucket", a.cfg.Storage.Bucket))
	return nil
}
