package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/config"
	"github.com/sagarc03/bucketctl/filesystem"
	"github.com/sagarc03/bucketctl/s3store"
)

// openStore builds the configured backend. The returned close function
// releases it and is never nil.
func openStore(ctx context.Context, cfg *config.Config) (bucketctl.ObjectStore, func() error, error) {
	switch cfg.Backend.Type {
	case config.BackendFilesystem:
		store, err := filesystem.Open(cfg.Filesystem.Root)
		if err != nil {
			return nil, nil, fmt.Errorf("open filesystem backend: %w", err)
		}
		slog.Debug("using filesystem backend", "root", cfg.Filesystem.Root)
		return store, store.Close, nil

	case config.BackendS3:
		store, err := s3store.New(ctx, s3store.Options{
			Endpoint:     cfg.S3.Endpoint,
			Region:       cfg.S3.Region,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			SessionToken: cfg.S3.SessionToken,
			Profile:      cfg.S3.AWSProfile,
			UsePathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 backend: %w", err)
		}
		return store, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend.Type)
	}
}
