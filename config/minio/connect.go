package minio

import (
	"context"
	"fmt"

	"jobs-srv/config"
	pkgMinio "jobs-srv/pkg/minio"
)

// Connect creates the object storage client and verifies it responds.
func Connect(ctx context.Context, cfg config.MinIOConfig) (pkgMinio.ObjectStorage, error) {
	storage, err := pkgMinio.NewObjectStorage(pkgMinio.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	if err := storage.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("minio not reachable: %w", err)
	}

	return storage, nil
}
