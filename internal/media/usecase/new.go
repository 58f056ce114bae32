package usecase

import (
	"context"

	"jobs-srv/internal/media"
	"jobs-srv/pkg/log"
	"jobs-srv/pkg/minio"
)

// Transformer produces the bytes of one rendition from the source asset.
type Transformer interface {
	Transform(ctx context.Context, rendition media.Rendition, src []byte, contentType string) ([]byte, error)
}

type implUseCase struct {
	l           log.Logger
	storage     minio.ObjectStorage
	transformer Transformer
}

func New(l log.Logger, storage minio.ObjectStorage, transformer Transformer) media.UseCase {
	return &implUseCase{
		l:           l,
		storage:     storage,
		transformer: transformer,
	}
}
