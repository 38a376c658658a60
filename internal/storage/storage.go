package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob gateway used by the catalogue workflows. Keys are
// slash-separated paths such as models/<owner>/<id>.stl.
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	EnsureBucket(ctx context.Context) error
}

// New builds the driver selected by cfg.Driver, wrapped with metrics.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	var (
		store ObjectStore
		err   error
	)

	switch cfg.Driver {
	case config.StorageMinIO:
		store, err = NewMinIOClient(cfg.MinIO, cfg.PublicBaseURL)
	case config.StorageS3:
		store, err = NewS3Client(ctx, cfg.S3, cfg.PublicBaseURL)
	case config.StorageMemory:
		store = NewMemoryStore(cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(cfg.Driver, store), nil
}

func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
