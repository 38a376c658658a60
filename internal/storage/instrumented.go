package storage

import (
	"context"
	"io"
	"time"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/metrics"
)

type instrumentedStore struct {
	next   ObjectStore
	driver string
}

// Instrument records call counts and latency for every store operation.
func Instrument(driver string, next ObjectStore) ObjectStore {
	return &instrumentedStore{next: next, driver: driver}
}

// Unwrap exposes the underlying driver.
func Unwrap(store ObjectStore) ObjectStore {
	if inst, ok := store.(*instrumentedStore); ok {
		return inst.next
	}
	return store
}

func (s *instrumentedStore) observe(operation string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	metrics.StorageOperations.WithLabelValues(s.driver, operation, outcome).Inc()
	metrics.StorageDuration.WithLabelValues(s.driver, operation).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	start := time.Now()
	err := s.next.Upload(ctx, key, reader, size, contentType)
	s.observe("upload", start, err)
	return err
}

func (s *instrumentedStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	rc, err := s.next.Download(ctx, key)
	s.observe("download", start, err)
	return rc, err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedStore) PublicURL(key string) string {
	return s.next.PublicURL(key)
}

func (s *instrumentedStore) EnsureBucket(ctx context.Context) error {
	start := time.Now()
	err := s.next.EnsureBucket(ctx)
	s.observe("ensure_bucket", start, err)
	return err
}
