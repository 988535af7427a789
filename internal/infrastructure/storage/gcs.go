package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const uploadCacheControl = "public, max-age=31536000, immutable"

// GCSStore keeps uploaded media in one Cloud Storage bucket.
type GCSStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

// NewGCSStore connects with default credentials, or without authentication
// against an emulator when emulatorHost is set.
func NewGCSStore(ctx context.Context, bucket, emulatorHost string, log *logger.Logger) (*GCSStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("missing GCS bucket name")
	}
	var opts []option.ClientOption
	if host := strings.TrimRight(strings.TrimSpace(emulatorHost), "/"); host != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", host)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log = log.With("service", "GCSStore")
	log.Info("object storage initialized", "bucket", bucket, "emulator_host", emulatorHost)
	return &GCSStore{log: log, client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = uploadCacheControl
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Get returns the object body and its content type. A missing object is
// domain.ErrNotFound.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("open GCS object %q: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read GCS object %q: %w", key, err)
	}
	return data, r.Attrs.ContentType, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
