package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxUploadSize = 5 << 20

const FilesRoute = "/api/v1/files/"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadResult struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type MediaUseCase struct {
	store BlobStore
	log   *logger.Logger
}

func NewMediaUseCase(store BlobStore, log *logger.Logger) *MediaUseCase {
	return &MediaUseCase{store: store, log: log}
}

// Upload stores an image under a fresh key. The type is taken from the
// content, never from the client.
func (uc *MediaUseCase) Upload(ctx context.Context, p domain.Principal, data []byte) (*UploadResult, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.Validation("media.Upload", "file is required")
	}
	if len(data) > MaxUploadSize {
		return nil, domain.Validation("media.Upload", "file must not exceed 5MB")
	}

	mt := mimetype.Detect(data)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	if !allowedImageTypes[contentType] {
		return nil, domain.Validation("media.Upload", "only JPG, PNG, GIF and WebP images are allowed")
	}

	filename := uuid.NewString() + mt.Extension()
	key := "uploads/" + filename
	if err := uc.store.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}
	uc.log.Info("file uploaded", "key", key, "content_type", contentType, "size", len(data))
	return &UploadResult{Key: key, Filename: filename, URL: FilesRoute + key}, nil
}

func (uc *MediaUseCase) Get(ctx context.Context, key string) ([]byte, string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return nil, "", domain.ErrObjectNotFound
	}
	data, contentType, err := uc.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrObjectNotFound
		}
		return nil, "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
