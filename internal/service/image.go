package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/msomdec/campus-market/internal/domain"
)

// MaxImageSize bounds a single uploaded photo.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageService stores listing photos and hands out the references that
// listings carry in their Images field.
type ImageService struct {
	files domain.FileStore
}

// NewImageService creates a new ImageService.
func NewImageService(files domain.FileStore) *ImageService {
	return &ImageService{files: files}
}

// Upload sniffs and stores a photo for a signed-in user and returns its
// reference.
func (s *ImageService) Upload(ctx context.Context, actor *domain.Session, data []byte) (string, error) {
	if actor == nil {
		return "", domain.ErrNotSignedIn
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: photo is empty", domain.ErrInvalidInput)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: photo exceeds %d MiB", domain.ErrInvalidInput, MaxImageSize>>20)
	}
	if ct := http.DetectContentType(data); !allowedImageTypes[ct] {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF and WebP photos are accepted", domain.ErrInvalidInput)
	}

	key := uuid.NewString()
	if err := s.files.Save(ctx, key, data); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	slog.Debug("photo stored", "key", key, "size", len(data), "by", actor.Email)
	return domain.ImageRef(key), nil
}

// Get returns the photo bytes and their detected content type.
func (s *ImageService) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.files.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}
