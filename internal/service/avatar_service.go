package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	// webp is decode-only; jpeg/png come in through imaging
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/repository/storage"
)

const (
	MaxAvatarSize   = 5 * 1024 * 1024 // 5MB
	MinAvatarSide   = 50
	AvatarSide      = 256
	AvatarQuality   = 85
	AvatarURLExpiry = 24 * time.Hour
)

var (
	ErrImageTooLarge              = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat              = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall              = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData           = errors.New("invalid image data")
	ErrAvatarStorageNotConfigured = errors.New("avatar storage not configured")
)

// allowedAvatarExtensions maps extensions to content types
var allowedAvatarExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarService handles avatar image processing and storage
type AvatarService struct {
	storage storage.AvatarRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage storage.AvatarRepository) *AvatarService {
	return &AvatarService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured).
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxAvatarSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinAvatarSide || bounds.Dy() < MinAvatarSide {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// ProcessAndUpload validates the image, crops it to a square avatar and
// uploads it. Returns the stored object path.
func (s *AvatarService) ProcessAndUpload(ctx context.Context, userID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	// Center-crop to a square and downscale to the avatar size
	processed := imaging.Fill(img, AvatarSide, AvatarSide, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: AvatarQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	objectPath := storage.AvatarObjectPath(userID, ".jpg")
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return objectPath, nil
}

// Delete removes a stored avatar object. Missing objects are not an error.
func (s *AvatarService) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrAvatarStorageNotConfigured
	}
	return s.storage.Delete(ctx, objectPath)
}

// ResolveURL generates a temporary signed URL for a stored avatar object.
func (s *AvatarService) ResolveURL(ctx context.Context, objectPath string) (string, error) {
	if objectPath == "" {
		return "", nil
	}
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, AvatarURLExpiry)
}
