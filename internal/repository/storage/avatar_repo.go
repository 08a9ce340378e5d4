package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// AvatarRepository defines the interface for avatar storage operations
type AvatarRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// AvatarObjectPath creates a unique object path for a user's avatar
func AvatarObjectPath(userID uuid.UUID, ext string) string {
	return path.Join("avatars", userID.String(), fmt.Sprintf("%s%s", uuid.New().String(), ext))
}
