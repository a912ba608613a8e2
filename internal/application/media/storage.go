// Package media holds the image upload rules shared by listings, branches
// and consultants, and the object storage port they upload through.
package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorage defines the object storage operations used for images
type ObjectStorage interface {
	// Upload stores data under storageKey
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// DefaultMaxImageSize is used when no limit is configured
const DefaultMaxImageSize int64 = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// URLBuilder turns storage keys into public URLs
type URLBuilder struct {
	baseURL string
}

// NewURLBuilder creates a URLBuilder serving keys from baseURL
func NewURLBuilder(baseURL string) URLBuilder {
	return URLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the public URL of key, or "" for an empty key
func (b URLBuilder) URL(key string) string {
	if key == "" {
		return ""
	}
	if b.baseURL == "" {
		return "/" + key
	}
	return b.baseURL + "/" + key
}

// Upload is an image received from a multipart form
type Upload struct {
	FileName string
	Data     []byte
}

// Uploader validates images and stores them under tenant scoped keys
type Uploader struct {
	storage ObjectStorage
	maxSize int64
}

// NewUploader creates an Uploader; maxSize <= 0 uses DefaultMaxImageSize
func NewUploader(storage ObjectStorage, maxSize int64) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &Uploader{storage: storage, maxSize: maxSize}
}

// Store validates the upload and writes it to
// {tenant}/{folder}/{owner}/{random}{ext}, returning the key.
func (u *Uploader) Store(ctx context.Context, tenantID uuid.UUID, folder string, ownerID uuid.UUID, upload Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", shared.NewDomainError("INVALID_IMAGE", "Image file is empty")
	}
	if int64(len(upload.Data)) > u.maxSize {
		return "", shared.NewDomainError("IMAGE_TOO_LARGE", fmt.Sprintf("Image exceeds %d MB", u.maxSize>>20))
	}

	contentType := http.DetectContentType(upload.Data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", shared.NewDomainError("INVALID_IMAGE", "Only JPEG, PNG and WebP images are accepted")
	}

	key := path.Join(tenantID.String(), folder, ownerID.String(), uuid.NewString()+ext)
	if err := u.storage.Upload(ctx, key, upload.Data, contentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return key, nil
}

// Remove deletes a stored image
func (u *Uploader) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := u.storage.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
