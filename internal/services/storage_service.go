package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fergdesign/backend/pkg/validation"
	"github.com/google/uuid"
)

// Uploaded objects never change: keys are unique per upload.
const objectCacheControl = "public, max-age=31536000, immutable"

// ObjectStore is the bucket the media lives in.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// BuildObjectKey creates a namespaced storage key:
// <prefix>/<unix-millis>-<uuid>-<safe-filename>.
func BuildObjectKey(prefix, originalName string) string {
	return fmt.Sprintf("%s/%d-%s-%s",
		strings.Trim(prefix, "/"),
		time.Now().UnixMilli(),
		uuid.New().String(),
		validation.SafeFilename(originalName))
}

func photoKeyPrefix(workID uuid.UUID) string {
	return "photos/" + workID.String()
}

func videoPreviewPrefix(videoID uuid.UUID) string {
	return "videos/" + videoID.String() + "/preview"
}

func videoFilePrefix(videoID uuid.UUID) string {
	return "videos/" + videoID.String() + "/file"
}

// PublicURLBuilder turns object keys into stable public URLs.
type PublicURLBuilder struct {
	base string
}

func NewPublicURLBuilder(baseURL string) PublicURLBuilder {
	return PublicURLBuilder{base: strings.TrimRight(baseURL, "/")}
}

// URL escapes each path segment of key and joins it onto the base.
func (b PublicURLBuilder) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return b.base + "/" + strings.Join(parts, "/")
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
