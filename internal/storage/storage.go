// Package storage abstracts object storage for progress photos.
package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long a presigned URL stays valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations the API needs. Clients
// upload and download photos directly against presigned URLs, the server
// never proxies the bytes.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL accepting a PUT of
	// the object. The client must send the same Content-Type it was
	// presigned with.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL accepting a GET
	// of the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, objectKey string) error
}
