/*
Package storage persists uploaded image files and hands back a resource locator
that chat clients can fetch.

Two implementations are provided: a local-disk service writing under the static
uploads directory, and an S3-compatible service using the AWS SDK uploader. The
factory picks one based on configuration.
*/
package storage

import (
	"context"
	"strings"
)

// Service is the file-storage contract used when an image message arrives.
type Service interface {
	// Save persists the payload under a collision-resistant name derived from
	// originalFilename's extension and returns the locator to broadcast.
	Save(ctx context.Context, originalFilename string, data []byte) (string, error)
}

// ServiceConfig holds the configuration required to construct a storage service.
type ServiceConfig struct {
	Backend string

	// Local backend
	UploadDir string

	// S3 backend
	PublicBaseURL     string
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ExtToMIME maps permitted image file extensions to their MIME types. Uploads
// outside this set are stored with a generic content type.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// mimeForName resolves the content type for a stored file name.
func mimeForName(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "application/octet-stream"
	}

	if mime, ok := ExtToMIME[strings.ToLower(name[idx:])]; ok {
		return mime
	}

	return "application/octet-stream"
}

// NewService is the factory for Service implementations. The backend selector
// comes from application configuration.
func NewService(cfg ServiceConfig) (Service, error) {
	if cfg.Backend == "s3" {
		return newS3Service(cfg)
	}

	return newLocalService(cfg.UploadDir)
}
