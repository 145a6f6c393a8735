// Package storage writes uploaded media to an object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"brokerage/internal/config"

	"github.com/spf13/afero"
)

// Object describes an object to write.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStore persists objects and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) (string, error)
	Ping(ctx context.Context) error
}

// New builds the ObjectStore selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(afero.NewOsFs(), cfg.StorageDir, cfg.StoragePublicURL)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.StoragePublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func publicURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}
