// Package imagestore persists report photos and hands back the URL they are served from.
package imagestore

import (
	"context"
	"fmt"
)

// Store saves photo bytes under a key and returns a URL for them.
// Deleting a key that does not exist is not an error.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New creates the store selected by cfg.
func New(ctx context.Context, cfg *Config) (Store, error) {
	switch cfg.Backend {
	case BackendS3:
		return NewS3Store(ctx, cfg)
	case BackendLocal, "":
		return NewLocalStore(cfg.UploadDir, LocalURLPrefix)
	}
	return nil, fmt.Errorf("unsupported image store %q", cfg.Backend)
}
