// Package storage stores uploaded files and builds the public URLs returned to clients.
package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	infraconfig "github.com/taxprep/backend/internal/infrastructure/config"
)

// ErrInvalidKey is returned for empty keys or keys that escape the store root
var ErrInvalidKey = errors.New("invalid storage key")

// cleanKey normalizes a slash separated object key and rejects traversal
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// New builds the store selected by cfg.Driver
func New(cfg *infraconfig.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case "local":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
