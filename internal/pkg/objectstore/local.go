package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brightclass/roster/internal/pkg/logger"
)

// LocalStore stores objects on the local filesystem, one directory per bucket.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new LocalStore rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStore{basePath: basePath}, nil
}

// Get returns the contents of an object.
func (s *LocalStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}

	return data, nil
}

// Put writes an object, creating intermediate directories as needed.
// The content type is ignored by the filesystem backend.
func (s *LocalStore) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to create object directory")
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write object")
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, key, err)
	}

	logger.Info().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("Object stored")
	return nil
}

// objectPath resolves and validates the on-disk path for a bucket/key pair.
// Keys may contain slashes; traversal outside the bucket is rejected.
func (s *LocalStore) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}

	cleaned := filepath.Clean(filepath.Join(bucket, key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}

	return filepath.Join(s.basePath, cleaned), nil
}
