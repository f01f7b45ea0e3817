package objectstore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Store abstracts bucket/key blob storage. The import pipeline reads source
// files and writes error reports through this interface only.
type Store interface {
	// Get returns the full contents of an object.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Put writes an object, overwriting any existing content under the key.
	Put(ctx context.Context, bucket, key, contentType string, data []byte) error
}
