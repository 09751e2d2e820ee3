// Package storage publishes finished audiobooks to a configured backend,
// either a local library directory or an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
)

// Adapter is a storage backend for finished audiobooks.
type Adapter interface {
	// Put stores data at the given key.
	Put(ctx context.Context, key string, data io.Reader) error

	// Get retrieves data from the given key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether data exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes data at the given key.
	Delete(ctx context.Context, key string) error

	// List returns keys matching the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Publish uploads a local file to the adapter under key, retrying transient
// failures. The source file is reopened for every attempt so a partial read
// from a failed try never corrupts the upload.
func Publish(ctx context.Context, a Adapter, localFile, key string) error {
	err := retry.Do(
		func() error {
			f, err := os.Open(localFile)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			defer f.Close()
			return a.Put(ctx, key, f)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}
