package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"
)

// NewStorageClient opens the store named by location: gs://bucket/prefix
// for Cloud Storage, file:///dir or a plain path for the local disk.
func NewStorageClient(ctx context.Context, location string, opts ...option.ClientOption) (StorageClient, error) {
	switch {
	case strings.HasPrefix(location, "gs://"):
		bucket, prefix, err := ParseGSURL(location)
		if err != nil {
			return nil, err
		}
		gcsClient, err := NewGCSClient(ctx, bucket, prefix, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %q: %w", location, err)
		}
		return newLocal(u.Path)

	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("unsupported storage location: %s", location)

	default:
		return newLocal(location)
	}
}

func newLocal(dir string) (StorageClient, error) {
	localClient, err := NewLocalStorageClient(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
	}
	return localClient, nil
}
