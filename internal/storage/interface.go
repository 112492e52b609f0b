package storage

import (
	"context"
	"time"
)

// FileInfo describes one stored object
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Updated time.Time `json:"updated"`
}

// StorageClient is the minimal object store used for IRI reference data.
// Names are slash-separated and relative to the client's root. Missing
// objects are reported with errors matching fs.ErrNotExist.
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile writes data under name, replacing any previous content
	// without exposing a partially written object
	StoreFile(ctx context.Context, name string, data []byte) error

	// GetFile reads the object stored under name
	GetFile(ctx context.Context, name string) ([]byte, error)

	// Stat returns metadata for name
	Stat(ctx context.Context, name string) (FileInfo, error)

	// ListFiles lists objects whose names start with prefix
	ListFiles(ctx context.Context, prefix string) ([]FileInfo, error)
}
