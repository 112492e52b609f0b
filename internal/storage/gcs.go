package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"iri2020/internal/logger"
)

// GCSClient stores objects in a Google Cloud Storage bucket under an
// optional prefix
type GCSClient struct {
	client *storage.Client
	bucket string
	prefix string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client. Extra options are passed to the
// underlying storage client, e.g. option.WithoutAuthentication for public
// mirrors.
func NewGCSClient(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (*GCSClient, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS bucket name is empty")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(prefix, "/"),
		log:    logger.GetGlobalLogger().WithComponent("storage.gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

func (g *GCSClient) objectName(name string) string {
	if g.prefix == "" {
		return name
	}
	return path.Join(g.prefix, name)
}

// StoreFile uploads data. GCS objects become visible only once the writer
// is closed.
func (g *GCSClient) StoreFile(ctx context.Context, name string, data []byte) error {
	objectPath := g.objectName(name)
	g.log.Info("Storing file to GCS", map[string]interface{}{
		"object": fmt.Sprintf("gs://%s/%s", g.bucket, objectPath),
		"bytes":  len(data),
	})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(name)
	writer.Metadata = map[string]string{"filename": path.Base(name)}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile downloads an object
func (g *GCSClient) GetFile(ctx context.Context, name string) ([]byte, error) {
	objectPath := g.objectName(name)
	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for gs://%s/%s: %w", g.bucket, objectPath, notExist(err))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, objectPath, err)
	}
	return data, nil
}

// Stat fetches object attributes
func (g *GCSClient) Stat(ctx context.Context, name string) (FileInfo, error) {
	objectPath := g.objectName(name)
	attrs, err := g.client.Bucket(g.bucket).Object(objectPath).Attrs(ctx)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to stat gs://%s/%s: %w", g.bucket, objectPath, notExist(err))
	}
	return FileInfo{Name: name, Size: attrs.Size, Updated: attrs.Updated}, nil
}

// ListFiles lists objects under the client prefix, sorted by name
func (g *GCSClient) ListFiles(ctx context.Context, prefix string) ([]FileInfo, error) {
	query := &storage.Query{Prefix: g.objectName(prefix)}
	if prefix == "" && g.prefix != "" {
		query.Prefix = g.prefix + "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	var files []FileInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		name := attrs.Name
		if g.prefix != "" {
			name = strings.TrimPrefix(name, g.prefix+"/")
		}
		files = append(files, FileInfo{Name: name, Size: attrs.Size, Updated: attrs.Updated})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// notExist maps the GCS missing-object error onto fs.ErrNotExist
func notExist(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}
	return err
}
