package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".dat", ".txt", ".log":
		return "text/plain"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".toml":
		return "application/toml"
	default:
		return "application/octet-stream"
	}
}

// ParseGSURL splits gs://bucket/some/object into bucket and object path
func ParseGSURL(raw string) (bucket, object string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid GCS URL %q: %w", raw, err)
	}
	if u.Scheme != "gs" {
		return "", "", fmt.Errorf("invalid GCS URL %q: scheme must be gs", raw)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid GCS URL %q: missing bucket", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
