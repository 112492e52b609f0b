// Package fetchers keeps the IRI-2020 reference data files present and fresh.
package fetchers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"google.golang.org/api/option"

	"iri2020/internal/logger"
	"iri2020/internal/metrics"
	"iri2020/internal/storage"
)

const (
	// APF107File holds the daily F10.7 and Ap indices
	APF107File = "apf107.dat"
	// IGRZFile holds the IG12 and Rz12 indices
	IGRZFile = "ig_rz.dat"

	DefaultReferenceURL = "https://chain-new.chain-project.net/echaim_downloads/"
	DefaultTimeout      = 15 * time.Second
	DefaultMaxAge       = 24 * time.Hour

	// MinFileSize is the smallest plausible reference file
	MinFileSize = 1000
)

var (
	// ErrDataUnavailable reports reference files still missing after a fetch attempt
	ErrDataUnavailable = errors.New("required reference data files are missing")
	// ErrConnection reports a failed download
	ErrConnection = errors.New("reference data download failed")
)

// ReferenceFiles are the files the native model reads from its data directory
var ReferenceFiles = []string{APF107File, IGRZFile}

// Options configures a DataFetcher
type Options struct {
	BaseURL string        // http(s)://, ftp://, gs:// or file:// directory
	MaxAge  time.Duration // files older than this are refreshed
	Timeout time.Duration // per download
	Files   []string      // defaults to ReferenceFiles

	// GCSOptions are passed to the Cloud Storage client for gs:// sources
	GCSOptions []option.ClientOption
}

// FileStatus describes one reference file in the data store
type FileStatus struct {
	Name    string        `json:"name"`
	Present bool          `json:"present"`
	Size    int64         `json:"size"`
	Updated time.Time     `json:"updated,omitempty"`
	Age     time.Duration `json:"age"`
	Fresh   bool          `json:"fresh"`
}

// DataFetcher refreshes reference files into a storage client
type DataFetcher struct {
	client *resty.Client
	store  storage.StorageClient
	opts   Options
	log    *logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	attempted map[string]bool
}

// NewDataFetcher creates a fetcher writing into store
func NewDataFetcher(store storage.StorageClient, opts Options) *DataFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultReferenceURL
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if len(opts.Files) == 0 {
		opts.Files = ReferenceFiles
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", "iri2020-reference-fetcher")

	return &DataFetcher{
		client:    client,
		store:     store,
		opts:      opts,
		log:       logger.GetGlobalLogger().WithComponent("fetchers"),
		now:       time.Now,
		attempted: make(map[string]bool),
	}
}

// CheckFiles downloads every reference file that is missing or older than
// MaxAge. Each file is downloaded at most once per fetcher. Download failures
// are logged; ErrDataUnavailable is returned only when a file is still
// missing afterwards.
func (f *DataFetcher) CheckFiles(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.opts.Files {
		st, err := f.status(ctx, name)
		if err != nil {
			return err
		}
		if st.Present {
			metrics.ReferenceFileAge.WithLabelValues(name).Set(st.Age.Seconds())
		}
		if st.Present && st.Age <= f.opts.MaxAge {
			continue
		}
		if st.Present {
			f.log.Warn("Reference file is stale, updating", map[string]interface{}{
				"file": name,
				"age":  st.Age.String(),
			})
		}
		if f.attempted[name] {
			continue
		}
		f.attempted[name] = true

		if err := f.refresh(ctx, name); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Error("Reference file download failed", err, map[string]interface{}{"file": name})
			continue
		}
		f.log.Info("Downloaded reference file", map[string]interface{}{"file": name})
	}

	var missing []string
	for _, name := range f.opts.Files {
		st, err := f.status(ctx, name)
		if err != nil {
			return err
		}
		if !st.Present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrDataUnavailable, strings.Join(missing, ", "))
	}
	return nil
}

// Refresh downloads one file unconditionally and stores it.
func (f *DataFetcher) Refresh(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempted[name] = true
	return f.refresh(ctx, name)
}

func (f *DataFetcher) refresh(ctx context.Context, name string) error {
	url := f.FileURL(name)
	data, err := f.Download(ctx, url)
	if err != nil {
		metrics.ReferenceDownloads.WithLabelValues(name, "error").Inc()
		return err
	}
	if err := f.store.StoreFile(ctx, name, data); err != nil {
		metrics.ReferenceDownloads.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	metrics.ReferenceDownloads.WithLabelValues(name, "ok").Inc()
	metrics.ReferenceFileAge.WithLabelValues(name).Set(0)
	return nil
}

// Status reports every reference file without downloading anything.
func (f *DataFetcher) Status(ctx context.Context) ([]FileStatus, error) {
	out := make([]FileStatus, 0, len(f.opts.Files))
	for _, name := range f.opts.Files {
		st, err := f.status(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (f *DataFetcher) status(ctx context.Context, name string) (FileStatus, error) {
	info, err := f.store.Stat(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		return FileStatus{Name: name}, nil
	}
	if err != nil {
		return FileStatus{}, fmt.Errorf("failed to check %s: %w", name, err)
	}
	age := f.now().Sub(info.Updated)
	return FileStatus{
		Name:    name,
		Present: true,
		Size:    info.Size,
		Updated: info.Updated,
		Age:     age,
		Fresh:   ExistOK(info, f.opts.MaxAge, f.now()),
	}, nil
}

// FileURL joins the base URL and a file name
func (f *DataFetcher) FileURL(name string) string {
	return strings.TrimSuffix(f.opts.BaseURL, "/") + "/" + name
}

// ExistOK reports whether a stored file looks complete and, when maxAge is
// positive, is no older than maxAge.
func ExistOK(info storage.FileInfo, maxAge time.Duration, now time.Time) bool {
	if info.Size <= MinFileSize {
		return false
	}
	if maxAge > 0 && now.Sub(info.Updated) > maxAge {
		return false
	}
	return true
}
