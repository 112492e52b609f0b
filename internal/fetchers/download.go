package fetchers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jlaffaye/ftp"

	"iri2020/internal/storage"
)

const (
	ftpUser     = "anonymous"
	ftpPassword = "guest"
)

// Download fetches raw bytes from an http(s), ftp, gs or file URL. All
// failures wrap ErrConnection.
func (f *DataFetcher) Download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL %q: %v", ErrConnection, rawURL, err)
	}

	var data []byte
	switch u.Scheme {
	case "http", "https":
		data, err = f.httpDownload(ctx, rawURL)
	case "ftp":
		data, err = f.ftpDownload(ctx, u)
	case "gs":
		data, err = f.gcsDownload(ctx, rawURL)
	case "file":
		data, err = os.ReadFile(filepath.FromSlash(u.Path))
	default:
		return nil, fmt.Errorf("%w: not sure how to download %s", ErrConnection, rawURL)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, rawURL, err)
	}
	return data, nil
}

func (f *DataFetcher) httpDownload(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func (f *DataFetcher) ftpDownload(ctx context.Context, u *url.URL) ([]byte, error) {
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithContext(ctx), ftp.DialWithTimeout(f.opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}
	defer conn.Quit()

	user, pass := ftpUser, ftpPassword
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return nil, fmt.Errorf("failed to log in to %s: %w", host, err)
	}

	if dir := path.Dir(u.Path); dir != "/" && dir != "." {
		if err := conn.ChangeDir(dir); err != nil {
			return nil, fmt.Errorf("failed to change directory to %s: %w", dir, err)
		}
	}

	resp, err := conn.Retr(path.Base(u.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s: %w", u.Path, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u.Path, err)
	}
	return data, nil
}

func (f *DataFetcher) gcsDownload(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, object, err := storage.ParseGSURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	client, err := storage.NewGCSClient(ctx, bucket, "", f.opts.GCSOptions...)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.GetFile(ctx, object)
}
