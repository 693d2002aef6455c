package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/artie-labs/bulkload/lib/jitter"
	"github.com/artie-labs/bulkload/lib/retry"
)

// Backend is an object store addressed by URL.
type Backend interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
	Exists(ctx context.Context, uri string) (bool, error)
}

// Router dispatches on the URL scheme, paths without a scheme are local files.
type Router struct {
	backends map[string]Backend
	retryCfg retry.RetryConfig
}

func NewRouter() Router {
	return Router{
		backends: map[string]Backend{},
		retryCfg: retry.NewRetryConfig(retry.NewRetryConfigArgs{
			JitterBaseMs: 250,
			JitterMaxMs:  jitter.DefaultMaxMs,
			MaxAttempts:  3,
		}),
	}
}

// WithBackend registers a backend for a scheme such as "s3" or "gs".
func (r Router) WithBackend(scheme string, backend Backend) Router {
	backends := make(map[string]Backend, len(r.backends)+1)
	for key, value := range r.backends {
		backends[key] = value
	}
	backends[scheme] = backend
	r.backends = backends
	return r
}

func (r Router) backendFor(uri string) (Backend, bool, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Scheme == "file" || len(u.Scheme) == 1 {
		// Single letter schemes are Windows drive letters.
		return nil, false, nil
	}

	backend, ok := r.backends[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, false, fmt.Errorf("no storage backend configured for %q", uri)
	}
	return backend, true, nil
}

func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func (r Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	backend, remote, err := r.backendFor(uri)
	if err != nil {
		return nil, err
	}

	if !remote {
		return os.Open(localPath(uri))
	}

	return retry.WithRetries(r.retryCfg, func(_ int, _ error) (io.ReadCloser, error) {
		return backend.Open(ctx, uri)
	})
}

func (r Router) Exists(ctx context.Context, uri string) (bool, error) {
	backend, remote, err := r.backendFor(uri)
	if err != nil {
		return false, err
	}

	if !remote {
		_, err = os.Stat(localPath(uri))
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}

	return retry.WithRetries(r.retryCfg, func(_ int, _ error) (bool, error) {
		return backend.Exists(ctx, uri)
	})
}

// Fetch reads the whole object.
func (r Router) Fetch(ctx context.Context, uri string) ([]byte, error) {
	rc, err := r.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", uri, err)
	}
	return data, nil
}

// Download copies the object into dir keeping its base name and returns the local path.
func (r Router) Download(ctx context.Context, uri, dir string) (string, error) {
	rc, err := r.Open(ctx, uri)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	name := filepath.Base(uri)
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		name = filepath.Base(u.Path)
	}

	fp := filepath.Join(dir, name)
	file, err := os.Create(fp)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", fp, err)
	}

	if _, err = io.Copy(file, rc); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to download %q: %w", uri, err)
	}

	if err = file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %q: %w", fp, err)
	}
	return fp, nil
}
