package gcslib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

type GCSClient struct {
	client *storage.Client
}

func NewGCSClient(client *storage.Client) GCSClient {
	return GCSClient{client: client}
}

// ParseGCSURI splits `gs://bucket/object` into its bucket and object name.
func ParseGCSURI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse %q: %w", uri, err)
	}

	if u.Scheme != "gs" || u.Host == "" {
		return "", "", fmt.Errorf("expected a gs://bucket/object uri, got %q", uri)
	}

	object := strings.TrimPrefix(u.Path, "/")
	if object == "" {
		return "", "", fmt.Errorf("uri %q does not contain an object", uri)
	}

	return u.Host, object, nil
}

func (g GCSClient) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	reader, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", uri, err)
	}
	return reader, nil
}

func (g GCSClient) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return false, err
	}

	if _, err = g.client.Bucket(bucket).Object(object).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %q: %w", uri, err)
	}
	return true, nil
}
