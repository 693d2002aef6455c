package manifest

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/artie-labs/bulkload/lib/importerr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Entry struct {
	URL string `json:"url"`
	// Mandatory defaults to true when omitted.
	Mandatory *bool `json:"mandatory,omitempty"`
}

func (e Entry) IsMandatory() bool {
	return e.Mandatory == nil || *e.Mandatory
}

type Manifest struct {
	Entries []Entry `json:"entries"`
}

func Parse(data []byte) (Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, importerr.Wrap(importerr.InvalidSourceData, err, "failed to parse manifest")
	}

	for i, entry := range manifest.Entries {
		if entry.URL == "" {
			return Manifest{}, importerr.New(importerr.InvalidSourceData, "manifest entry %d has no url", i)
		}
	}
	return manifest, nil
}

type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
	Exists(ctx context.Context, uri string) (bool, error)
}

func Load(ctx context.Context, fetcher Fetcher, uri string) (Manifest, error) {
	data, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to fetch manifest %q: %w", uri, err)
	}

	return Parse(data)
}

// Resolve checks an entry right before it is loaded. Missing mandatory files fail with
// [importerr.MandatoryFileNotFound], missing optional files return false.
func Resolve(ctx context.Context, fetcher Fetcher, entry Entry) (bool, error) {
	exists, err := fetcher.Exists(ctx, entry.URL)
	if err != nil {
		return false, fmt.Errorf("failed to check %q: %w", entry.URL, err)
	}

	if exists {
		return true, nil
	}

	if entry.IsMandatory() {
		return false, importerr.New(importerr.MandatoryFileNotFound, "file %q listed in the manifest was not found", entry.URL)
	}
	return false, nil
}
