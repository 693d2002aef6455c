package csvfile

import (
	"net/url"
	"path"
	"strings"

	"github.com/artie-labs/bulkload/lib/importerr"
)

const (
	DefaultDelimiter = ","
	DefaultEnclosure = `"`
	DefaultLineBreak = "\n"
)

// File describes a delimited file, either a local path or an `s3://` / `gs://` URL.
type File struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	Enclosure string `yaml:"enclosure"`
	// NoEnclosure keeps quotes as literal data instead of defaulting the enclosure to a double quote.
	NoEnclosure bool   `yaml:"noEnclosure"`
	EscapeChar  string `yaml:"escapeChar"`
	LineBreak   string `yaml:"lineBreak"`
	Gzip        bool   `yaml:"gzip"`
	// Columns optionally lists the fields of a row in file order, it takes precedence over the header row.
	Columns []string `yaml:"columns"`
}

// New returns a comma separated file enclosed by double quotes.
func New(path string) File {
	return File{Path: path, Delimiter: DefaultDelimiter, Enclosure: DefaultEnclosure, LineBreak: DefaultLineBreak}
}

// WithDefaults fills in the delimiter and line break when they are not set. Files without an escape character are
// enclosed by double quotes unless [File.NoEnclosure] is set.
func (f File) WithDefaults() File {
	if f.Delimiter == "" {
		f.Delimiter = DefaultDelimiter
	}
	if f.Enclosure == "" && f.EscapeChar == "" && !f.NoEnclosure {
		f.Enclosure = DefaultEnclosure
	}
	if f.LineBreak == "" {
		f.LineBreak = DefaultLineBreak
	}
	return f
}

func (f File) Validate() error {
	if f.Path == "" {
		return importerr.New(importerr.InvalidCsvParams, "file path is empty")
	}

	if f.NoEnclosure && f.Enclosure != "" {
		return importerr.New(importerr.InvalidCsvParams, "enclosure cannot be set for %q when noEnclosure is", f.Basename())
	}

	if f.Enclosure != "" && f.EscapeChar != "" {
		return importerr.New(importerr.InvalidCsvParams, "enclosure and escape character cannot both be set for %q", f.Basename())
	}

	if len([]rune(f.Delimiter)) != 1 {
		return importerr.New(importerr.InvalidCsvParams, "delimiter must be a single character, got %q", f.Delimiter)
	}

	if len([]rune(f.Enclosure)) > 1 {
		return importerr.New(importerr.InvalidCsvParams, "enclosure must be a single character, got %q", f.Enclosure)
	}

	if len([]rune(f.EscapeChar)) > 1 {
		return importerr.New(importerr.InvalidCsvParams, "escape character must be a single character, got %q", f.EscapeChar)
	}

	return nil
}

func (f File) Scheme() string {
	if u, err := url.Parse(f.Path); err == nil {
		return strings.ToLower(u.Scheme)
	}
	return ""
}

func (f File) IsRemote() bool {
	switch f.Scheme() {
	case "s3", "gs":
		return true
	default:
		return false
	}
}

func (f File) IsGzip() bool {
	return f.Gzip || strings.HasSuffix(strings.ToLower(f.Basename()), ".gz")
}

// Basename is the last path element, warnings and metrics are keyed by it.
func (f File) Basename() string {
	if f.IsRemote() {
		if u, err := url.Parse(f.Path); err == nil {
			return path.Base(u.Path)
		}
	}
	return path.Base(strings.ReplaceAll(f.Path, `\`, "/"))
}
