package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/csvfile"
	"github.com/artie-labs/bulkload/lib/typing"
)

const defaultParallelImports = 1

type Sentry struct {
	DSN string `yaml:"dsn"`
}

type Reporting struct {
	Sentry *Sentry `yaml:"sentry"`
}

type Config struct {
	Output constants.DestinationKind `yaml:"outputSource"`

	MySQL     *MySQL     `yaml:"mysql,omitempty"`
	Redshift  *Redshift  `yaml:"redshift,omitempty"`
	Snowflake *Snowflake `yaml:"snowflake,omitempty"`

	AWS *AWS `yaml:"aws,omitempty"`
	GCS *GCS `yaml:"gcs,omitempty"`

	Imports []Import `yaml:"imports"`
	// ParallelImports bounds how many imports run at once, every import holds its own connection.
	ParallelImports int `yaml:"parallelImports"`

	Reporting Reporting `yaml:"reporting"`
	Telemetry struct {
		Metrics struct {
			Provider constants.ExporterKind `yaml:"provider"`
			Settings map[string]any         `yaml:"settings,omitempty"`
		}
	}
}

type Import struct {
	Schema  string   `yaml:"schema"`
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`

	Incremental bool `yaml:"incremental"`
	// UseTimestampColumn defaults to true.
	UseTimestampColumn *bool    `yaml:"useTimestampColumn,omitempty"`
	IgnoreHeaderLines  int      `yaml:"ignoreHeaderLines"`
	ConvertEmptyToNull []string `yaml:"convertEmptyToNull"`
	ExtraLoadOptions   []string `yaml:"extraLoadOptions"`

	Source Source `yaml:"source"`
}

func (i Import) ShouldUseTimestampColumn() bool {
	return typing.DefaultValueFromPtr(i.UseTimestampColumn, true)
}

func (i Import) String() string {
	return fmt.Sprintf("%s.%s", i.Schema, i.Table)
}

// Source must set exactly one of its fields.
type Source struct {
	Files    []csvfile.File  `yaml:"files,omitempty"`
	Manifest *ManifestSource `yaml:"manifest,omitempty"`
	Table    *TableSource    `yaml:"table,omitempty"`
}

type ManifestSource struct {
	URL string `yaml:"url"`
	// Format describes every file the manifest lists, its path is ignored.
	Format csvfile.File `yaml:"format"`
}

type TableSource struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

func (s Source) Validate() error {
	var set int
	if len(s.Files) > 0 {
		set++
	}
	if s.Manifest != nil {
		set++
	}
	if s.Table != nil {
		set++
	}

	if set != 1 {
		return fmt.Errorf("exactly one of files, manifest or table must be set, got %d", set)
	}

	for _, file := range s.Files {
		if err := file.WithDefaults().Validate(); err != nil {
			return err
		}
	}

	if s.Manifest != nil {
		if s.Manifest.URL == "" {
			return fmt.Errorf("manifest url is empty")
		}

		format := s.Manifest.Format.WithDefaults()
		format.Path = s.Manifest.URL
		if err := format.Validate(); err != nil {
			return err
		}
	}

	if s.Table != nil && s.Table.Table == "" {
		return fmt.Errorf("source table is empty")
	}

	return nil
}

func readFileToConfig(pathToConfig string) (*Config, error) {
	bytes, err := os.ReadFile(pathToConfig)
	if err != nil {
		return nil, err
	}

	var config Config
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return nil, err
	}

	if config.ParallelImports == 0 {
		config.ParallelImports = defaultParallelImports
	}

	return &config, nil
}

// Validate checks the output source and every import, the columns themselves are checked against the target at import time.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if !constants.IsValidDestination(c.Output) {
		return fmt.Errorf("invalid output source: %q", c.Output)
	}

	switch c.Output {
	case constants.MySQL:
		if c.MySQL == nil {
			return fmt.Errorf("mysql config is missing")
		}
	case constants.Redshift:
		if c.Redshift == nil {
			return fmt.Errorf("redshift config is missing")
		}
	case constants.Snowflake:
		if c.Snowflake == nil {
			return fmt.Errorf("snowflake config is missing")
		}
	}

	if c.ParallelImports < 0 {
		return fmt.Errorf("parallelImports must be positive, got %d", c.ParallelImports)
	}

	if len(c.Imports) == 0 {
		return fmt.Errorf("no imports configured")
	}

	for i, _import := range c.Imports {
		if _import.Table == "" {
			return fmt.Errorf("import %d: table is empty", i)
		}

		if len(_import.Columns) == 0 {
			return fmt.Errorf("import %q: columns are empty", _import.String())
		}

		if _import.IgnoreHeaderLines < 0 {
			return fmt.Errorf("import %q: ignoreHeaderLines must not be negative", _import.String())
		}

		if err := _import.Source.Validate(); err != nil {
			return fmt.Errorf("import %q: invalid source: %w", _import.String(), err)
		}
	}

	return nil
}

// SelectImports keeps the imports whose table (or `schema.table`) is listed, no tables keeps everything.
func (c Config) SelectImports(tables []string) ([]Import, error) {
	if len(tables) == 0 {
		return c.Imports, nil
	}

	var selected []Import
	for _, table := range tables {
		idx := slices.IndexFunc(c.Imports, func(i Import) bool {
			return strings.EqualFold(i.Table, table) || strings.EqualFold(i.String(), table)
		})
		if idx < 0 {
			return nil, fmt.Errorf("no import configured for table %q", table)
		}

		selected = append(selected, c.Imports[idx])
	}

	return selected, nil
}
