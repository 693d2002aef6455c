package importer

import (
	"fmt"
	"strings"

	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

type Options struct {
	Incremental        bool
	IgnoreHeaderLines  int
	UseTimestampColumn bool
	ConvertEmptyToNull []string
	ExtraLoadOptions   []string
}

// Spec describes one import. Column names match the target case-insensitively.
type Spec struct {
	Schema  string
	Table   string
	Columns []string
	Sources []Source

	Options
}

func (s Spec) String() string {
	if s.Schema == "" {
		return s.Table
	}
	return s.Schema + "." + s.Table
}

// validate runs before anything touches the database.
func (s Spec) validate() error {
	if s.Table == "" {
		return fmt.Errorf("table is empty")
	}

	if len(s.Columns) == 0 {
		return importerr.New(importerr.NoColumns, "no columns to import into %s", s)
	}

	if duplicates := columns.Duplicates(s.Columns); len(duplicates) > 0 {
		return importerr.New(importerr.DuplicateColumnNames, "duplicate columns [%s]", strings.Join(duplicates, ", "))
	}

	if len(s.Sources) == 0 {
		return importerr.New(importerr.InvalidSourceData, "no sources to import into %s", s)
	}

	for _, source := range s.Sources {
		if err := source.validate(); err != nil {
			return err
		}
	}

	return nil
}

// SpecFromConfig turns a configured import into a [Spec] with a single source.
func SpecFromConfig(cfg config.Import) Spec {
	spec := Spec{
		Schema:  cfg.Schema,
		Table:   cfg.Table,
		Columns: cfg.Columns,
		Options: Options{
			Incremental:        cfg.Incremental,
			IgnoreHeaderLines:  cfg.IgnoreHeaderLines,
			UseTimestampColumn: cfg.ShouldUseTimestampColumn(),
			ConvertEmptyToNull: cfg.ConvertEmptyToNull,
			ExtraLoadOptions:   cfg.ExtraLoadOptions,
		},
	}

	switch {
	case len(cfg.Source.Files) == 1:
		spec.Sources = []Source{FileSource{File: cfg.Source.Files[0]}}
	case len(cfg.Source.Files) > 1:
		spec.Sources = []Source{FileSetSource{Files: cfg.Source.Files}}
	case cfg.Source.Manifest != nil:
		spec.Sources = []Source{ManifestSource{URL: cfg.Source.Manifest.URL, Format: cfg.Source.Manifest.Format}}
	case cfg.Source.Table != nil:
		spec.Sources = []Source{TableSource{Schema: cfg.Source.Table.Schema, Table: cfg.Source.Table.Table}}
	}

	return spec
}
