package importer

import (
	"slices"
	"time"
)

const (
	phaseLoad   = "load"
	phaseDedupe = "dedupe"
	phaseUpdate = "update"
	phaseDelete = "delete"
	phaseInsert = "insert"
)

type Timer struct {
	Name     string
	Duration time.Duration
}

// FileWarnings holds the raw warning rows a backend reported while loading one file.
type FileWarnings struct {
	File string
	Rows []map[string]any
}

type Result struct {
	Warnings []FileWarnings
	// Timers has one entry per phase that ran, in order.
	Timers []Timer
	// ImportedRowsCount is the number of rows loaded into staging, not the number of rows merged.
	ImportedRowsCount int64
	ImportedColumns   []string
}

// resultBuilder accumulates the outcome of a single import, it is never shared between imports.
type resultBuilder struct {
	result  Result
	onTimer func(Timer)
}

func newResultBuilder(importedColumns []string, onTimer func(Timer)) *resultBuilder {
	return &resultBuilder{
		result:  Result{ImportedColumns: slices.Clone(importedColumns)},
		onTimer: onTimer,
	}
}

func (b *resultBuilder) addTimer(name string, duration time.Duration) {
	timer := Timer{Name: name, Duration: duration}
	b.result.Timers = append(b.result.Timers, timer)
	if b.onTimer != nil {
		b.onTimer(timer)
	}
}

// time runs fn and records its duration under name, failed phases are not recorded.
func (b *resultBuilder) time(name string, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}

	b.addTimer(name, time.Since(start))
	return nil
}

func (b *resultBuilder) addRows(rows int64) {
	b.result.ImportedRowsCount += rows
}

func (b *resultBuilder) addWarnings(file string, rows []map[string]any) {
	b.result.Warnings = append(b.result.Warnings, FileWarnings{File: file, Rows: rows})
}

func (b *resultBuilder) build() Result {
	return b.result
}
