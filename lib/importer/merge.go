package importer

import (
	"context"
	"fmt"

	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/sql"
	"github.com/artie-labs/bulkload/lib/typing/columns"
)

func toStatements(queries []string) []db.Statement {
	statements := make([]db.Statement, len(queries))
	for i, query := range queries {
		statements[i] = db.NewStatement(query)
	}
	return statements
}

type merger struct {
	dest      destination.Destination
	targetID  sql.TableIdentifier
	stagingID sql.TableIdentifier
	// columns are every imported column, primaryKeys is empty when the target has no usable key.
	columns            columns.Columns
	primaryKeys        columns.Columns
	convertEmptyToNull []string
	timestampColumn    string
	timestamp          string
}

func (m merger) timestampArgs() []any {
	if m.timestampColumn == "" {
		return nil
	}
	return []any{m.timestamp}
}

func (m merger) dedupe(ctx context.Context, result *resultBuilder) error {
	if len(m.primaryKeys) == 0 {
		return nil
	}

	return result.time(phaseDedupe, func() error {
		return dedupe(ctx, m.dest, m.stagingID, m.columns.Names(), m.primaryKeys.Names())
	})
}

func (m merger) insertStatement() db.Statement {
	query := sql.BuildInsertQuery(m.dest.Dialect(), sql.InsertArgs{
		TargetID:           m.targetID,
		StagingID:          m.stagingID,
		Columns:            m.columns,
		ConvertEmptyToNull: m.convertEmptyToNull,
		TimestampColumn:    m.timestampColumn,
	})
	return db.NewStatement(query, m.timestampArgs()...)
}

func (m merger) mergeArgs() sql.MergeArgs {
	return sql.MergeArgs{
		TargetID:           m.targetID,
		StagingID:          m.stagingID,
		PrimaryKeys:        m.primaryKeys,
		Columns:            m.columns.Without(m.primaryKeys.Names()...),
		ConvertEmptyToNull: m.convertEmptyToNull,
		TimestampColumn:    m.timestampColumn,
	}
}

// replace empties the target and inserts the deduped staging rows in one transaction.
func (m merger) replace(ctx context.Context, result *resultBuilder) error {
	if err := m.dedupe(ctx, result); err != nil {
		return err
	}

	results, err := m.dest.ExecContextStatements(ctx, []db.Statement{
		db.NewStatement("DELETE FROM " + m.targetID.FullyQualifiedName()),
		m.insertStatement(),
	})
	if err != nil {
		return fmt.Errorf("failed to replace table contents: %w", err)
	}

	result.addTimer(phaseDelete, results[0].Elapsed)
	result.addTimer(phaseInsert, results[1].Elapsed)
	return nil
}

// upsert updates changed rows, drops the matched ones from staging and inserts the rest, all in one transaction.
// Without a primary key every staging row is appended.
func (m merger) upsert(ctx context.Context, result *resultBuilder) error {
	if err := m.dedupe(ctx, result); err != nil {
		return err
	}

	var phases []string
	var statements []db.Statement
	if len(m.primaryKeys) > 0 {
		args := m.mergeArgs()
		if len(args.Columns) > 0 {
			phases = append(phases, phaseUpdate)
			statements = append(statements, db.NewStatement(m.dest.Dialect().BuildUpdateQuery(args), m.timestampArgs()...))
		}

		phases = append(phases, phaseDelete)
		statements = append(statements, db.NewStatement(m.dest.Dialect().BuildDeleteMatchedQuery(args)))
	}

	phases = append(phases, phaseInsert)
	statements = append(statements, m.insertStatement())

	results, err := m.dest.ExecContextStatements(ctx, statements)
	if err != nil {
		return fmt.Errorf("failed to merge into target: %w", err)
	}

	for i, phase := range phases {
		result.addTimer(phase, results[i].Elapsed)
	}
	return nil
}
