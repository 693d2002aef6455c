package importer

import (
	"context"
	"fmt"

	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/sql"
)

// dedupe keeps the last loaded row of every primary key. The survivors are written to a sibling table
// which then takes the staging table's name.
func dedupe(ctx context.Context, dest destination.Destination, stagingID sql.TableIdentifier, cols, primaryKeys []string) error {
	if len(primaryKeys) == 0 {
		return nil
	}

	dedupedID := stagingID.WithTable(stagingID.Table() + dedupeSuffix)
	if _, err := dest.ExecContext(ctx, dest.Dialect().BuildDedupeQuery(stagingID, dedupedID, cols, primaryKeys)); err != nil {
		return fmt.Errorf("failed to dedupe staging table: %w", err)
	}

	if err := swapTables(ctx, dest, stagingID, dedupedID); err != nil {
		dropTable(ctx, dest, dedupedID)
		return err
	}

	return nil
}
