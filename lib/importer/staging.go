package importer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/sql"
)

const (
	maxTableNameFragment = 16
	dedupeSuffix         = "_dedupe"
)

var invalidIdentifierCharacters = regexp.MustCompile(`[^a-z0-9_]`)

// stagingTableName returns a name like `__stg_orders_1700000000_9f86d081884c7d65`. The random suffix keeps
// concurrent imports of the same table apart.
func stagingTableName(table string, now time.Time) string {
	fragment := invalidIdentifierCharacters.ReplaceAllString(strings.ToLower(table), "")
	if len(fragment) > maxTableNameFragment {
		fragment = fragment[:maxTableNameFragment]
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return fmt.Sprintf("%s_%s_%d_%s", constants.StagingTablePrefix, fragment, now.Unix(), suffix)
}

func createStagingTable(ctx context.Context, dest destination.Destination, stagingID sql.TableIdentifier, cols []string) error {
	if _, err := dest.ExecContext(ctx, dest.Dialect().BuildCreateStagingTableQuery(stagingID, cols)); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	return nil
}

// dropTable never fails, it runs during cleanup and must not hide the error that caused it.
func dropTable(ctx context.Context, dest destination.Destination, tableID sql.TableIdentifier) {
	if _, err := dest.ExecContext(context.WithoutCancel(ctx), dest.Dialect().BuildDropTableQuery(tableID)); err != nil {
		slog.Warn("Failed to drop staging table", slog.Any("err", err), slog.String("table", tableID.FullyQualifiedName()))
	}
}

// swapTables puts dedupedID in place of stagingID. Dialects that can rename inside a transaction do so atomically.
func swapTables(ctx context.Context, dest destination.Destination, stagingID, dedupedID sql.TableIdentifier) error {
	queries := dest.Dialect().BuildSwapTableQueries(stagingID, dedupedID)
	if dest.Dialect().SupportsAtomicRename() {
		if _, err := dest.ExecContextStatements(ctx, toStatements(queries)); err != nil {
			return fmt.Errorf("failed to swap staging tables: %w", err)
		}
		return nil
	}

	for _, query := range queries {
		if _, err := dest.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to swap staging tables: %w", err)
		}
	}
	return nil
}
