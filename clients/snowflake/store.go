package snowflake

import (
	"cmp"
	"context"
	"fmt"

	"github.com/artie-labs/bulkload/clients/snowflake/dialect"
	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/sql"
)

const defaultSchema = "PUBLIC"

type Store struct {
	database string
	blobs    blob.Router

	db.Store
}

func (s *Store) Label() constants.DestinationKind {
	return constants.Snowflake
}

func (s *Store) dialect() dialect.SnowflakeDialect {
	return dialect.SnowflakeDialect{}
}

func (s *Store) Dialect() sql.Dialect {
	return s.dialect()
}

func (s *Store) IdentifierFor(schema, table string) sql.TableIdentifier {
	return dialect.NewTableIdentifier(s.database, cmp.Or(schema, defaultSchema), table)
}

func NewStore(store db.Store, database string, blobs blob.Router) *Store {
	return &Store{database: database, blobs: blobs, Store: store}
}

func LoadStore(ctx context.Context, cfg config.Snowflake, blobs blob.Router) (*Store, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("failed to build the snowflake dsn: %w", err)
	}

	store, err := db.Open(ctx, "snowflake", dsn, Classify)
	if err != nil {
		if AuthenticationExpirationErr(err) {
			return nil, fmt.Errorf("snowflake credentials have expired: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to snowflake: %w", err)
	}

	return NewStore(store, cfg.Database, blobs), nil
}
