package mysql

import (
	"cmp"
	"context"
	"fmt"

	"github.com/artie-labs/bulkload/clients/mysql/dialect"
	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/sql"
)

type Store struct {
	database string
	blobs    blob.Router

	db.Store
}

func (s *Store) Label() constants.DestinationKind {
	return constants.MySQL
}

func (s *Store) dialect() dialect.MySQLDialect {
	return dialect.MySQLDialect{}
}

func (s *Store) Dialect() sql.Dialect {
	return s.dialect()
}

// IdentifierFor treats the schema as the database, falling back to the configured one.
func (s *Store) IdentifierFor(schema, table string) sql.TableIdentifier {
	return dialect.NewTableIdentifier(cmp.Or(schema, s.database), table)
}

func NewStore(store db.Store, database string, blobs blob.Router) *Store {
	return &Store{database: database, blobs: blobs, Store: store}
}

func LoadStore(ctx context.Context, cfg config.MySQL, blobs blob.Router) (*Store, error) {
	store, err := db.Open(ctx, "mysql", cfg.DSN(), Classify)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return NewStore(store, cfg.Database, blobs), nil
}
