package redshift

import (
	"cmp"
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/artie-labs/bulkload/clients/redshift/dialect"
	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/db"
	"github.com/artie-labs/bulkload/lib/sql"
)

const defaultSchema = "public"

// ObjectStore receives local files so COPY can read them, [awslib.S3Client] implements it.
type ObjectStore interface {
	UploadLocalFile(ctx context.Context, bucket, prefix, objectName, filepath string) (string, error)
	Delete(ctx context.Context, uri string) error
}

type Store struct {
	bucket            string
	optionalS3Prefix  string
	credentialsClause string
	objects           ObjectStore
	blobs             blob.Router

	db.Store
}

func (s *Store) Label() constants.DestinationKind {
	return constants.Redshift
}

func (s *Store) dialect() dialect.RedshiftDialect {
	return dialect.RedshiftDialect{}
}

func (s *Store) Dialect() sql.Dialect {
	return s.dialect()
}

func (s *Store) IdentifierFor(schema, table string) sql.TableIdentifier {
	return dialect.NewTableIdentifier(cmp.Or(schema, defaultSchema), table)
}

func NewStore(store db.Store, cfg config.Redshift, objects ObjectStore, blobs blob.Router) *Store {
	return &Store{
		bucket:            cfg.Bucket,
		optionalS3Prefix:  cfg.OptionalS3Prefix,
		credentialsClause: cfg.CredentialsClause,
		objects:           objects,
		blobs:             blobs,
		Store:             store,
	}
}

func LoadStore(ctx context.Context, cfg config.Redshift, objects ObjectStore, blobs blob.Router) (*Store, error) {
	store, err := db.Open(ctx, "pgx", cfg.DSN(), Classify)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redshift: %w", err)
	}

	return NewStore(store, cfg, objects, blobs), nil
}
