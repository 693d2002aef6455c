package utils

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/artie-labs/bulkload/clients/mysql"
	"github.com/artie-labs/bulkload/clients/redshift"
	"github.com/artie-labs/bulkload/clients/snowflake"
	"github.com/artie-labs/bulkload/lib/awslib"
	"github.com/artie-labs/bulkload/lib/blob"
	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/config/constants"
	"github.com/artie-labs/bulkload/lib/destination"
	"github.com/artie-labs/bulkload/lib/gcslib"
)

// Clients are the object store clients shared by every import.
type Clients struct {
	Blobs blob.Router
	// S3 is nil when no AWS settings are configured.
	S3 *awslib.S3Client

	gcsClient *storage.Client
}

func (c Clients) Close() {
	if c.gcsClient != nil {
		if err := c.gcsClient.Close(); err != nil {
			slog.Warn("Failed to close gcs client", slog.Any("err", err))
		}
	}
}

// LoadClients registers an `s3` backend when AWS is configured and a `gs` backend when GCS is.
func LoadClients(ctx context.Context, cfg config.Config) (Clients, error) {
	clients := Clients{Blobs: blob.NewRouter()}
	if cfg.AWS != nil {
		awsCfg, err := awslib.NewConfig(ctx, cfg.AWS.Region, cfg.AWS.Credentials())
		if err != nil {
			return Clients{}, fmt.Errorf("failed to load aws config: %w", err)
		}

		s3Client := awslib.NewS3Client(awsCfg)
		clients.S3 = &s3Client
		clients.Blobs = clients.Blobs.WithBackend("s3", s3Client)
	}

	if cfg.GCS != nil {
		var opts []option.ClientOption
		if cfg.GCS.PathToCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCS.PathToCredentials))
		}

		gcsClient, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return Clients{}, fmt.Errorf("failed to create gcs client: %w", err)
		}

		clients.gcsClient = gcsClient
		clients.Blobs = clients.Blobs.WithBackend("gs", gcslib.NewGCSClient(gcsClient))
	}

	return clients, nil
}

// Load opens a new connection to the configured output, every import gets its own.
func Load(ctx context.Context, cfg config.Config, clients Clients) (destination.Destination, error) {
	switch cfg.Output {
	case constants.MySQL:
		store, err := mysql.LoadStore(ctx, *cfg.MySQL, clients.Blobs)
		if err != nil {
			return nil, err
		}
		return store, nil
	case constants.Redshift:
		var objects redshift.ObjectStore
		if clients.S3 != nil {
			objects = *clients.S3
		}

		store, err := redshift.LoadStore(ctx, *cfg.Redshift, objects, clients.Blobs)
		if err != nil {
			return nil, err
		}
		return store, nil
	case constants.Snowflake:
		store, err := snowflake.LoadStore(ctx, *cfg.Snowflake, clients.Blobs)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("invalid destination: %q", cfg.Output)
}
