package awslib

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewConfig uses static credentials when they are set and the default credential chain otherwise.
func NewConfig(ctx context.Context, region string, creds Credentials) (aws.Config, error) {
	region = cmp.Or(region, os.Getenv("AWS_REGION"))
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed loading aws config: %w", err)
	}
	return cfg, nil
}
