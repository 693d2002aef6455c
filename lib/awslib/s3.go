package awslib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type S3Client struct {
	client   *s3.Client
	uploader *manager.Uploader
}

func NewS3Client(cfg aws.Config) S3Client {
	client := s3.NewFromConfig(cfg)
	return S3Client{client: client, uploader: manager.NewUploader(client)}
}

// ParseS3URI splits `s3://bucket/key` into its bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse %q: %w", uri, err)
	}

	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("expected an s3://bucket/key uri, got %q", uri)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("uri %q does not contain a key", uri)
	}

	return u.Host, key, nil
}

func (s S3Client) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", uri, err)
	}
	return output.Body, nil
}

func IsNotFoundError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

func (s S3Client) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object %q: %w", uri, err)
	}
	return true, nil
}

// UploadLocalFile puts the file under prefix using objectName and returns its S3 URI.
// Large files are sent as a multipart upload.
func (s S3Client) UploadLocalFile(ctx context.Context, bucket, prefix, objectName, filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objectKey := objectName
	if prefix != "" {
		objectKey = path.Join(prefix, objectName)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to s3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, objectKey), nil
}

func (s S3Client) Delete(ctx context.Context, uri string) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return err
	}

	if _, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", uri, err)
	}
	return nil
}
