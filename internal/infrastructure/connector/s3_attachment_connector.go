package connector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3AttachmentConnector stores attachment objects in an S3-compatible bucket (AWS S3 or MinIO)
type s3AttachmentConnector struct {
	client   *s3.Client
	presign  *s3.PresignClient
	settings *config.StorageSettings
	logger   logger.Logger
}

// NewS3AttachmentConnector creates a connector for the configured bucket.
// Presigned URLs are signed against the public endpoint when one is set so
// clients outside the container network can use them.
func NewS3AttachmentConnector(ctx context.Context, settings *config.StorageSettings, logger logger.Logger) (tasks.AttachmentStore, error) {
	return newS3AttachmentConnector(ctx, settings, logger, nil)
}

func newS3AttachmentConnector(ctx context.Context, settings *config.StorageSettings, logger logger.Logger, httpClient *http.Client) (*s3AttachmentConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	region := settings.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if settings.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	clientFor := func(endpoint string) *s3.Client {
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = settings.PathStyle
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
			if httpClient != nil {
				o.HTTPClient = httpClient
			}
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		})
	}

	client := clientFor(settings.Endpoint)
	signer := client
	if settings.PublicEndpoint != "" {
		signer = clientFor(settings.PublicEndpoint)
	}

	return &s3AttachmentConnector{
		client:   client,
		presign:  s3.NewPresignClient(signer),
		settings: settings,
		logger:   logger,
	}, nil
}

func (c *s3AttachmentConnector) Bucket() string {
	return c.settings.Bucket
}

// Put uploads body under key. Unseekable bodies are buffered so the request can be signed.
func (c *s3AttachmentConnector) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("failed to read attachment body: %w", err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.settings.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	c.logger.Info("Uploaded object ", key, " to bucket ", c.settings.Bucket)
	return nil
}

func (c *s3AttachmentConnector) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.settings.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	c.logger.Info("Deleted object ", key, " from bucket ", c.settings.Bucket)
	return nil
}

func (c *s3AttachmentConnector) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.settings.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := c.presign.PresignPutObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = c.expiry()
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return out.URL, nil
}

func (c *s3AttachmentConnector) URL(ctx context.Context, key string) (string, error) {
	if c.settings.PublicBucket {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.settings.PublicEndpoint, "/"), c.settings.Bucket, key), nil
	}

	out, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.settings.Bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = c.expiry()
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}
	return out.URL, nil
}

func (c *s3AttachmentConnector) expiry() time.Duration {
	return time.Duration(c.settings.URLExpiryHours) * time.Hour
}
