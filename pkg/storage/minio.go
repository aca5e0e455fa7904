package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoBucket is returned by Publish when no bucket is configured.
var ErrNoBucket = errors.New("no bucket configured")

// Config names an S3-compatible bucket (AWS S3 or MinIO). Endpoint and the
// static keys are optional; without them the SDK's default endpoint and
// credential chain are used.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Enabled reports whether a publish target is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// Key is the object key a local file is stored under.
func (c Config) Key(file string) string {
	return path.Join(c.Prefix, filepath.Base(file))
}

func (c Config) client(ctx context.Context) (*s3.Client, error) {
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	if c.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, signing string, options ...any) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               c.Endpoint,
				SigningRegion:     signing,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = c.Endpoint != ""
	}), nil
}

// Publish uploads the file at local to the configured bucket, creating the
// bucket if it cannot be found, and returns the object key.
func Publish(ctx context.Context, cfg Config, local string) (string, error) {
	if !cfg.Enabled() {
		return "", ErrNoBucket
	}
	client, err := cfg.client(ctx)
	if err != nil {
		return "", fmt.Errorf("loading s3 config: %w", err)
	}

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(cfg.Bucket),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	file, err := os.Open(local)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := cfg.Key(local)
	input := &s3.PutObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if ct := mime.TypeByExtension(filepath.Ext(local)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
