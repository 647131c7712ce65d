// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds explicit construction parameters for [NewS3].
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. an R2 or MinIO URL
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool

	// HTTPClient overrides the transport. Tests use it to fake the service.
	HTTPClient *http.Client
}

// S3Store implements [Store] on a single S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 blob store.
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob: s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
		// R2 and MinIO reject the streaming checksum trailer on some versions.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (store *S3Store) Driver() Driver { return DriverS3 }

// Put emulates create-only with a HEAD before the upload.
func (store *S3Store) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}

	exists, err := store.Exists(ctx, clean)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrExists, clean)
	}

	input := &s3.PutObjectInput{Bucket: aws.String(store.bucket), Key: aws.String(clean), Body: r}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := store.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("blob: s3 put %s: %w", clean, err)
	}
	return nil
}

// Delete issues a HEAD first because S3 DeleteObject succeeds for missing keys.
func (store *S3Store) Delete(ctx context.Context, key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	exists, err := store.Exists(ctx, clean)
	if err != nil || !exists {
		return false, err
	}

	if _, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(store.bucket), Key: aws.String(clean)}); err != nil {
		return false, fmt.Errorf("blob: s3 delete %s: %w", clean, err)
	}
	return true, nil
}

func (store *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	_, err = store.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(store.bucket), Key: aws.String(clean)})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	var responseErr *awshttp.ResponseError
	if errors.As(err, &responseErr) && responseErr.HTTPStatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("blob: s3 head %s: %w", clean, err)
}
