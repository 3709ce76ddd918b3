// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore keeps uploaded media bytes in an S3-compatible bucket
(AWS S3, Cloudflare R2, MinIO) and hands back durable public URLs.
*/
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config describes the bucket and how its objects are reached publicly.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string

	// PublicBaseURL prefixes object keys to form the URLs stored on media records.
	PublicBaseURL string
}

// S3Store implements the media object store on top of aws-sdk-go-v2.
type S3Store struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

/*
NewS3Store builds the client from cfg.

Description: Static credentials are used when both keys are set, otherwise the
default AWS credential chain. A custom endpoint switches to path-style
addressing, which R2 and MinIO expect.
*/
func NewS3Store(ctx context.Context, cfg Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("objectstore: bucket is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("objectstore: public base url is required")
	}

	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object_store_configured",
		slog.String("bucket", cfg.Bucket),
		slog.String("endpoint", cfg.Endpoint),
	)

	return &S3Store{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Put streams body to key and returns the public URL of the object.
func (store *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := store.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: put %q: %w", key, err)
	}
	return store.publicURL(key), nil
}

// Delete removes the object behind url. URLs outside the public base are not ours and are ignored.
func (store *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := store.keyFromURL(url)
	if !ok {
		return nil
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objectstore: delete %q: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (store *S3Store) Ping(ctx context.Context) error {
	_, err := store.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(store.bucket)})
	return err
}

func (store *S3Store) publicURL(key string) string {
	return store.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func (store *S3Store) keyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, store.publicBaseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
