// Package storage keeps rendered order PDFs in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store uploads objects and builds the URL recipients download them from.
type Store interface {
	// Upload overwrites any object already stored at key.
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
}

type Options struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; e.g. the storage/v1/s3 endpoint of a hosted backend
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the prefix objects are publicly served from; defaults to Endpoint/Bucket.
	PublicBaseURL string
}

type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewS3Store(ctx context.Context, opt Options) (*S3Store, error) {
	if opt.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	region := opt.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opt.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opt.AccessKeyID, opt.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimRight(opt.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(opt.Endpoint, "/") + "/" + opt.Bucket
	}
	return &S3Store{client: client, bucket: opt.Bucket, publicBase: base}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}
