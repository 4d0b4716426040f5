// Package storage issues presigned upload URLs for user files on S3 or an
// S3-compatible provider.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	appconfig "internHubAPI/internal/config"
)

// ResumeStore presigns direct uploads into a single bucket.
type ResumeStore struct {
	presign *s3.PresignClient
	bucket  string
}

func NewResumeStore(ctx context.Context, cfg appconfig.S3Config) (*ResumeStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("S3 storage is not configured")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("S3 resume storage initialized")

	return &ResumeStore{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// PresignUpload returns a URL that accepts a single PUT of key for ttl.
func (s *ResumeStore) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}
