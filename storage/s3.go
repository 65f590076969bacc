package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/config"
)

// S3 stores blobs as objects of a single S3 (or S3 compatible) bucket. The
// storage "bucket" argument becomes the key prefix.
type S3 struct {
	client *s3.Client
	bucket string
}

func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("region", cfg.S3Region).Msg("Using S3 blob storage")
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3) Put(ctx context.Context, bucket string, file File) (string, error) {
	if err := rewind(file); err != nil {
		return "", err
	}

	key := objectKey(bucket, file)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file.Body,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", errors.Wrapf(err, "put s3://%s/%s", s.bucket, key)
	}
	return key, nil
}

func (s *S3) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	return errors.Wrapf(err, "delete s3://%s/%s", s.bucket, path)
}

func (s *S3) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, errors.Wrapf(err, "head s3://%s/%s", s.bucket, path)
}
