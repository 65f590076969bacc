package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/config"
)

// Minio stores blobs in a MinIO bucket, created on startup when missing.
type Minio struct {
	client *minio.Client
	bucket string
}

func NewMinio(ctx context.Context, cfg config.StorageConfig) (*Minio, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check minio bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create minio bucket")
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("Created bucket")
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Put(ctx context.Context, bucket string, file File) (string, error) {
	if err := rewind(file); err != nil {
		return "", err
	}

	size := file.Size
	if size <= 0 {
		size = -1
	}

	key := objectKey(bucket, file)
	_, err := m.client.PutObject(ctx, m.bucket, key, file.Body, size, minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "put minio %s/%s", m.bucket, key)
	}
	return key, nil
}

func (m *Minio) Delete(ctx context.Context, path string) error {
	err := m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "delete minio %s/%s", m.bucket, path)
}

func (m *Minio) Exists(ctx context.Context, path string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat minio %s/%s", m.bucket, path)
}
