package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rpupo63/portfolio-admin-backend/config"
)

// File is an uploaded payload ready to be written to a Storage.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadSeeker
}

// Storage is a path addressed blob store. Put returns the path the blob was
// written under; that path is what callers persist and later hand to Delete.
type Storage interface {
	Put(ctx context.Context, bucket string, file File) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// New returns the Storage selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageDisk:
		return NewDisk(cfg.DiskRoot), nil
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageS3:
		return NewS3(ctx, cfg)
	case config.StorageMinio:
		return NewMinio(ctx, cfg)
	}
	return nil, errors.Errorf("unsupported storage driver %q", cfg.Driver)
}

// objectKey names a new blob "<bucket>/<uuid><ext>".
func objectKey(bucket string, file File) string {
	return path.Join(bucket, uuid.NewString()+extension(file))
}

func extension(file File) string {
	if file.ContentType != "" {
		if mt := mimetype.Lookup(file.ContentType); mt != nil && mt.Extension() != "" {
			return mt.Extension()
		}
	}
	return strings.ToLower(filepath.Ext(file.Name))
}

func rewind(file File) error {
	if file.Body == nil {
		return errors.New("file has no body")
	}
	_, err := file.Body.Seek(0, io.SeekStart)
	return errors.Wrap(err, "rewind upload")
}
