package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Disk stores blobs as files below a root directory.
type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

func (d *Disk) Put(_ context.Context, bucket string, file File) (string, error) {
	if err := rewind(file); err != nil {
		return "", err
	}

	key := objectKey(bucket, file)
	target := d.abs(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrap(err, "create bucket directory")
	}

	out, err := os.Create(target)
	if err != nil {
		return "", errors.Wrap(err, "create blob file")
	}
	if _, err := io.Copy(out, file.Body); err != nil {
		out.Close()
		os.Remove(target)
		return "", errors.Wrap(err, "write blob file")
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return "", errors.Wrap(err, "close blob file")
	}
	return key, nil
}

// Delete removes the blob; a missing blob is not an error.
func (d *Disk) Delete(_ context.Context, path string) error {
	err := os.Remove(d.abs(path))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s", path)
	}
	return nil
}

func (d *Disk) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(d.abs(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat %s", path)
}

func (d *Disk) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(filepath.Clean("/"+path)))
}
