package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-admin-backend/config"
)

func pngFile() File {
	body := []byte("\x89PNG\r\n\x1a\nfake-image")
	return File{Name: "Cover.PNG", Size: int64(len(body)), ContentType: "image/png", Body: bytes.NewReader(body)}
}

func TestObjectKeyUsesBucketAndExtension(t *testing.T) {
	key := objectKey("projects", pngFile())
	assert.True(t, strings.HasPrefix(key, "projects/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	unknown := File{Name: "notes.TXT"}
	assert.True(t, strings.HasSuffix(objectKey("projects", unknown), ".txt"))
}

func TestDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk := NewDisk(root)

	file := pngFile()
	// a partially consumed body must still be written whole
	_, _ = file.Body.Read(make([]byte, 3))

	path, err := disk.Put(ctx, "projects", file)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake-image", string(written))

	ok, err := disk.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, disk.Delete(ctx, path))
	ok, err = disk.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, disk.Delete(ctx, path), "deleting a missing blob is a no-op")
}

func TestDiskStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	disk := NewDisk(root)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), disk.abs("../../etc/passwd"))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	path, err := mem.Put(ctx, "projects", pngFile())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, mem.Paths())

	require.NoError(t, mem.Delete(ctx, path))
	ok, _ := mem.Exists(ctx, path)
	assert.False(t, ok)
}

func TestPutWithoutBody(t *testing.T) {
	_, err := NewMemory().Put(context.Background(), "projects", File{Name: "x.png"})
	assert.Error(t, err)
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = New(context.Background(), config.StorageConfig{Driver: config.StorageDisk, DiskRoot: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Disk{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
