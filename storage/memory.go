package storage

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Memory keeps blobs in process memory. Used by tests and local runs
// without a disk or object store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

func (m *Memory) Put(_ context.Context, bucket string, file File) (string, error) {
	if err := rewind(file); err != nil {
		return "", err
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}

	key := objectKey(bucket, file)
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return key, nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.blobs, path)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	_, ok := m.blobs[path]
	m.mu.RUnlock()
	return ok, nil
}

// Paths lists stored blob paths in lexical order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.blobs))
	for p := range m.blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
