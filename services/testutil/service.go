package testutil

import (
	"bytes"

	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

// PNG is the smallest byte sequence sniffed as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// ImageFile wraps data as an upload.
func ImageFile(name string, data []byte) *storage.File {
	return &storage.File{Name: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

// NewProjectService wires a ProjectService over db and blobs.
func NewProjectService(db *DB, blobs services.BlobStore) *services.ProjectService {
	return services.NewProjectService(db.Projects(), db.Types(), db.Technologies(), db.Links(), blobs)
}
