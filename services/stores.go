package services

import (
	"context"

	"github.com/rpupo63/portfolio-admin-backend/models"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

// ProjectStore persists projects. FindByID fails with an errs NotFound error
// when the id does not resolve.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type TypeStore interface {
	FindAll(ctx context.Context) ([]*models.Type, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type TechnologyStore interface {
	FindAllLabels(ctx context.Context) ([]*models.Technology, error)
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
}

// LinkStore is the accessor for the project <-> technology join table.
type LinkStore interface {
	LinkedIDs(ctx context.Context, projectID uint) ([]uint, error)
	Attach(ctx context.Context, projectID uint, technologyIDs []uint) error
	SetLinks(ctx context.Context, projectID uint, technologyIDs []uint) error
	RemoveAllLinks(ctx context.Context, projectID uint) error
}

// BlobStore is the subset of storage.Storage the admin service needs.
type BlobStore interface {
	Put(ctx context.Context, bucket string, file storage.File) (string, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
