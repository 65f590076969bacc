package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, most recently updated first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Preload("Type").Order("updated_at DESC").Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project with its type and technologies
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Technologies", func(db *gorm.DB) *gorm.DB { return db.Order("technologies.id") }).
		First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

// TitleTaken reports whether another project already uses exactly this
// title. exceptID excludes the project being edited; 0 excludes nothing.
func (r *ProjectRepo) TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("title = ?", title)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errs.NewDatabaseError("check title of", "project", err)
	}
	return count > 0, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Omit("Type", "Technologies").Create(project).Error
	if err != nil {
		return errs.NewDatabaseError("create", "project", err)
	}
	return nil
}

// Update writes the project's own columns; relations are synced separately
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Omit("Type", "Technologies").Save(project).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	return nil
}
