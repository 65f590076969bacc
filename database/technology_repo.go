package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindAllLabels returns id and label of every technology, ordered by id
func (r *TechnologyRepo) FindAllLabels(ctx context.Context) ([]*models.Technology, error) {
	var technologies []*models.Technology
	err := r.db.WithContext(ctx).Select("id", "label").Order("id").Find(&technologies).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "technologies", err)
	}
	return technologies, nil
}

// ExistingIDs returns the subset of ids that have a technology row
func (r *TechnologyRepo) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(&models.Technology{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "technologies", err)
	}
	return found, nil
}

// Add inserts a new technology into the database
func (r *TechnologyRepo) Add(ctx context.Context, technology *models.Technology) error {
	if err := r.db.WithContext(ctx).Create(technology).Error; err != nil {
		return errs.NewDatabaseError("create", "technology", err)
	}
	return nil
}
