package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

type TypeRepo struct {
	db *gorm.DB
}

func NewTypeRepo(db *gorm.DB) *TypeRepo {
	return &TypeRepo{db}
}

// FindAll returns all types ordered by label
func (r *TypeRepo) FindAll(ctx context.Context) ([]*models.Type, error) {
	var types []*models.Type
	if err := r.db.WithContext(ctx).Order("label").Find(&types).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "types", err)
	}
	return types, nil
}

func (r *TypeRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Type{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errs.NewDatabaseError("find", "type", err)
	}
	return count > 0, nil
}
