package database

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

// ProjectTechnologyRepo reads and writes the project_technology join table
type ProjectTechnologyRepo struct {
	db *gorm.DB
}

func NewProjectTechnologyRepo(db *gorm.DB) *ProjectTechnologyRepo {
	return &ProjectTechnologyRepo{db}
}

// LinkedIDs returns the technology ids linked to a project, ascending
func (r *ProjectTechnologyRepo) LinkedIDs(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ProjectTechnology{}).
		Where("project_id = ?", projectID).
		Order("technology_id").
		Pluck("technology_id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project technologies", err)
	}
	return ids, nil
}

// Attach links the project to every technology id, ignoring pairs that already exist
func (r *ProjectTechnologyRepo) Attach(ctx context.Context, projectID uint, technologyIDs []uint) error {
	rows := joinRows(projectID, technologyIDs)
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return errs.NewDatabaseError("attach", "project technologies", err)
	}
	return nil
}

// SetLinks reconciles the join table so the project is linked to exactly
// technologyIDs. Unchanged links are left in place.
func (r *ProjectTechnologyRepo) SetLinks(ctx context.Context, projectID uint, technologyIDs []uint) error {
	current, err := r.LinkedIDs(ctx, projectID)
	if err != nil {
		return err
	}

	add, remove := DiffLinks(current, technologyIDs)
	if len(remove) > 0 {
		err := r.db.WithContext(ctx).
			Where("project_id = ? AND technology_id IN ?", projectID, remove).
			Delete(&models.ProjectTechnology{}).Error
		if err != nil {
			return errs.NewDatabaseError("detach", "project technologies", err)
		}
	}
	return r.Attach(ctx, projectID, add)
}

// RemoveAllLinks detaches every technology from the project
func (r *ProjectTechnologyRepo) RemoveAllLinks(ctx context.Context, projectID uint) error {
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectTechnology{}).Error
	if err != nil {
		return errs.NewDatabaseError("detach", "project technologies", err)
	}
	return nil
}

// DiffLinks compares the current and desired technology sets. Both results
// are deduplicated and sorted ascending.
func DiffLinks(current, desired []uint) (add, remove []uint) {
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uint]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	for id := range want {
		if !have[id] {
			add = append(add, id)
		}
	}
	for id := range have {
		if !want[id] {
			remove = append(remove, id)
		}
	}
	sort.Slice(add, func(i, j int) bool { return add[i] < add[j] })
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return add, remove
}

func joinRows(projectID uint, technologyIDs []uint) []models.ProjectTechnology {
	seen := make(map[uint]bool, len(technologyIDs))
	rows := make([]models.ProjectTechnology, 0, len(technologyIDs))
	for _, id := range technologyIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.ProjectTechnology{ProjectID: projectID, TechnologyID: id})
	}
	return rows
}
