package models

// Technology is a tool or language a project is built with
type Technology struct {
	ID    uint   `json:"id" db:"id" gorm:"primaryKey"`
	Label string `json:"label" db:"label" gorm:"type:text;not null"`
	Color string `json:"color,omitempty" db:"color" gorm:"type:varchar(7)"`
}

// ProjectTechnology is a row of the project <-> technology join table
type ProjectTechnology struct {
	ProjectID    uint `json:"project_id" db:"project_id" gorm:"primaryKey;autoIncrement:false"`
	TechnologyID uint `json:"technology_id" db:"technology_id" gorm:"primaryKey;autoIncrement:false;index"`
}

func (ProjectTechnology) TableName() string {
	return "project_technology"
}
