package models

// Type is the category a project belongs to (e.g. front-end, full-stack)
type Type struct {
	ID    uint   `json:"id" db:"id" gorm:"primaryKey"`
	Label string `json:"label" db:"label" gorm:"type:text;not null"`
}
