package models

import "time"

// Project represents a portfolio project managed from the admin area
type Project struct {
	ID           uint         `json:"id" db:"id" gorm:"primaryKey"`
	Title        string       `json:"title" db:"title" gorm:"type:text;not null;unique"`
	Slug         string       `json:"slug" db:"slug" gorm:"type:text;not null"`
	Content      string       `json:"content" db:"content" gorm:"type:text;not null"`
	Image        *string      `json:"image,omitempty" db:"image" gorm:"type:text"`
	TypeID       *uint        `json:"type_id,omitempty" db:"type_id" gorm:"index"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime;index"`
	Type         *Type        `json:"type,omitempty" gorm:"foreignKey:TypeID;references:ID;constraint:OnDelete:SET NULL"`
	Technologies []Technology `json:"technologies,omitempty" gorm:"many2many:project_technology"`
}

// HasImage reports whether the project currently owns a stored image
func (p Project) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}
