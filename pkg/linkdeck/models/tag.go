package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag represents a colored label that can be applied to links
type Tag struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Color       string         `gorm:"not null" json:"color"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`

	// Relationships
	Links []Link `gorm:"many2many:link_tags;" json:"links,omitempty"`
}
