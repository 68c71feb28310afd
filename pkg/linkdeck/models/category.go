package models

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a named column of links on the board.
// DisplayOrder is the column's rank on the dashboard; the display badge
// is derived from it at load time and never stored.
type Category struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	DisplayOrder int            `gorm:"uniqueIndex;not null" json:"display_order"`

	// Relationships
	Links []Link `gorm:"foreignKey:CategoryID" json:"links,omitempty"`
}
