package models

import (
	"time"

	"gorm.io/gorm"
)

// Link represents a curated bookmark owned by exactly one category.
// Position is the dense zero-based manual sort index within the owning
// category; pinned links always display before unpinned ones regardless
// of position.
type Link struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	Title       string         `gorm:"not null" json:"title"`
	URL         string         `gorm:"not null" json:"url"`
	IsPinned    bool           `gorm:"default:false" json:"is_pinned"`
	Position    int            `gorm:"not null;default:0" json:"position"`

	// Relationships
	Category  Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedBy User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Tags      []Tag    `gorm:"many2many:link_tags;" json:"tags,omitempty"`
}
