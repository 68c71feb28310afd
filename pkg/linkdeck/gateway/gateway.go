// Package gateway is the typed persistence boundary for the board. The
// store never touches GORM directly; everything it needs from the
// backing database goes through one of these calls. Inserts that need an
// owner are stamped with the operator's user id, resolved once at
// startup.
package gateway

import (
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
	"gorm.io/gorm"
)

// Gateway wraps the database connection for board reads and writes
type Gateway struct {
	db     *gorm.DB
	userID uint
}

// New creates a gateway stamping ownership with the given operator id
func New(db *gorm.DB, userID uint) *Gateway {
	return &Gateway{db: db, userID: userID}
}

// UserID returns the operator id used to stamp ownership on inserts
func (g *Gateway) UserID() uint {
	return g.userID
}

// ListTags returns all tags in creation order
func (g *Gateway) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := g.db.Order("created_at ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListLinks returns all links with their tag associations preloaded, in
// creation order
func (g *Gateway) ListLinks() ([]models.Link, error) {
	var links []models.Link
	if err := g.db.Preload("Tags").Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// ListCategories returns all categories ordered by their display rank
func (g *Gateway) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := g.db.Order("display_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// InsertLink creates a link row owned by the operator
func (g *Gateway) InsertLink(categoryID uint, title, url string, position int) (models.Link, error) {
	link := models.Link{
		CategoryID:  categoryID,
		CreatedByID: g.userID,
		Title:       title,
		URL:         url,
		IsPinned:    false,
		Position:    position,
	}
	if err := g.db.Create(&link).Error; err != nil {
		return models.Link{}, err
	}
	return link, nil
}

// UpdateLink applies the given column updates to a link row
func (g *Gateway) UpdateLink(id uint, updates map[string]interface{}) error {
	return g.db.Model(&models.Link{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteLink removes a link row. The row's tag associations go with it.
func (g *Gateway) DeleteLink(id uint) error {
	link := models.Link{ID: id}
	if err := g.db.Model(&link).Association("Tags").Clear(); err != nil {
		return err
	}
	return g.db.Delete(&link).Error
}

// InsertLinkTags appends tag associations to a link
func (g *Gateway) InsertLinkTags(linkID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags := make([]models.Tag, len(tagIDs))
	for i, id := range tagIDs {
		tags[i] = models.Tag{ID: id}
	}
	link := models.Link{ID: linkID}
	return g.db.Model(&link).Association("Tags").Append(&tags)
}

// ReplaceLinkTags clears a link's tag associations and inserts the new
// set. Two sequential calls with no rollback of the first if the second
// fails; the caller owns that hazard.
func (g *Gateway) ReplaceLinkTags(linkID uint, tagIDs []uint) error {
	link := models.Link{ID: linkID}
	if err := g.db.Model(&link).Association("Tags").Clear(); err != nil {
		return err
	}
	return g.InsertLinkTags(linkID, tagIDs)
}

// InsertTag creates a tag row owned by the operator
func (g *Gateway) InsertTag(name, color string) (models.Tag, error) {
	tag := models.Tag{
		Name:        name,
		Color:       color,
		CreatedByID: g.userID,
	}
	if err := g.db.Create(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// UpdateTag applies the given column updates to a tag row
func (g *Gateway) UpdateTag(id uint, updates map[string]interface{}) error {
	return g.db.Model(&models.Tag{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteTag removes a tag row after clearing its link associations, so
// no link_tags row can dangle
func (g *Gateway) DeleteTag(id uint) error {
	tag := models.Tag{ID: id}
	if err := g.db.Model(&tag).Association("Links").Clear(); err != nil {
		return err
	}
	return g.db.Delete(&tag).Error
}

// UpdateCategoryTitle renames a category
func (g *Gateway) UpdateCategoryTitle(id uint, title string) error {
	return g.db.Model(&models.Category{}).Where("id = ?", id).Update("name", title).Error
}

// ListRecentActivity returns the newest audit rows first, at most limit
func (g *Gateway) ListRecentActivity(limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if err := g.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertActivityEntry appends an audit row and returns it with the
// store-assigned id and timestamp
func (g *Gateway) InsertActivityEntry(action models.ActivityAction, itemName, details string) (models.ActivityEntry, error) {
	entry := models.ActivityEntry{
		Action:   action,
		ItemName: itemName,
		Details:  details,
	}
	if err := g.db.Create(&entry).Error; err != nil {
		return models.ActivityEntry{}, err
	}
	return entry, nil
}
