package importexport

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/ordering"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// defaultImportColor is assigned to tags created on the fly during an
// import, since board exports carry tag names on links but a link's
// tags may reference a tag absent from the export's tag list.
const defaultImportColor = "#64748b"

// Handler handles board import/export requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new import/export handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// ExportLink is one bookmark in a board export
type ExportLink struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	IsPinned bool     `json:"is_pinned"`
	Order    int      `json:"order"`
}

// ExportCategory is one column in a board export
type ExportCategory struct {
	Title string       `json:"title"`
	Links []ExportLink `json:"links"`
}

// ExportTag is one tag definition in a board export
type ExportTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// BoardExport is the full portable board snapshot
type BoardExport struct {
	Categories []ExportCategory `json:"categories"`
	Tags       []ExportTag      `json:"tags"`
}

// ImportLink is one bookmark in an import request
type ImportLink struct {
	Name string   `json:"name" binding:"required"`
	URL  string   `json:"url" binding:"required"`
	Tags []string `json:"tags"`
}

// ImportRequest imports bookmarks into one category
type ImportRequest struct {
	CategoryID uint         `json:"category_id" binding:"required"`
	Links      []ImportLink `json:"links" binding:"required"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Export returns the whole board as portable JSON
// @Summary Export the board
// @Tags importexport
// @Produce json
// @Success 200 {object} BoardExport
// @Security BearerAuth
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	tags := h.store.Tags()
	tagNames := make(map[uint]string, len(tags))
	exportTags := make([]ExportTag, len(tags))
	for i, t := range tags {
		tagNames[t.ID] = t.Name
		exportTags[i] = ExportTag{Name: t.Name, Color: t.Color}
	}

	categories := h.store.Categories()
	exportCategories := make([]ExportCategory, len(categories))
	for i, cat := range categories {
		ec := ExportCategory{Title: cat.Title, Links: []ExportLink{}}
		for _, l := range ordering.SortForDisplay(cat.Links) {
			names := make([]string, 0, len(l.TagIDs))
			for _, id := range l.TagIDs {
				if name, found := tagNames[id]; found {
					names = append(names, name)
				}
			}
			ec.Links = append(ec.Links, ExportLink{
				Name:     l.Name,
				URL:      l.URL,
				Tags:     names,
				IsPinned: l.IsPinned,
				Order:    l.Order,
			})
		}
		exportCategories[i] = ec
	}

	c.JSON(http.StatusOK, BoardExport{
		Categories: exportCategories,
		Tags:       exportTags,
	})
}

// resolveTagIDs maps tag names to ids, creating missing tags on the fly
func (h *Handler) resolveTagIDs(names []string) ([]uint, error) {
	byName := make(map[string]uint)
	for _, t := range h.store.Tags() {
		byName[t.Name] = t.ID
	}

	ids := make([]uint, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		id, found := byName[name]
		if !found {
			tag, err := h.store.AddTag(name, defaultImportColor)
			if err != nil {
				return nil, err
			}
			id = tag.ID
			byName[name] = id
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Import creates links from a portable snapshot in one category. Links
// without any resolvable tag are skipped: creation requires at least one
// tag, imports included.
// @Summary Import links into a category
// @Tags importexport
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Links to import"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := ImportResult{}
	for _, l := range req.Links {
		tagIDs, err := h.resolveTagIDs(l.Tags)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", l.Name, err))
			continue
		}
		if len(tagIDs) == 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: at least one tag required", l.Name))
			continue
		}

		if _, err := h.store.AddLink(req.CategoryID, l.Name, l.URL, tagIDs); err != nil {
			if err == store.ErrCategoryNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", l.Name, err))
			continue
		}
		result.Imported++
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}
