package links

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/ordering"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// Handler handles link-related requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new links handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// CreateLinkRequest represents the request to create a link. At least
// one tag id is required here, at the form boundary; the store itself
// does not re-check it.
type CreateLinkRequest struct {
	Name   string `json:"name" binding:"required"`
	URL    string `json:"url" binding:"required"`
	TagIDs []uint `json:"tag_ids" binding:"required,min=1"`
}

// UpdateLinkRequest represents the request to update a link
type UpdateLinkRequest struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	IsPinned *bool   `json:"is_pinned"`
	TagIDs   []uint  `json:"tag_ids"`
}

// MoveLinkRequest represents a cross-category move
type MoveLinkRequest struct {
	FromCategoryID uint `json:"from_category_id" binding:"required"`
	ToCategoryID   uint `json:"to_category_id" binding:"required"`
	LinkID         uint `json:"link_id" binding:"required"`
}

// ReorderRequest carries the full replacement order for one category
type ReorderRequest struct {
	LinkIDs []uint `json:"link_ids" binding:"required,min=1"`
}

// DragRequest describes a completed drag gesture: the dragged link and
// whatever was under the pointer when it was released.
type DragRequest struct {
	LinkID         uint `json:"link_id" binding:"required"`
	OverCategoryID uint `json:"over_category_id"`
	OverLinkID     uint `json:"over_link_id"`
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// Create creates a new link in a category
// @Summary Create a link
// @Description Create a new link at the tail of a category
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} board.Link
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id}/links [post]
func (h *Handler) Create(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.store.AddLink(categoryID, req.Name, req.URL, req.TagIDs)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// Update updates a link's fields; a supplied tag set replaces the
// existing one wholesale
// @Summary Update a link
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body UpdateLinkRequest true "Updated fields"
// @Success 200 {object} board.Link
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /links/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	linkID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.UpdateLink(linkID, store.LinkUpdate{
		Name:     req.Name,
		URL:      req.URL,
		IsPinned: req.IsPinned,
		TagIDs:   req.TagIDs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}

	if link, _, found := h.store.LocateLink(linkID); found {
		c.JSON(http.StatusOK, link)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link updated"})
}

// Delete deletes a link from a category
// @Summary Delete a link
// @Tags links
// @Produce json
// @Param id path int true "Category ID"
// @Param linkId path int true "Link ID"
// @Success 200 {object} map[string]string "Link deleted"
// @Security BearerAuth
// @Router /categories/{id}/links/{linkId} [delete]
func (h *Handler) Delete(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	linkID, ok := parseID(c, "linkId")
	if !ok {
		return
	}

	if err := h.store.DeleteLink(categoryID, linkID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// TogglePin flips a link's pinned flag
// @Summary Toggle a link's pin
// @Tags links
// @Produce json
// @Param id path int true "Category ID"
// @Param linkId path int true "Link ID"
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /categories/{id}/links/{linkId}/pin [post]
func (h *Handler) TogglePin(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	linkID, ok := parseID(c, "linkId")
	if !ok {
		return
	}

	pinned, err := h.store.TogglePinned(categoryID, linkID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle pin state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

// Move relocates a link to another category
// @Summary Move a link across categories
// @Tags links
// @Accept json
// @Produce json
// @Param request body MoveLinkRequest true "Move details"
// @Success 200 {object} map[string]string "Link moved"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /board/move [post]
func (h *Handler) Move(c *gin.Context) {
	var req MoveLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.MoveLink(req.FromCategoryID, req.ToCategoryID, req.LinkID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link moved"})
}

// Reorder accepts the full replacement order for one category's links.
// The submitted ids must be a permutation of the category's current
// links; orders are re-derived from the submitted positions.
// @Summary Reorder a category's links
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body ReorderRequest true "Link ids in the new order"
// @Success 200 {array} board.Link
// @Failure 400 {object} map[string]string "Not a permutation"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id}/links/order [put]
func (h *Handler) Reorder(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var current []board.Link
	for _, cat := range h.store.Categories() {
		if cat.ID == categoryID {
			current = cat.Links
			break
		}
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	byID := make(map[uint]board.Link, len(current))
	for _, l := range current {
		byID[l.ID] = l
	}
	if len(req.LinkIDs) != len(current) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must include every link in the category exactly once"})
		return
	}
	seq := make([]board.Link, 0, len(req.LinkIDs))
	for _, id := range req.LinkIDs {
		l, found := byID[id]
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order must include every link in the category exactly once"})
			return
		}
		delete(byID, id)
		seq = append(seq, l)
	}

	seq = ordering.Reindex(seq)
	if err := h.store.ReorderLinks(categoryID, seq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder links"})
		return
	}
	c.JSON(http.StatusOK, seq)
}

// Drag resolves a completed drag gesture: a drop on another category
// becomes a move, a drop on a link in the same category becomes a
// reorder, and anything else is a no-op.
// @Summary Apply a drag-and-drop gesture
// @Tags links
// @Accept json
// @Produce json
// @Param request body DragRequest true "Gesture details"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /board/drag [post]
func (h *Handler) Drag(c *gin.Context) {
	var req DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, sourceCategoryID, found := h.store.LocateLink(req.LinkID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	categories := h.store.Categories()
	targetCategoryID, ok := ordering.ResolveDropTarget(categories, req.OverCategoryID, req.OverLinkID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"action": "none"})
		return
	}

	if targetCategoryID != sourceCategoryID {
		if err := h.store.MoveLink(sourceCategoryID, targetCategoryID, req.LinkID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move link"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": "moved"})
		return
	}

	// Same category: reorder onto the hovered link's position.
	if req.OverLinkID == 0 || req.OverLinkID == req.LinkID {
		c.JSON(http.StatusOK, gin.H{"action": "none"})
		return
	}
	var links []board.Link
	for _, cat := range categories {
		if cat.ID == sourceCategoryID {
			links = cat.Links
			break
		}
	}
	from, to := -1, -1
	for i, l := range links {
		if l.ID == req.LinkID {
			from = i
		}
		if l.ID == req.OverLinkID {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		c.JSON(http.StatusOK, gin.H{"action": "none"})
		return
	}

	seq := ordering.Move(links, from, to)
	if err := h.store.ReorderLinks(sourceCategoryID, seq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder links"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": "reordered"})
}

// Search filters the mirror by a free-text term over names and urls and
// an optional tag id
// @Summary Search links
// @Tags links
// @Produce json
// @Param q query string false "Search term (matches name and URL)"
// @Param tag_id query int false "Filter by tag id"
// @Success 200 {array} board.Link
// @Security BearerAuth
// @Router /links [get]
func (h *Handler) Search(c *gin.Context) {
	term := strings.ToLower(c.Query("q"))
	var tagID uint
	if raw := c.Query("tag_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag_id"})
			return
		}
		tagID = uint(parsed)
	}

	results := []board.Link{}
	for _, cat := range h.store.Categories() {
		for _, l := range ordering.SortForDisplay(cat.Links) {
			if term != "" &&
				!strings.Contains(strings.ToLower(l.Name), term) &&
				!strings.Contains(strings.ToLower(l.URL), term) {
				continue
			}
			if tagID != 0 && !containsUint(l.TagIDs, tagID) {
				continue
			}
			results = append(results, l)
		}
	}
	c.JSON(http.StatusOK, results)
}

func containsUint(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/categories/:id/links", h.Create)
	rg.PUT("/links/:id", h.Update)
	rg.DELETE("/categories/:id/links/:linkId", h.Delete)
	rg.POST("/categories/:id/links/:linkId/pin", h.TogglePin)
	rg.PUT("/categories/:id/links/order", h.Reorder)

	rg.POST("/board/move", h.Move)
	rg.POST("/board/drag", h.Drag)

	rg.GET("/links", h.Search)
}
