package categories

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/ordering"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// Handler handles board and category requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new categories handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// UpdateCategoryRequest represents a category rename
type UpdateCategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

// BoardResponse is the full dashboard view: columns with their links in
// display order, the tag list, and the UI toggles
type BoardResponse struct {
	Categories []board.Category `json:"categories"`
	Tags       []board.Tag      `json:"tags"`
	UI         board.UIState    `json:"ui"`
}

// StatsResponse summarizes the board
type StatsResponse struct {
	TotalCategories int `json:"total_categories"`
	TotalLinks      int `json:"total_links"`
	PinnedLinks     int `json:"pinned_links"`
	TotalTags       int `json:"total_tags"`
	ActivityEntries int `json:"activity_entries"`
}

// GetBoard returns the denormalized dashboard view
// @Summary Get the board
// @Description Get all categories with links in display order, plus tags and UI state
// @Tags board
// @Produce json
// @Success 200 {object} BoardResponse
// @Security BearerAuth
// @Router /board [get]
func (h *Handler) GetBoard(c *gin.Context) {
	categories := h.store.Categories()
	for i := range categories {
		categories[i].Links = ordering.SortForDisplay(categories[i].Links)
	}
	c.JSON(http.StatusOK, BoardResponse{
		Categories: categories,
		Tags:       h.store.Tags(),
		UI:         h.store.UIState(),
	})
}

// GetStats returns board counts
// @Summary Get board statistics
// @Tags board
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /board/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats := StatsResponse{
		TotalTags:       len(h.store.Tags()),
		ActivityEntries: len(h.store.Activity()),
	}
	for _, cat := range h.store.Categories() {
		stats.TotalCategories++
		stats.TotalLinks += len(cat.Links)
		for _, l := range cat.Links {
			if l.IsPinned {
				stats.PinnedLinks++
			}
		}
	}
	c.JSON(http.StatusOK, stats)
}

// Update renames a category
// @Summary Rename a category
// @Tags board
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "New title"
// @Success 200 {object} map[string]string "Category updated"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateCategoryTitle(uint(id), req.Title); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// RegisterRoutes registers board and category routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/board", h.GetBoard)
	rg.GET("/board/stats", h.GetStats)
	rg.PUT("/categories/:id", h.Update)
}
