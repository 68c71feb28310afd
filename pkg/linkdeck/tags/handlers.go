package tags

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// Handler handles tag-related requests
type Handler struct {
	store *store.Store
}

// NewHandler creates a new tags handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// CreateTagRequest represents the request to create a tag
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// UpdateTagRequest represents the request to update a tag
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// List returns all tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} board.Tag
// @Security BearerAuth
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tags())
}

// Create creates a new tag
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag details"
// @Success 201 {object} board.Tag
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /tags [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.store.AddTag(req.Name, req.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// Update updates a tag's name or color
// @Summary Update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param request body UpdateTagRequest true "Updated fields"
// @Success 200 {object} map[string]string "Tag updated"
// @Security BearerAuth
// @Router /tags/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateTag(uint(id), req.Name, req.Color); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tag"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag updated"})
}

// Delete removes a tag and clears it from every link that carried it
// @Summary Delete a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]string "Tag deleted"
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	if err := h.store.DeleteTag(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.POST("/tags", h.Create)
	rg.PUT("/tags/:id", h.Update)
	rg.DELETE("/tags/:id", h.Delete)
}
