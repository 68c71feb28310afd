package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// Handler serves the bounded activity feed
type Handler struct {
	store *store.Store
}

// NewHandler creates a new activity handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// List returns the audit feed, most recent first, capped at 100 entries
// @Summary List activity entries
// @Tags activity
// @Produce json
// @Success 200 {array} board.ActivityEntry
// @Security BearerAuth
// @Router /activity [get]
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Activity())
}

// RegisterRoutes registers activity routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.List)
}
