package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
)

// Handler serves the presentation toggles and the static social rail
type Handler struct {
	store *store.Store
}

// NewHandler creates a new ui handler
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// GetState returns the current UI toggles
// @Summary Get UI state
// @Tags ui
// @Produce json
// @Success 200 {object} board.UIState
// @Security BearerAuth
// @Router /ui [get]
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.UIState())
}

// ToggleDarkMode flips the dark mode flag
// @Summary Toggle dark mode
// @Tags ui
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /ui/dark-mode [post]
func (h *Handler) ToggleDarkMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dark_mode": h.store.ToggleDarkMode()})
}

// ToggleTagManager flips the tag manager panel flag
// @Summary Toggle the tag manager panel
// @Tags ui
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /ui/tag-manager [post]
func (h *Handler) ToggleTagManager(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tag_manager_open": h.store.ToggleTagManager()})
}

// ToggleActivityLog flips the activity log panel flag
// @Summary Toggle the activity log panel
// @Tags ui
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /ui/activity-log [post]
func (h *Handler) ToggleActivityLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activity_log_open": h.store.ToggleActivityLog()})
}

// GetSocialLinks returns the static shortcut rail
// @Summary List social links
// @Tags ui
// @Produce json
// @Success 200 {array} board.SocialLink
// @Security BearerAuth
// @Router /social [get]
func (h *Handler) GetSocialLinks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.SocialLinks())
}

// RegisterRoutes registers ui routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ui", h.GetState)
	rg.POST("/ui/dark-mode", h.ToggleDarkMode)
	rg.POST("/ui/tag-manager", h.ToggleTagManager)
	rg.POST("/ui/activity-log", h.ToggleActivityLog)
	rg.GET("/social", h.GetSocialLinks)
}
