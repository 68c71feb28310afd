// Package board defines the denormalized view model the dashboard is
// rendered from: categories-as-columns holding ordered links, the flat
// tag list, the bounded activity feed, and UI toggles. These are value
// types; the store package owns the live instances and hands out copies.
package board

import (
	"time"

	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
)

// Link is the view of a single bookmark inside its owning category.
// Order is the dense zero-based manual sort index; pinned links display
// before unpinned ones regardless of it.
type Link struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	TagIDs     []uint `json:"tag_ids"`
	IsPinned   bool   `json:"is_pinned"`
	Order      int    `json:"order"`
	CategoryID uint   `json:"category_id"`
}

// Category is a column on the board. Emoji is the display badge derived
// from the category's declared rank, never persisted.
type Category struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Links []Link `json:"links"`
}

// Tag is a colored label referenced by links through their TagIDs sets.
type Tag struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ActivityEntry is one line of the bounded audit feed.
type ActivityEntry struct {
	ID        uint                  `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Type      models.ActivityAction `json:"type"`
	ItemName  string                `json:"item_name"`
	Details   string                `json:"details,omitempty"`
}

// SocialLink is static reference data rendered as a shortcut rail; it is
// never mutated at runtime.
type SocialLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// UIState holds the presentation toggles the store tracks for the single
// operator. None of them have a remote effect.
type UIState struct {
	DarkMode        bool `json:"dark_mode"`
	TagManagerOpen  bool `json:"tag_manager_open"`
	ActivityLogOpen bool `json:"activity_log_open"`
}

// BadgeForRank derives a category's display badge from its declared
// display-order rank.
func BadgeForRank(rank int) string {
	switch rank {
	case 1:
		return "🔴"
	case 2:
		return "🟡"
	default:
		return "⚪"
	}
}

// DefaultSocialLinks is the compiled-in shortcut rail, used when no
// override file is configured.
func DefaultSocialLinks() []SocialLink {
	return []SocialLink{
		{ID: "github", Name: "GitHub", URL: "https://github.com", Icon: "Github"},
		{ID: "linkedin", Name: "LinkedIn", URL: "https://www.linkedin.com", Icon: "Linkedin"},
		{ID: "twitter", Name: "X", URL: "https://x.com", Icon: "Twitter"},
		{ID: "youtube", Name: "YouTube", URL: "https://www.youtube.com", Icon: "Youtube"},
	}
}
