// Package store holds the in-memory mirror of the board and mediates
// every mutation. Each operation is remote-first: the gateway write must
// succeed before the mirror is touched, so on failure the mirror still
// reflects the last state the database confirmed. There is no optimistic
// apply and therefore no rollback path.
package store

import (
	"errors"
	"log"
	"sync"

	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/gateway"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/ordering"
)

var ErrCategoryNotFound = errors.New("category not found")

// Store is the single state container for the dashboard. It is built by
// the application root and injected into every handler; operations are
// serialized by the mutex so the mirror never interleaves with an
// in-flight remote write.
type Store struct {
	mu         sync.Mutex
	gw         *gateway.Gateway
	categories []board.Category
	tags       []board.Tag
	activity   []board.ActivityEntry
	socials    []board.SocialLink
	ui         board.UIState
}

// New creates an empty store over the given gateway. Call Initialize to
// load the mirror before serving.
func New(gw *gateway.Gateway, socials []board.SocialLink) *Store {
	return &Store{gw: gw, socials: socials}
}

// LinkUpdate carries the optional fields of an update-link command. Nil
// means "leave unchanged"; a non-nil TagIDs (even empty) replaces the
// link's tag set wholesale.
type LinkUpdate struct {
	Name     *string
	URL      *string
	IsPinned *bool
	TagIDs   []uint
}

// Initialize bulk-loads tags, links with their tag associations,
// categories, and the recent activity feed, then denormalizes into the
// category-to-links mirror. All-or-nothing: any read failure leaves the
// previous mirror untouched.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags, err := s.gw.ListTags()
	if err != nil {
		log.Printf("Failed to initialize store: %v", err)
		return err
	}
	links, err := s.gw.ListLinks()
	if err != nil {
		log.Printf("Failed to initialize store: %v", err)
		return err
	}
	categories, err := s.gw.ListCategories()
	if err != nil {
		log.Printf("Failed to initialize store: %v", err)
		return err
	}
	recent, err := s.gw.ListRecentActivity(maxActivityEntries)
	if err != nil {
		log.Printf("Failed to initialize store: %v", err)
		return err
	}

	cols := make([]board.Category, len(categories))
	for i, cat := range categories {
		col := board.Category{
			ID:    cat.ID,
			Title: cat.Name,
			Emoji: board.BadgeForRank(cat.DisplayOrder),
			Links: []board.Link{},
		}
		for _, l := range links {
			if l.CategoryID != cat.ID {
				continue
			}
			tagIDs := make([]uint, len(l.Tags))
			for j, t := range l.Tags {
				tagIDs[j] = t.ID
			}
			col.Links = append(col.Links, board.Link{
				ID:         l.ID,
				Name:       l.Title,
				URL:        l.URL,
				TagIDs:     tagIDs,
				IsPinned:   l.IsPinned,
				Order:      l.Position,
				CategoryID: cat.ID,
			})
		}
		cols[i] = col
	}

	tagViews := make([]board.Tag, len(tags))
	for i, t := range tags {
		tagViews[i] = board.Tag{ID: t.ID, Name: t.Name, Color: t.Color}
	}

	feed := make([]board.ActivityEntry, len(recent))
	for i, e := range recent {
		feed[i] = activityView(e)
	}

	s.categories = cols
	s.tags = tagViews
	s.activity = feed
	return nil
}

// findCategory returns a pointer into the mirror; callers hold the lock.
func (s *Store) findCategory(id uint) *board.Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

// AddLink creates a link at the tail of the target category. The caller
// is responsible for requiring at least one tag id; the store does not
// re-validate that precondition. Errors are returned so the form can
// stay open and show the failure.
func (s *Store) AddLink(categoryID uint, name, url string, tagIDs []uint) (board.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(categoryID)
	if cat == nil {
		return board.Link{}, ErrCategoryNotFound
	}

	row, err := s.gw.InsertLink(categoryID, name, url, len(cat.Links))
	if err != nil {
		log.Printf("Failed to add link: %v", err)
		return board.Link{}, err
	}
	// Second write with no rollback of the first: a failure here leaves
	// the link row behind without its associations.
	if err := s.gw.InsertLinkTags(row.ID, tagIDs); err != nil {
		log.Printf("Failed to add link tags: %v", err)
		return board.Link{}, err
	}

	link := board.Link{
		ID:         row.ID,
		Name:       name,
		URL:        url,
		TagIDs:     append([]uint(nil), tagIDs...),
		IsPinned:   false,
		Order:      len(cat.Links),
		CategoryID: categoryID,
	}
	cat.Links = append(cat.Links, link)

	s.recordActivity(models.ActionCreate, name, "Added to "+cat.Title)
	return link, nil
}

// UpdateLink merges the provided fields into the link wherever it
// currently lives. A provided tag set replaces the remote associations
// wholesale. Unknown ids are a silent local no-op, as is an update that
// provides no fields at all.
func (s *Store) UpdateLink(id uint, upd LinkUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["title"] = *upd.Name
	}
	if upd.URL != nil {
		updates["url"] = *upd.URL
	}
	if upd.IsPinned != nil {
		updates["is_pinned"] = *upd.IsPinned
	}
	if len(updates) == 0 && upd.TagIDs == nil {
		return nil
	}
	if len(updates) > 0 {
		if err := s.gw.UpdateLink(id, updates); err != nil {
			log.Printf("Failed to update link: %v", err)
			return err
		}
	}
	if upd.TagIDs != nil {
		if err := s.gw.ReplaceLinkTags(id, upd.TagIDs); err != nil {
			log.Printf("Failed to update link tags: %v", err)
			return err
		}
	}

	for ci := range s.categories {
		links := s.categories[ci].Links
		for li := range links {
			if links[li].ID != id {
				continue
			}
			if upd.Name != nil {
				links[li].Name = *upd.Name
			}
			if upd.URL != nil {
				links[li].URL = *upd.URL
			}
			if upd.IsPinned != nil {
				links[li].IsPinned = *upd.IsPinned
			}
			if upd.TagIDs != nil {
				links[li].TagIDs = append([]uint(nil), upd.TagIDs...)
			}
			s.recordActivity(models.ActionEdit, links[li].Name, "Updated")
			return nil
		}
	}
	return nil
}

// DeleteLink removes a link. The remote delete always fires; the local
// removal and audit entry only happen when the mirror still held the
// link.
func (s *Store) DeleteLink(categoryID, linkID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.DeleteLink(linkID); err != nil {
		log.Printf("Failed to delete link: %v", err)
		return err
	}

	cat := s.findCategory(categoryID)
	if cat == nil {
		return nil
	}
	for i, l := range cat.Links {
		if l.ID == linkID {
			name := l.Name
			cat.Links = append(cat.Links[:i], cat.Links[i+1:]...)
			s.recordActivity(models.ActionDelete, name, "Removed from "+cat.Title)
			return nil
		}
	}
	return nil
}

// TogglePinned flips a link's pinned flag and reports the new value.
// Unknown ids are a silent no-op with no remote call.
func (s *Store) TogglePinned(categoryID, linkID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(categoryID)
	if cat == nil {
		return false, nil
	}
	for i := range cat.Links {
		if cat.Links[i].ID != linkID {
			continue
		}
		pinned := !cat.Links[i].IsPinned
		if err := s.gw.UpdateLink(linkID, map[string]interface{}{"is_pinned": pinned}); err != nil {
			log.Printf("Failed to toggle pin state: %v", err)
			return false, err
		}
		cat.Links[i].IsPinned = pinned

		action := models.ActionPin
		details := "Pinned"
		if !pinned {
			action = models.ActionUnpin
			details = "Unpinned"
		}
		s.recordActivity(action, cat.Links[i].Name, details)
		return pinned, nil
	}
	return false, nil
}

// MoveLink relocates a link across categories: removal from the source
// leaves the survivors' order values untouched, insertion appends at the
// destination tail with a fresh order. Same-category moves are a no-op;
// repositioning within a category goes through ReorderLinks.
func (s *Store) MoveLink(fromCategoryID, toCategoryID, linkID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.findCategory(fromCategoryID)
	dst := s.findCategory(toCategoryID)
	if src == nil || dst == nil {
		return ErrCategoryNotFound
	}
	if fromCategoryID == toCategoryID {
		return nil
	}

	if err := s.gw.UpdateLink(linkID, map[string]interface{}{
		"category_id": toCategoryID,
		"position":    len(dst.Links),
	}); err != nil {
		log.Printf("Failed to move link: %v", err)
		return err
	}

	newSrc, newDst, moved, ok := ordering.MoveAcross(src.Links, dst.Links, linkID, toCategoryID)
	if !ok {
		return nil
	}
	src.Links = newSrc
	dst.Links = newDst

	s.recordActivity(models.ActionMove, moved.Name, "Moved from "+src.Title+" to "+dst.Title)
	return nil
}

// ReorderLinks persists each link's new order from the supplied
// replacement sequence, then swaps the category's link collection
// wholesale. Pure reordering leaves no audit entry.
func (s *Store) ReorderLinks(categoryID uint, seq []board.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(categoryID)
	if cat == nil {
		return ErrCategoryNotFound
	}

	// Sequential writes; a failure partway aborts with earlier writes
	// already applied remotely and none applied to the mirror.
	for _, l := range seq {
		if err := s.gw.UpdateLink(l.ID, map[string]interface{}{"position": l.Order}); err != nil {
			log.Printf("Failed to reorder links: %v", err)
			return err
		}
	}

	cat.Links = append([]board.Link(nil), seq...)
	return nil
}

// UpdateCategoryTitle renames a category
func (s *Store) UpdateCategoryTitle(categoryID uint, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(categoryID)
	if cat == nil {
		return ErrCategoryNotFound
	}
	if err := s.gw.UpdateCategoryTitle(categoryID, title); err != nil {
		log.Printf("Failed to update category title: %v", err)
		return err
	}
	cat.Title = title
	return nil
}

// AddTag creates a tag. Errors are returned so the tag form can surface
// the failure.
func (s *Store) AddTag(name, color string) (board.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.gw.InsertTag(name, color)
	if err != nil {
		log.Printf("Failed to add tag: %v", err)
		return board.Tag{}, err
	}
	tag := board.Tag{ID: row.ID, Name: name, Color: color}
	s.tags = append(s.tags, tag)
	return tag, nil
}

// UpdateTag merges the provided fields into a tag
func (s *Store) UpdateTag(id uint, name, color *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if color != nil {
		updates["color"] = *color
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.gw.UpdateTag(id, updates); err != nil {
		log.Printf("Failed to update tag: %v", err)
		return err
	}
	for i := range s.tags {
		if s.tags[i].ID == id {
			if name != nil {
				s.tags[i].Name = *name
			}
			if color != nil {
				s.tags[i].Color = *color
			}
			break
		}
	}
	return nil
}

// DeleteTag removes a tag and cascade-clears its id from every link's
// tag set, so no link is left referencing a tag that no longer exists.
// A link may end up with an empty tag set this way; the creation-time
// at-least-one-tag precondition does not apply to the deletion path.
func (s *Store) DeleteTag(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.DeleteTag(id); err != nil {
		log.Printf("Failed to delete tag: %v", err)
		return err
	}

	for i, t := range s.tags {
		if t.ID == id {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			break
		}
	}
	for ci := range s.categories {
		links := s.categories[ci].Links
		for li := range links {
			kept := links[li].TagIDs[:0]
			for _, tid := range links[li].TagIDs {
				if tid != id {
					kept = append(kept, tid)
				}
			}
			links[li].TagIDs = kept
		}
	}
	return nil
}

// ToggleDarkMode flips the dark mode flag and returns the new value
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.DarkMode = !s.ui.DarkMode
	return s.ui.DarkMode
}

// ToggleTagManager flips the tag manager panel flag
func (s *Store) ToggleTagManager() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.TagManagerOpen = !s.ui.TagManagerOpen
	return s.ui.TagManagerOpen
}

// ToggleActivityLog flips the activity log panel flag
func (s *Store) ToggleActivityLog() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.ActivityLogOpen = !s.ui.ActivityLogOpen
	return s.ui.ActivityLogOpen
}

// UIState returns the current presentation toggles
func (s *Store) UIState() board.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// Categories returns a deep copy of the category mirror
func (s *Store) Categories() []board.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCategories(s.categories)
}

// Tags returns a copy of the tag list
func (s *Store) Tags() []board.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]board.Tag(nil), s.tags...)
}

// SocialLinks returns the static shortcut rail
func (s *Store) SocialLinks() []board.SocialLink {
	return append([]board.SocialLink(nil), s.socials...)
}

// LocateLink returns a copy of the link and its owning category's id
func (s *Store) LocateLink(linkID uint) (board.Link, uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		for _, l := range cat.Links {
			if l.ID == linkID {
				cp := l
				cp.TagIDs = append([]uint(nil), l.TagIDs...)
				return cp, cat.ID, true
			}
		}
	}
	return board.Link{}, 0, false
}

func copyCategories(cats []board.Category) []board.Category {
	out := make([]board.Category, len(cats))
	for i, c := range cats {
		links := make([]board.Link, len(c.Links))
		for j, l := range c.Links {
			links[j] = l
			links[j].TagIDs = append([]uint(nil), l.TagIDs...)
		}
		out[i] = c
		out[i].Links = links
	}
	return out
}
