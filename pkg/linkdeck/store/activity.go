package store

import (
	"log"

	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
)

// maxActivityEntries bounds the audit feed; the oldest entries are
// evicted from the tail as new ones arrive at the head.
const maxActivityEntries = 100

func activityView(e models.ActivityEntry) board.ActivityEntry {
	return board.ActivityEntry{
		ID:        e.ID,
		Timestamp: e.CreatedAt,
		Type:      e.Action,
		ItemName:  e.ItemName,
		Details:   e.Details,
	}
}

// recordActivity appends an audit entry for a mutation that already
// succeeded. The entry's timestamp comes back from the database, so feed
// ordering is authoritative store time. A recorder failure is logged and
// never fails the parent mutation. Callers hold the store lock.
func (s *Store) recordActivity(action models.ActivityAction, itemName, details string) {
	entry, err := s.gw.InsertActivityEntry(action, itemName, details)
	if err != nil {
		log.Printf("Failed to add activity log: %v", err)
		return
	}

	s.activity = append([]board.ActivityEntry{activityView(entry)}, s.activity...)
	if len(s.activity) > maxActivityEntries {
		s.activity = s.activity[:maxActivityEntries]
	}
}

// Activity returns a copy of the bounded feed, most recent first
func (s *Store) Activity() []board.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]board.ActivityEntry(nil), s.activity...)
}
