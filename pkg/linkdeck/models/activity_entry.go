package models

import "time"

// ActivityAction is the kind of mutation an activity entry records
type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
	ActionEdit   ActivityAction = "edit"
	ActionDelete ActivityAction = "delete"
	ActionMove   ActivityAction = "move"
	ActionPin    ActivityAction = "pin"
	ActionUnpin  ActivityAction = "unpin"
)

// ActivityEntry is an immutable audit record of one mutating command.
// CreatedAt is assigned by the store at insert time and is the
// authoritative ordering; entries are never updated or deleted by users.
type ActivityEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Action    ActivityAction `gorm:"type:varchar(20);not null" json:"action"`
	ItemName  string         `gorm:"not null" json:"item_name"`
	Details   string         `json:"details"`
}
