package models

import (
	"encoding/json"
	"time"
)

// Activity domain event types. Only a subset is user-facing; the fan-out
// engine owns that mapping.
const (
	ActivityPortalCreated    = "portal_created"
	ActivityPortalUpdated    = "portal_updated"
	ActivityPortalDeleted    = "portal_deleted"
	ActivityUpdateCreated    = "update_created"
	ActivityUpdateDeleted    = "update_deleted"
	ActivityReplyCreated     = "reply_created"
	ActivityFileUploaded     = "file_uploaded"
	ActivityFileDeleted      = "file_deleted"
	ActivityStatusChange     = "status_change"
	ActivityComment          = "comment"
	ActivityDeadlineReminder = "deadline_reminder"
)

// Activity is an append-only record of a domain mutation. Rows are never
// updated; they are removed only as a cascade when their portal is deleted.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PortalID  uint      `gorm:"not null;index" json:"portal_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Meta      string    `gorm:"type:text" json:"meta"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// MetaMap decodes the free-form meta payload. An empty or malformed payload
// decodes to an empty map so callers can look up fields without nil checks.
func (a *Activity) MetaMap() map[string]any {
	m := map[string]any{}
	if a.Meta == "" {
		return m
	}
	if err := json.Unmarshal([]byte(a.Meta), &m); err != nil {
		return map[string]any{}
	}
	return m
}
