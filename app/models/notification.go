package models

import (
	"time"

	"gorm.io/gorm"
)

// User-facing notification types. These are a restricted subset of the
// activity types; the mapping lives in internal/pkg/notify.
const (
	NotificationNewUpdate        = "new_update"
	NotificationNewComment       = "new_comment"
	NotificationNewFile          = "new_file"
	NotificationPortalUpdate     = "portal_update"
	NotificationDeadlineReminder = "deadline_reminder"
)

// Notification is a per-recipient projection of an activity: one row per
// (event, recipient) pair, never shared. Only IsRead is mutable, and only
// from false to true.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	PortalID  uint      `gorm:"not null;index" json:"portal_id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Link      string    `gorm:"type:varchar(500);not null" json:"link"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// MarkAsRead flips the read flag. A no-op when already read.
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	if n.IsRead {
		return nil
	}
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}
