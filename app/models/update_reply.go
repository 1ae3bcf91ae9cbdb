package models

import "time"

// UpdateReply is a threaded reply below a portal update. PortalID is
// denormalized so fan-out and permission checks avoid a join.
type UpdateReply struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UpdateID  uint         `gorm:"not null;index" json:"update_id"`
	Update    PortalUpdate `gorm:"foreignKey:UpdateID" json:"-"`
	PortalID  uint         `gorm:"not null;index" json:"portal_id"`
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	Author    User         `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
