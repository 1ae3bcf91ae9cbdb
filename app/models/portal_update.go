package models

import (
	"time"

	"gorm.io/gorm"
)

// PortalUpdate is a status post inside a portal. Replies and files hang off it.
type PortalUpdate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PortalID  uint           `gorm:"not null;index" json:"portal_id"`
	Portal    Portal         `gorm:"foreignKey:PortalID" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Author    User           `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
