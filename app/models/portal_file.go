package models

import "time"

// PortalFile is the metadata record for a file shared inside a portal. The
// object bytes live in external storage addressed by StorageKey; this
// application only tracks ownership, size and the optional update attachment.
type PortalFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PortalID   uint      `gorm:"not null;index" json:"portal_id"`
	Portal     Portal    `gorm:"foreignKey:PortalID" json:"-"`
	UpdateID   *uint     `gorm:"index;default:null" json:"update_id,omitempty"`
	UploadedBy uint      `gorm:"not null;index" json:"uploaded_by"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey string    `gorm:"type:varchar(36);uniqueIndex" json:"storage_key"`
	SizeBytes  int64     `gorm:"not null;default:0" json:"size_bytes"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
