package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PortalStatusActive    = "active"
	PortalStatusArchived  = "archived"
	PortalStatusCompleted = "completed"
)

// Portal is a shared workspace between exactly two participants: the owning
// freelancer (CreatedBy) and the assigned client (ClientID). Entitlement
// checks on anything happening inside the portal resolve through CreatedBy.
type Portal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	CreatedBy uint           `gorm:"not null;index" json:"created_by"`
	Owner     User           `gorm:"foreignKey:CreatedBy" json:"owner,omitempty"`
	ClientID  uint           `gorm:"not null;index" json:"client_id"`
	Client    User           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Status    string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	DueDate   *time.Time     `gorm:"type:date;default:null" json:"due_date,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a public UUID when none is set.
func (p *Portal) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// IsParticipant reports whether userID is one of the portal's two participants.
func (p *Portal) IsParticipant(userID uint) bool {
	return userID == p.CreatedBy || userID == p.ClientID
}

// OtherParticipant returns the participant that is not userID, or 0 when
// userID is not a participant at all.
func (p *Portal) OtherParticipant(userID uint) uint {
	switch userID {
	case p.CreatedBy:
		return p.ClientID
	case p.ClientID:
		return p.CreatedBy
	default:
		return 0
	}
}
