package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// Subscription is one historical billing period for a user. Rows are written
// only by the billing webhook path and are read-only to the entitlement
// engine. Multiple rows per user are retained; the current plan is the most
// recently started row that is active and not yet ended.
type Subscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;index" json:"user_id"`
	User                   User       `gorm:"foreignKey:UserID" json:"-"`
	PlanID                 string     `gorm:"type:varchar(50);not null;default:'free';index" json:"plan_id"`
	Provider               string     `gorm:"type:varchar(20);not null;index:ux_subscriptions_provider_subid,unique,priority:1" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;index:ux_subscriptions_provider_subid,unique,priority:2" json:"provider_subscription_id"`
	StartsAt               time.Time  `gorm:"type:timestamp;not null;index" json:"starts_at"`
	EndsAt                 *time.Time `gorm:"type:timestamp;default:null" json:"ends_at,omitempty"`
	IsActive               bool       `gorm:"not null;default:true;index" json:"is_active"`
	CanceledAt             *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCurrent reports whether the subscription entitles the user at time now:
// it must be active and either open-ended or ending in the future.
func (s *Subscription) IsCurrent(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.EndsAt == nil {
		return true
	}
	return s.EndsAt.After(now)
}
