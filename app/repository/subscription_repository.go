package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository backed by GORM
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// CurrentPlanID resolves the user's plan: the most recently started row that
// is active and not yet ended. No such row means the free tier.
func (r *subscriptionRepository) CurrentPlanID(userID uint) (plans.PlanID, error) {
	now := time.Now()
	var sub models.Subscription
	err := r.db.
		Where("user_id = ? AND is_active = ? AND (ends_at IS NULL OR ends_at > ?)", userID, true, now).
		Order("starts_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return plans.PlanFree, nil
		}
		return "", err
	}
	return plans.Normalize(sub.PlanID), nil
}

func (r *subscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("starts_at DESC").Find(&subs).Error
	return subs, err
}

// Upsert writes a subscription row keyed by (provider, provider_subscription_id)
// so webhook replays update in place instead of duplicating history.
func (r *subscriptionRepository) Upsert(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_subscription_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"plan_id",
			"starts_at",
			"ends_at",
			"is_active",
			"canceled_at",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("provider = ? AND provider_subscription_id = ?", sub.Provider, sub.ProviderSubscriptionID).
		First(sub).Error
}
