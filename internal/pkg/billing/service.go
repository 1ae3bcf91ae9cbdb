package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

// Service provides provider-neutral billing synchronization. It is the only
// writer of subscription rows; the entitlement engine reads them.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// SyncSubscription upserts provider subscription data. The plan id is
// normalized onto the known set and unknown statuses deactivate the row, so a
// provider sending a plan we never heard of degrades the user to free rather
// than erroring.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.Subscription, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.UserID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, errors.New("user_id, provider and provider_subscription_id are required")
	}

	startsAt := in.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}

	sub := &models.Subscription{
		UserID:                 in.UserID,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		PlanID:                 string(normalizePlan(in.PlanID)),
		StartsAt:               startsAt,
		EndsAt:                 in.EndsAt,
		IsActive:               isEntitlingStatus(in.Status),
		CanceledAt:             in.CanceledAt,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// EffectivePlan computes the best plan the user's current subscriptions grant.
func (s *Service) EffectivePlan(ctx context.Context, userID uint) (plans.PlanID, error) {
	_ = ctx
	if userID == 0 {
		return plans.PlanFree, errors.New("user_id is required")
	}

	subs, err := s.repo.ListSubscriptionsByUser(userID)
	if err != nil {
		return plans.PlanFree, err
	}

	now := time.Now()
	best := plans.PlanFree
	for i := range subs {
		if !subs[i].IsCurrent(now) {
			continue
		}
		candidate := normalizePlan(subs[i].PlanID)
		if plans.Rank(candidate) > plans.Rank(best) {
			best = candidate
		}
	}
	return best, nil
}

// RecordWebhookEvent persists webhook payloads idempotently. The second return
// is the stored event; the first reports whether this call created it. Events
// without a provider event id are keyed by a payload hash.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
