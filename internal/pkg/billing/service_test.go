package billing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

type fakeBillingRepo struct {
	subs      []models.Subscription
	events    map[string]*models.BillingWebhookEvent
	processed []uint
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{events: map[string]*models.BillingWebhookEvent{}}
}

func (f *fakeBillingRepo) UpsertSubscription(sub *models.Subscription) error {
	for i := range f.subs {
		if f.subs[i].Provider == sub.Provider && f.subs[i].ProviderSubscriptionID == sub.ProviderSubscriptionID {
			sub.ID = f.subs[i].ID
			f.subs[i] = *sub
			return nil
		}
	}
	sub.ID = uint(len(f.subs) + 1)
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeBillingRepo) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	event.ID = uint(len(f.events) + 1)
	f.events[key] = event
	return true, event, nil
}

func (f *fakeBillingRepo) MarkWebhookProcessed(id uint, processingError string) error {
	f.processed = append(f.processed, id)
	return nil
}

func TestSyncSubscriptionNormalizes(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo)

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		UserID:                 1,
		Provider:               " Stripe ",
		ProviderSubscriptionID: "sub_123",
		PlanID:                 "PRO",
		Status:                 "active",
		StartsAt:               time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "stripe", sub.Provider)
	assert.Equal(t, "pro", sub.PlanID)
	assert.True(t, sub.IsActive)
}

func TestSyncSubscriptionUnknownPlanDegradesToFree(t *testing.T) {
	svc := NewService(newFakeBillingRepo())

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		UserID:                 1,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_123",
		PlanID:                 "enterprise_legacy",
		Status:                 "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "free", sub.PlanID)
}

func TestSyncSubscriptionCanceledStatusDeactivates(t *testing.T) {
	svc := NewService(newFakeBillingRepo())

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		UserID:                 1,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_123",
		PlanID:                 "pro",
		Status:                 "canceled",
	})
	require.NoError(t, err)
	assert.False(t, sub.IsActive)
}

func TestSyncSubscriptionRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeBillingRepo())

	_, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{Provider: "stripe"})
	assert.Error(t, err)
}

func TestRecordWebhookEventIdempotent(t *testing.T) {
	svc := NewService(newFakeBillingRepo())
	in := WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "subscription:updated",
		PayloadJSON:     `{"userId":1}`,
	}

	created, first, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)

	created, second, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created, "a replayed delivery is a no-op")
	assert.Equal(t, first.ID, second.ID)
}

func TestRecordWebhookEventHashesMissingEventID(t *testing.T) {
	svc := NewService(newFakeBillingRepo())

	_, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: `{"userId":1}`,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.ProviderEventID, "hash:"))
}

func TestEffectivePlanPicksBestCurrentSubscription(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo)

	past := time.Now().Add(-time.Hour)
	repo.subs = []models.Subscription{
		{ID: 1, UserID: 1, PlanID: "agency", Provider: "stripe", ProviderSubscriptionID: "a", IsActive: true, EndsAt: &past},
		{ID: 2, UserID: 1, PlanID: "pro", Provider: "stripe", ProviderSubscriptionID: "b", IsActive: true},
		{ID: 3, UserID: 1, PlanID: "agency", Provider: "stripe", ProviderSubscriptionID: "c", IsActive: false},
	}

	plan, err := svc.EffectivePlan(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, plans.PlanPro, plan, "expired and inactive rows do not entitle")
}
