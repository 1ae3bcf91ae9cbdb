package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/internal/pkg/billing"
	"github.com/clientbridge/clientbridge/internal/pkg/database"
	"github.com/clientbridge/clientbridge/internal/pkg/env"
)

type billingWebhookPayload struct {
	UserID         uint   `json:"userId"`
	SubscriptionID string `json:"subscriptionId"`
	PlanID         string `json:"planId"`
	Status         string `json:"status"`
	StartsAt       string `json:"startsAt"`
	EndsAt         string `json:"endsAt"`
	CanceledAt     string `json:"canceledAt"`
}

// HandleBillingWebhook ingests provider subscription events. Every delivery
// is journaled first so replays become no-ops, then the subscription row is
// synced. The provider travels in the X-Webhook-Provider header next to the
// event type and delivery id.
func HandleBillingWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	provider := strings.TrimSpace(c.Get("X-Webhook-Provider"))
	eventType := strings.TrimSpace(c.Get("X-Webhook-Event"))
	eventID := firstHeaderValue(c, "X-Webhook-Delivery", "X-Webhook-Event-ID")
	signature := strings.TrimSpace(c.Get("X-Webhook-Signature"))
	secret := env.GetEnv("BILLING_WEBHOOK_SECRET", "")

	if provider == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_provider"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	signatureValid := billing.VerifyWebhookSignature(rawBody, signature, secret)
	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}
	if !isSubscriptionEvent(eventType) {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	var payload billingWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	startsAt, err := parseWebhookTime(payload.StartsAt)
	if err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	endsAt, err := parseWebhookTimePtr(payload.EndsAt)
	if err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	canceledAt, err := parseWebhookTimePtr(payload.CanceledAt)
	if err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	_, syncErr := svc.SyncSubscription(ctx, billing.NormalizedSubscription{
		UserID:                 payload.UserID,
		Provider:               provider,
		ProviderSubscriptionID: payload.SubscriptionID,
		PlanID:                 payload.PlanID,
		Status:                 payload.Status,
		StartsAt:               startsAt,
		EndsAt:                 endsAt,
		CanceledAt:             canceledAt,
	})
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, syncErr)
	if syncErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_sync_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func isSubscriptionEvent(eventType string) bool {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "subscription:created", "subscription:updated", "subscription:canceled":
		return true
	default:
		return false
	}
}

func parseWebhookTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseWebhookTimePtr(value string) (*time.Time, error) {
	t, err := parseWebhookTime(value)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}
