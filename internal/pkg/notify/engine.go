package notify

import (
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

// PortalSource resolves portals for fan-out context.
type PortalSource interface {
	GetByID(id uint) (*models.Portal, error)
}

// UserSource resolves actor names for message composition.
type UserSource interface {
	GetByID(id uint) (*models.User, error)
}

// Meta is the free-form payload attached to an activity. The composer reads
// well-known keys and falls back to generic phrasing when they are absent.
type Meta map[string]any

// Engine turns one activity into zero or more per-recipient notification
// rows. Delivery is best-effort relative to the primary mutation: missing
// context is logged and swallowed, never propagated.
type Engine struct {
	portals PortalSource
	users   UserSource
}

func NewEngine(portals PortalSource, users UserSource) *Engine {
	return &Engine{portals: portals, users: users}
}

// Compose builds the notification rows for an activity without persisting
// them. The recipient set is the portal's two participants minus the actor;
// the actor is never notified about their own action.
func (e *Engine) Compose(portalID, actorID uint, activityType string, meta Meta) ([]models.Notification, error) {
	notificationType, ok := NotificationTypeFor(activityType)
	if !ok {
		return nil, nil
	}

	portal, err := e.portals.GetByID(portalID)
	if err != nil {
		return nil, fmt.Errorf("load portal %d: %w", portalID, err)
	}
	actor, err := e.users.GetByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("load actor %d: %w", actorID, err)
	}

	var recipients []uint
	for _, participant := range []uint{portal.CreatedBy, portal.ClientID} {
		if participant != 0 && participant != actorID {
			recipients = append(recipients, participant)
		}
	}

	message := composeMessage(notificationType, actor.Name, portal.Name, meta)
	link := composeLink(notificationType, portal.UUID, meta)

	notifications := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, models.Notification{
			UserID:   recipient,
			PortalID: portalID,
			Type:     notificationType,
			Message:  message,
			Link:     link,
		})
	}
	return notifications, nil
}

// Record composes and inserts notification rows inside the caller's
// transaction. It must share the transaction of the triggering mutation so a
// rollback takes the notifications with it. Unresolvable portal or actor
// context makes the call a logged no-op.
func (e *Engine) Record(tx *gorm.DB, portalID, actorID uint, activityType string, meta Meta) error {
	notifications, err := e.Compose(portalID, actorID, activityType, meta)
	if err != nil {
		fiberlog.Warnf("[Notify] skipping fan-out for %s on portal %d: %v", activityType, portalID, err)
		return nil
	}
	if len(notifications) == 0 {
		return nil
	}

	if err := tx.Create(&notifications).Error; err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

func composeMessage(notificationType, actorName, portalName string, meta Meta) string {
	switch notificationType {
	case models.NotificationNewUpdate:
		if title := metaString(meta, "update_title"); title != "" {
			return fmt.Sprintf("%s posted the update %q", actorName, title)
		}
		return fmt.Sprintf("%s posted an update in %q", actorName, portalName)
	case models.NotificationNewComment:
		if title := metaString(meta, "update_title"); title != "" {
			return fmt.Sprintf("%s replied to %q", actorName, title)
		}
		return fmt.Sprintf("%s replied in %q", actorName, portalName)
	case models.NotificationNewFile:
		if name := metaString(meta, "file_name"); name != "" {
			return fmt.Sprintf("%s uploaded %q", actorName, name)
		}
		return fmt.Sprintf("%s uploaded a file to %q", actorName, portalName)
	case models.NotificationPortalUpdate:
		return fmt.Sprintf("%s made changes to %q", actorName, portalName)
	case models.NotificationDeadlineReminder:
		return fmt.Sprintf("%q is due in %d days", portalName, metaInt(meta, "days_left"))
	default:
		return fmt.Sprintf("%s did something in %q", actorName, portalName)
	}
}

func composeLink(notificationType, portalUUID string, meta Meta) string {
	switch notificationType {
	case models.NotificationNewComment:
		if updateID := metaUint(meta, "update_id"); updateID != 0 {
			return UpdateLink(portalUUID, updateID, metaUint(meta, "reply_id"))
		}
		return PortalLink(portalUUID)
	case models.NotificationNewUpdate:
		if updateID := metaUint(meta, "update_id"); updateID != 0 {
			return UpdateLink(portalUUID, updateID, 0)
		}
		return PortalLink(portalUUID)
	case models.NotificationNewFile:
		if updateID := metaUint(meta, "update_id"); updateID != 0 {
			return UpdateLink(portalUUID, updateID, 0)
		}
		return PortalFilesLink(portalUUID)
	default:
		// portal_update and deadline_reminder link to the portal root
		return PortalLink(portalUUID)
	}
}

func metaString(meta Meta, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaUint(meta Meta, key string) uint {
	switch v := meta[key].(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

func metaInt(meta Meta, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
