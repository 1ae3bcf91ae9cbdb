package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository backed by GORM
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *notificationRepository) ListByUser(userID uint, offset, limit int) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips a single row to read. Scoped to the owner and to unread
// rows, so repeat calls and foreign ids are silent no-ops.
func (r *notificationRepository) MarkRead(id, userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// MarkReadByLink clears unread rows whose link contains the fragment. Used
// when a user opens an update page: every notification deep-linking it is
// considered seen without the caller knowing individual ids.
func (r *notificationRepository) MarkReadByLink(userID uint, fragment string) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND link LIKE ?", userID, false, "%"+fragment+"%").
		Update("is_read", true).Error
}

// DeleteByUpdateLink removes every notification deep-linking the given
// update. Matches the bare update link and the anchored reply variant, but
// never a longer id sharing the same prefix.
func (r *notificationRepository) DeleteByUpdateLink(updateID uint) error {
	base := fmt.Sprintf("%%/updates/%d", updateID)
	return r.db.
		Where("link LIKE ? OR link LIKE ?", base, base+"#%").
		Delete(&models.Notification{}).Error
}

func (r *notificationRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

// ListUpdateLinked returns every notification whose link points at an update
// page. Input set for the orphan reconciler.
func (r *notificationRepository) ListUpdateLinked() ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("link LIKE ?", "%/updates/%").Find(&notifications).Error
	return notifications, err
}

// ReminderPortalIDsSince returns the portals that already received a
// deadline_reminder notification after the given instant. The scheduler
// subtracts these from its candidate set (24h dedup window).
func (r *notificationRepository) ReminderPortalIDsSince(since time.Time) (map[uint]struct{}, error) {
	var portalIDs []uint
	err := r.db.Model(&models.Notification{}).
		Where("type = ? AND created_at > ?", models.NotificationDeadlineReminder, since).
		Distinct().
		Pluck("portal_id", &portalIDs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(portalIDs))
	for _, id := range portalIDs {
		seen[id] = struct{}{}
	}
	return seen, nil
}
