package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// PortalRepository defines the interface for portal-related database operations
type PortalRepository interface {
	Create(portal *models.Portal) error
	GetByID(id uint) (*models.Portal, error)
	GetByUUID(uuid string) (*models.Portal, error)
	GetByParticipant(userID uint, offset, limit int) ([]models.Portal, error)
	Update(portal *models.Portal) error
	Delete(id uint) error
	CountByOwner(userID uint) (int64, error)
	PortalOwner(portalID uint) (uint, error)
	ActiveDueOn(date time.Time) ([]models.Portal, error)
}

// UpdateRepository defines the interface for portal updates and replies
type UpdateRepository interface {
	GetByID(id uint) (*models.PortalUpdate, error)
	ListByPortal(portalID uint, offset, limit int) ([]models.PortalUpdate, error)
	Exists(id uint) (bool, error)
	CountByPortal(portalID uint) (int64, error)
	Delete(id uint) error
	GetReplyByID(id uint) (*models.UpdateReply, error)
	CountRepliesByUpdate(updateID uint) (int64, error)
}

// FileRepository defines the interface for portal file metadata
type FileRepository interface {
	GetByID(id uint) (*models.PortalFile, error)
	ListByPortal(portalID uint) ([]models.PortalFile, error)
	CountByPortal(portalID uint) (int64, error)
	StorageBytesByOwner(userID uint) (int64, error)
	Delete(id uint) error
}

// SubscriptionRepository defines the interface for subscription rows. Rows
// are written by the billing sync path only; everything else is read-only.
type SubscriptionRepository interface {
	CurrentPlanID(userID uint) (plans.PlanID, error)
	ListByUser(userID uint) ([]models.Subscription, error)
	Upsert(sub *models.Subscription) error
}

// NotificationRepository defines the interface for notification rows
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByUser(userID uint, offset, limit int) ([]models.Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	MarkReadByLink(userID uint, fragment string) error
	DeleteByUpdateLink(updateID uint) error
	DeleteByID(id uint) error
	ListUpdateLinked() ([]models.Notification, error)
	ReminderPortalIDsSince(since time.Time) (map[uint]struct{}, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Portal       PortalRepository
	Update       UpdateRepository
	File         FileRepository
	Subscription SubscriptionRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Portal:       NewPortalRepository(db),
		Update:       NewUpdateRepository(db),
		File:         NewFileRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
