package scheduler

import (
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// OrphanNotificationStore lists update-linked notifications and deletes rows.
type OrphanNotificationStore interface {
	ListUpdateLinked() ([]models.Notification, error)
	DeleteByID(id uint) error
}

// UpdateExistenceSource answers whether an update still exists.
type UpdateExistenceSource interface {
	Exists(id uint) (bool, error)
}

// OrphanSweep removes notifications whose deep link points at a deleted
// update. Update deletion cleans its notifications inline on the deleting
// user's own path; this sweep is the safety net for every other path.
type OrphanSweep struct {
	store   OrphanNotificationStore
	updates UpdateExistenceSource
}

func NewOrphanSweep(store OrphanNotificationStore, updates UpdateExistenceSource) *OrphanSweep {
	return &OrphanSweep{store: store, updates: updates}
}

// Run executes one sweep and returns the number of notifications removed.
// Each notification is handled independently; a failing row is logged and
// the sweep continues.
func (s *OrphanSweep) Run() (int, error) {
	notifications, err := s.store.ListUpdateLinked()
	if err != nil {
		return 0, fmt.Errorf("list update-linked notifications: %w", err)
	}

	removed := 0
	for _, n := range notifications {
		updateID, ok := notify.ParseUpdateID(n.Link)
		if !ok {
			continue
		}

		exists, err := s.updates.Exists(updateID)
		if err != nil {
			fiberlog.Errorf("[Scheduler] orphan check failed for notification %d (update %d): %v", n.ID, updateID, err)
			continue
		}
		if exists {
			continue
		}

		if err := s.store.DeleteByID(n.ID); err != nil {
			fiberlog.Errorf("[Scheduler] orphan delete failed for notification %d: %v", n.ID, err)
			continue
		}
		removed++
	}

	return removed, nil
}
