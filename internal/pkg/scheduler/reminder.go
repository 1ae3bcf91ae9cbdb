package scheduler

import (
	"fmt"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/clientbridge/clientbridge/app/models"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// Reminder timing constants. Kept isolated so they can be promoted to
// per-tier or per-portal configuration later without touching the sweep.
const (
	ReminderHorizonDays = 7
	ReminderDedupWindow = 24 * time.Hour
)

// ReminderPortalSource lists active portals due on a given day.
type ReminderPortalSource interface {
	ActiveDueOn(date time.Time) ([]models.Portal, error)
}

// ReminderNotificationStore reads recent reminders and writes new ones.
type ReminderNotificationStore interface {
	ReminderPortalIDsSince(since time.Time) (map[uint]struct{}, error)
	Create(n *models.Notification) error
}

// ReminderSweep creates one deadline reminder per qualifying portal,
// addressed to the owning freelancer only. Clients are not reminded.
type ReminderSweep struct {
	portals ReminderPortalSource
	store   ReminderNotificationStore
	now     func() time.Time
}

func NewReminderSweep(portals ReminderPortalSource, store ReminderNotificationStore) *ReminderSweep {
	return &ReminderSweep{portals: portals, store: store, now: time.Now}
}

// Run executes one sweep and returns the number of reminders created.
// Inserts are per portal: one failed row is logged and skipped so it cannot
// suppress reminders for unrelated portals in the same run.
func (s *ReminderSweep) Run() (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	targetDate := today.AddDate(0, 0, ReminderHorizonDays)

	portals, err := s.portals.ActiveDueOn(targetDate)
	if err != nil {
		return 0, fmt.Errorf("query portals due on %s: %w", targetDate.Format("2006-01-02"), err)
	}
	if len(portals) == 0 {
		return 0, nil
	}

	// Dedup: portals reminded within the window sit this run out.
	reminded, err := s.store.ReminderPortalIDsSince(now.Add(-ReminderDedupWindow))
	if err != nil {
		return 0, fmt.Errorf("query recent reminders: %w", err)
	}

	created := 0
	for _, portal := range portals {
		if _, ok := reminded[portal.ID]; ok {
			continue
		}

		n := models.Notification{
			UserID:   portal.CreatedBy,
			PortalID: portal.ID,
			Type:     models.NotificationDeadlineReminder,
			Message:  fmt.Sprintf("%q is due in %d days", portal.Name, ReminderHorizonDays),
			Link:     notify.PortalLink(portal.UUID),
		}
		if err := s.store.Create(&n); err != nil {
			fiberlog.Errorf("[Scheduler] reminder insert failed for portal %d: %v", portal.ID, err)
			continue
		}
		created++
	}

	return created, nil
}
