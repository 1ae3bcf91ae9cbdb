package scheduler

import (
	"fmt"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/clientbridge/clientbridge/internal/pkg/cache"
)

const reminderLockTTL = 48 * time.Hour

// acquireReminderDayLock claims the reminder run for the given day across
// process instances. When Redis is unreachable the lock degrades to allow:
// a duplicate run is bounded by the dedup window, a missed run is not.
func acquireReminderDayLock(day time.Time) bool {
	key := fmt.Sprintf("reminder:run:%s", day.Format("2006-01-02"))
	ok, err := cache.SetNX(key, 1, reminderLockTTL)
	if err != nil {
		fiberlog.Warnf("[Scheduler] reminder day lock unavailable, running anyway: %v", err)
		return true
	}
	return ok
}
