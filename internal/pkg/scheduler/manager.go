package scheduler

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/clientbridge/clientbridge/internal/pkg/env"
)

// Manager manages the background sweeps: the daily deadline reminder run and
// the periodic orphaned-notification cleanup.
type Manager struct {
	reminder       *ReminderSweep
	orphan         *OrphanSweep
	reminderTicker *time.Ticker
	orphanTicker   *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	running        bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global scheduler manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Configure wires the sweeps before Start. Must be called once during boot.
func (m *Manager) Configure(reminder *ReminderSweep, orphan *OrphanSweep) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminder = reminder
	m.orphan = orphan
}

// Start starts the background sweep workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Scheduler] Starting background sweeps")

	// The reminder worker wakes every minute and fires once per day at the
	// configured hour, guarded by the Redis day lock.
	m.reminderTicker = time.NewTicker(time.Minute)
	m.wg.Add(1)
	go m.reminderWorker()

	orphanInterval := orphanSweepInterval()
	m.orphanTicker = time.NewTicker(orphanInterval)
	m.wg.Add(1)
	go m.orphanWorker()

	log.Infof("[Scheduler] Started (reminder hour: %02d:00, orphan sweep every %s)", reminderHour(), orphanInterval)
}

// Stop stops the background sweep workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Scheduler] Stopping background sweeps...")

	if m.reminderTicker != nil {
		m.reminderTicker.Stop()
	}
	if m.orphanTicker != nil {
		m.orphanTicker.Stop()
	}

	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	m.wg.Wait()

	log.Info("[Scheduler] Stopped successfully")
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunReminderSweepOnce exposes a manual trigger for a single reminder sweep (admin use).
func (m *Manager) RunReminderSweepOnce() (int, error) {
	return m.reminder.Run()
}

// RunOrphanSweepOnce exposes a manual trigger for a single orphan sweep (admin use).
func (m *Manager) RunOrphanSweepOnce() (int, error) {
	return m.orphan.Run()
}

func (m *Manager) reminderWorker() {
	defer m.wg.Done()
	hour := reminderHour()
	log.Infof("[Scheduler] Started reminder worker (fires daily at %02d:00)", hour)

	for {
		select {
		case <-m.stopCh:
			log.Info("[Scheduler] Reminder worker stopping")
			return
		case now := <-m.reminderTicker.C:
			if now.Hour() != hour {
				continue
			}
			if !acquireReminderDayLock(now) {
				continue
			}
			created, err := m.reminder.Run()
			if err != nil {
				log.Errorf("[Scheduler] Reminder sweep error: %v", err)
				continue
			}
			log.Infof("[Scheduler] Reminder sweep created %d notifications", created)
		}
	}
}

func (m *Manager) orphanWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[Scheduler] Orphan worker stopping")
			return
		case <-m.orphanTicker.C:
			removed, err := m.orphan.Run()
			if err != nil {
				log.Errorf("[Scheduler] Orphan sweep error: %v", err)
				continue
			}
			if removed > 0 {
				log.Infof("[Scheduler] Orphan sweep removed %d notifications", removed)
			}
		}
	}
}

func reminderHour() int {
	if v, err := strconv.Atoi(env.GetEnv("REMINDER_HOUR", "8")); err == nil && v >= 0 && v <= 23 {
		return v
	}
	return 8
}

func orphanSweepInterval() time.Duration {
	if v, err := strconv.Atoi(env.GetEnv("ORPHAN_SWEEP_INTERVAL_MINUTES", "60")); err == nil && v > 0 {
		return time.Duration(v) * time.Minute
	}
	return time.Hour
}
