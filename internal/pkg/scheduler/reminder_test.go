package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientbridge/clientbridge/app/models"
)

type fakeReminderPortals struct {
	portals    []models.Portal
	err        error
	queriedFor time.Time
}

func (f *fakeReminderPortals) ActiveDueOn(date time.Time) ([]models.Portal, error) {
	f.queriedFor = date
	return f.portals, f.err
}

type fakeReminderStore struct {
	reminded   map[uint]struct{}
	since      time.Time
	created    []models.Notification
	failFor    map[uint]bool
}

func (f *fakeReminderStore) ReminderPortalIDsSince(since time.Time) (map[uint]struct{}, error) {
	f.since = since
	if f.reminded == nil {
		return map[uint]struct{}{}, nil
	}
	return f.reminded, nil
}

func (f *fakeReminderStore) Create(n *models.Notification) error {
	if f.failFor[n.PortalID] {
		return errors.New("insert failed")
	}
	f.created = append(f.created, *n)
	return nil
}

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestReminderSweep(portals *fakeReminderPortals, store *fakeReminderStore) *ReminderSweep {
	s := NewReminderSweep(portals, store)
	s.now = func() time.Time { return testNow }
	return s
}

func TestReminderSweepNotifiesFreelancerOnly(t *testing.T) {
	portals := &fakeReminderPortals{portals: []models.Portal{
		{ID: 7, UUID: "portal-uuid", Name: "Website Redesign", CreatedBy: 1, ClientID: 2},
	}}
	store := &fakeReminderStore{}
	s := newTestReminderSweep(portals, store)

	created, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, store.created, 1)

	n := store.created[0]
	assert.Equal(t, uint(1), n.UserID, "the client is never reminded")
	assert.Equal(t, uint(7), n.PortalID)
	assert.Equal(t, models.NotificationDeadlineReminder, n.Type)
	assert.Equal(t, "/portal/portal-uuid", n.Link)
	assert.Contains(t, n.Message, "Website Redesign")
	assert.Contains(t, n.Message, "7 days")
}

func TestReminderSweepQueriesHorizonAndWindow(t *testing.T) {
	portals := &fakeReminderPortals{portals: []models.Portal{{ID: 7, CreatedBy: 1}}}
	store := &fakeReminderStore{}
	s := newTestReminderSweep(portals, store)

	_, err := s.Run()
	require.NoError(t, err)

	wantDate := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantDate, portals.queriedFor, "target date is today plus the horizon at date precision")
	assert.Equal(t, testNow.Add(-24*time.Hour), store.since)
}

func TestReminderSweepDedupsRecentReminders(t *testing.T) {
	portals := &fakeReminderPortals{portals: []models.Portal{
		{ID: 7, CreatedBy: 1},
		{ID: 8, CreatedBy: 1},
	}}
	store := &fakeReminderStore{reminded: map[uint]struct{}{7: {}}}
	s := newTestReminderSweep(portals, store)

	created, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, store.created, 1)
	assert.Equal(t, uint(8), store.created[0].PortalID)
}

func TestReminderSweepIsolatesFailedInserts(t *testing.T) {
	portals := &fakeReminderPortals{portals: []models.Portal{
		{ID: 1, CreatedBy: 10},
		{ID: 2, CreatedBy: 20},
		{ID: 3, CreatedBy: 30},
	}}
	store := &fakeReminderStore{failFor: map[uint]bool{2: true}}
	s := newTestReminderSweep(portals, store)

	created, err := s.Run()
	require.NoError(t, err, "a failed insert never aborts the sweep")
	assert.Equal(t, 2, created)
	require.Len(t, store.created, 2)
	assert.Equal(t, uint(1), store.created[0].PortalID)
	assert.Equal(t, uint(3), store.created[1].PortalID)
}

func TestReminderSweepNoCandidates(t *testing.T) {
	store := &fakeReminderStore{}
	s := newTestReminderSweep(&fakeReminderPortals{}, store)

	created, err := s.Run()
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, store.created)
}

func TestReminderSweepPortalQueryError(t *testing.T) {
	portals := &fakeReminderPortals{err: errors.New("db down")}
	s := newTestReminderSweep(portals, &fakeReminderStore{})

	_, err := s.Run()
	assert.Error(t, err)
}
