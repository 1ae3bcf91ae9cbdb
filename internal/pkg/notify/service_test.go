package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientbridge/clientbridge/app/models"
)

type fakeNotificationRepo struct {
	rows   []models.Notification
	unread int64

	markReadCalls    [][2]uint
	markAllReadCalls []uint
	markByLinkCalls  []string
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error { return nil }

func (f *fakeNotificationRepo) ListByUser(userID uint, offset, limit int) ([]models.Notification, int64, error) {
	total := int64(len(f.rows))
	if offset >= len(f.rows) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], total, nil
}

func (f *fakeNotificationRepo) UnreadCount(userID uint) (int64, error) { return f.unread, nil }

func (f *fakeNotificationRepo) MarkRead(id, userID uint) error {
	f.markReadCalls = append(f.markReadCalls, [2]uint{id, userID})
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(userID uint) error {
	f.markAllReadCalls = append(f.markAllReadCalls, userID)
	return nil
}

func (f *fakeNotificationRepo) MarkReadByLink(userID uint, fragment string) error {
	f.markByLinkCalls = append(f.markByLinkCalls, fragment)
	return nil
}

func (f *fakeNotificationRepo) DeleteByUpdateLink(updateID uint) error { return nil }
func (f *fakeNotificationRepo) DeleteByID(id uint) error               { return nil }

func (f *fakeNotificationRepo) ListUpdateLinked() ([]models.Notification, error) { return nil, nil }

func (f *fakeNotificationRepo) ReminderPortalIDsSince(since time.Time) (map[uint]struct{}, error) {
	return nil, nil
}

func makeRows(n int) []models.Notification {
	rows := make([]models.Notification, n)
	for i := range rows {
		rows[i] = models.Notification{ID: uint(i + 1), UserID: 1, PortalID: 7, Type: models.NotificationNewUpdate}
	}
	return rows
}

func TestListPagination(t *testing.T) {
	repo := &fakeNotificationRepo{rows: makeRows(45), unread: 5}
	svc := NewService(repo)

	page1, err := svc.List(1, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page1.Notifications, 20)
	assert.Equal(t, int64(45), page1.Total)
	assert.Equal(t, int64(5), page1.UnreadCount)
	assert.True(t, page1.HasMore)

	page3, err := svc.List(1, 3, 20)
	require.NoError(t, err)
	assert.Len(t, page3.Notifications, 5)
	assert.False(t, page3.HasMore)
}

func TestListClampsPageAndLimit(t *testing.T) {
	repo := &fakeNotificationRepo{rows: makeRows(3)}
	svc := NewService(repo)

	result, err := svc.List(1, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, DefaultPageSize, result.Limit)

	result, err = svc.List(1, 1, 9999)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, result.Limit)
}

func TestListEmptyFeedReturnsEmptySlice(t *testing.T) {
	svc := NewService(&fakeNotificationRepo{})

	result, err := svc.List(1, 1, 20)
	require.NoError(t, err)
	require.NotNil(t, result.Notifications)
	assert.Len(t, result.Notifications, 0)
	assert.False(t, result.HasMore)
}

func TestMarkReadDelegates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.MarkRead(1, 42))
	require.Equal(t, [][2]uint{{42, 1}}, repo.markReadCalls)

	require.NoError(t, svc.MarkAllRead(1))
	require.Equal(t, []uint{1}, repo.markAllReadCalls)
}

func TestMarkByLinkSkipsEmptyFragment(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.MarkByLink(1, ""))
	assert.Empty(t, repo.markByLinkCalls)

	require.NoError(t, svc.MarkByLink(1, "/updates/12"))
	assert.Equal(t, []string{"/updates/12"}, repo.markByLinkCalls)
}
