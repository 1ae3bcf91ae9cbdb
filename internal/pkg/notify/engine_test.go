package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clientbridge/clientbridge/app/models"
)

type fakePortalSource struct {
	portals map[uint]*models.Portal
}

func (f fakePortalSource) GetByID(id uint) (*models.Portal, error) {
	if p, ok := f.portals[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUserSource struct {
	users map[uint]*models.User
}

func (f fakeUserSource) GetByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestNotifyEngine() *Engine {
	portals := fakePortalSource{portals: map[uint]*models.Portal{
		7: {ID: 7, UUID: "portal-uuid", Name: "Website Redesign", CreatedBy: 1, ClientID: 2},
	}}
	users := fakeUserSource{users: map[uint]*models.User{
		1: {ID: 1, Name: "Freya"},
		2: {ID: 2, Name: "Carl"},
	}}
	return NewEngine(portals, users)
}

func TestComposeExcludesActor(t *testing.T) {
	e := newTestNotifyEngine()

	// Owner acts: only the client is notified.
	rows, err := e.Compose(7, 1, models.ActivityUpdateCreated, Meta{"update_id": uint(12), "update_title": "Sprint 3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].UserID)

	// Client acts: only the owner is notified.
	rows, err = e.Compose(7, 2, models.ActivityReplyCreated, Meta{"update_id": uint(12), "reply_id": uint(3)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].UserID)
}

func TestComposeUnmappedActivityProducesNothing(t *testing.T) {
	e := newTestNotifyEngine()

	rows, err := e.Compose(7, 1, models.ActivityPortalCreated, nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestComposeMessageAndLink(t *testing.T) {
	e := newTestNotifyEngine()

	rows, err := e.Compose(7, 1, models.ActivityUpdateCreated, Meta{"update_id": uint(12), "update_title": "Sprint 3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, models.NotificationNewUpdate, rows[0].Type)
	assert.Contains(t, rows[0].Message, "Freya")
	assert.Contains(t, rows[0].Message, "Sprint 3")
	assert.Equal(t, "/portal/portal-uuid/updates/12", rows[0].Link)
	assert.Equal(t, uint(7), rows[0].PortalID)
	assert.False(t, rows[0].IsRead)
}

func TestComposeReplyLinkCarriesAnchor(t *testing.T) {
	e := newTestNotifyEngine()

	rows, err := e.Compose(7, 2, models.ActivityReplyCreated, Meta{"update_id": uint(12), "update_title": "Sprint 3", "reply_id": uint(5)})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, models.NotificationNewComment, rows[0].Type)
	assert.Equal(t, "/portal/portal-uuid/updates/12#reply-5", rows[0].Link)
}

func TestComposeFallbackWithoutMeta(t *testing.T) {
	e := newTestNotifyEngine()

	rows, err := e.Compose(7, 1, models.ActivityFileUploaded, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, models.NotificationNewFile, rows[0].Type)
	assert.Contains(t, rows[0].Message, "Website Redesign")
	assert.Equal(t, "/portal/portal-uuid/files", rows[0].Link)
}

func TestComposeMissingPortalErrors(t *testing.T) {
	e := newTestNotifyEngine()

	_, err := e.Compose(99, 1, models.ActivityUpdateCreated, nil)
	assert.Error(t, err)
}
