package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientbridge/clientbridge/app/models"
)

type fakeOrphanStore struct {
	rows       []models.Notification
	deleted    []uint
	failDelete map[uint]bool
}

func (f *fakeOrphanStore) ListUpdateLinked() ([]models.Notification, error) {
	return f.rows, nil
}

func (f *fakeOrphanStore) DeleteByID(id uint) error {
	if f.failDelete[id] {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUpdateSource struct {
	existing map[uint]bool
	errFor   map[uint]bool
}

func (f fakeUpdateSource) Exists(id uint) (bool, error) {
	if f.errFor[id] {
		return false, errors.New("lookup failed")
	}
	return f.existing[id], nil
}

func TestOrphanSweepRemovesDanglingNotifications(t *testing.T) {
	store := &fakeOrphanStore{rows: []models.Notification{
		{ID: 1, Link: "/portal/abc/updates/12"},
		{ID: 2, Link: "/portal/abc/updates/13"},
		{ID: 3, Link: "/portal/abc/updates/13#reply-4"},
	}}
	updates := fakeUpdateSource{existing: map[uint]bool{12: true}}
	s := NewOrphanSweep(store, updates)

	removed, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []uint{2, 3}, store.deleted, "only rows pointing at the deleted update go")
}

func TestOrphanSweepSkipsUnparsableLinks(t *testing.T) {
	store := &fakeOrphanStore{rows: []models.Notification{
		{ID: 1, Link: "/portal/abc"},
	}}
	s := NewOrphanSweep(store, fakeUpdateSource{})

	removed, err := s.Run()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, store.deleted)
}

func TestOrphanSweepIsolatesRowFailures(t *testing.T) {
	store := &fakeOrphanStore{
		rows: []models.Notification{
			{ID: 1, Link: "/portal/abc/updates/10"},
			{ID: 2, Link: "/portal/abc/updates/11"},
			{ID: 3, Link: "/portal/abc/updates/12"},
		},
		failDelete: map[uint]bool{2: true},
	}
	updates := fakeUpdateSource{errFor: map[uint]bool{10: true}}
	s := NewOrphanSweep(store, updates)

	removed, err := s.Run()
	require.NoError(t, err, "row-level failures never abort the sweep")
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uint{3}, store.deleted)
}
