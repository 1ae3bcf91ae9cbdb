package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

type fakeSubs struct {
	plans map[uint]plans.PlanID
}

func (f fakeSubs) CurrentPlanID(userID uint) (plans.PlanID, error) {
	if id, ok := f.plans[userID]; ok {
		return id, nil
	}
	return plans.PlanFree, nil
}

type fakePortals struct {
	owners map[uint]uint
}

func (f fakePortals) PortalOwner(portalID uint) (uint, error) {
	return f.owners[portalID], nil
}

type fakeUsage struct {
	portalsByOwner  int64
	storageByOwner  int64
	filesByPortal   int64
	updatesByPortal int64
}

func (f fakeUsage) PortalCountByOwner(userID uint) (int64, error)  { return f.portalsByOwner, nil }
func (f fakeUsage) StorageBytesByOwner(userID uint) (int64, error) { return f.storageByOwner, nil }
func (f fakeUsage) FileCountByPortal(portalID uint) (int64, error) { return f.filesByPortal, nil }
func (f fakeUsage) UpdateCountByPortal(portalID uint) (int64, error) {
	return f.updatesByPortal, nil
}

func newTestEngine(subs fakeSubs, portals fakePortals, usage fakeUsage) *Engine {
	return NewEngine(plans.DefaultRegistry(), subs, portals, usage)
}

func TestCanCreatePortalBoundary(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree}}

	// Free allows 3 portals: 2 existing passes, 3 existing denies.
	e := newTestEngine(subs, fakePortals{}, fakeUsage{portalsByOwner: 2})
	res, err := e.CanCreatePortal(1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	e = newTestEngine(subs, fakePortals{}, fakeUsage{portalsByOwner: 3})
	res, err = e.CanCreatePortal(1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.True(t, res.UpgradeRequired)
	assert.NotEmpty(t, res.Reason)
}

func TestCanCreatePortalUnlimited(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanAgency}}
	e := newTestEngine(subs, fakePortals{}, fakeUsage{portalsByOwner: 10000})

	res, err := e.CanCreatePortal(1)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "agency has no client limit")
}

func TestCanUploadFilesSizeBoundary(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree}}
	e := newTestEngine(subs, fakePortals{}, fakeUsage{})

	// Free caps single files at 10 MB. Exactly at the limit passes.
	res, err := e.CanUploadFiles(1, 10*1024*1024)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = e.CanUploadFiles(1, 10*1024*1024+1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.True(t, res.UpgradeRequired)
}

func TestCanUploadFilesToPortalResolvesOwnerPlan(t *testing.T) {
	// User 2 (a client, free plan) uploads into portal 7 owned by user 1 (pro).
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanPro}}
	portals := fakePortals{owners: map[uint]uint{7: 1}}
	e := newTestEngine(subs, portals, fakeUsage{})

	// 50 MB exceeds the client's own free cap but fits the owner's pro cap.
	res, err := e.CanUploadFilesToPortal(2, 50*1024*1024, 7)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "limits resolve through the portal owner, not the uploader")
}

func TestCanUploadFilesToPortalFileCountLimit(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree}}
	portals := fakePortals{owners: map[uint]uint{7: 1}}

	e := newTestEngine(subs, portals, fakeUsage{filesByPortal: 20})
	res, err := e.CanUploadFilesToPortal(1, 1024, 7)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "free caps a portal at 20 files")

	e = newTestEngine(subs, portals, fakeUsage{filesByPortal: 19})
	res, err = e.CanUploadFilesToPortal(1, 1024, 7)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanUploadFilesToPortalStorageQuota(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree}}
	portals := fakePortals{owners: map[uint]uint{7: 1}}

	// Free quota is 500 MB. One byte over denies, exactly full allows.
	used := int64(499 * 1024 * 1024)
	e := newTestEngine(subs, portals, fakeUsage{storageByOwner: used})

	res, err := e.CanUploadFilesToPortal(1, 1024*1024, 7)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = e.CanUploadFilesToPortal(1, 1024*1024+1, 7)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestCanAddUpdateUsesOwnerLimit(t *testing.T) {
	// Portal 7 owned by free-plan user 1; pro-plan user 2 posts into it.
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree, 2: plans.PlanPro}}
	portals := fakePortals{owners: map[uint]uint{7: 1}}

	e := newTestEngine(subs, portals, fakeUsage{updatesByPortal: 50})
	res, err := e.CanAddUpdate(2, 7)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "the owner's free limit of 50 updates applies to everyone")

	e = newTestEngine(subs, portals, fakeUsage{updatesByPortal: 49})
	res, err = e.CanAddUpdate(2, 7)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanUseFeature(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanFree, 2: plans.PlanPro}}
	e := newTestEngine(subs, fakePortals{}, fakeUsage{})

	res, err := e.CanUseFeature(1, plans.FeatureAPI)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.True(t, res.UpgradeRequired)

	res, err = e.CanUseFeature(2, plans.FeatureAPI)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestUnknownPlanFallsBackToFree(t *testing.T) {
	subs := fakeSubs{plans: map[uint]plans.PlanID{1: plans.PlanID("legacy_gold")}}
	e := newTestEngine(subs, fakePortals{}, fakeUsage{portalsByOwner: 3})

	res, err := e.CanCreatePortal(1)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "unknown plan ids enforce free limits")
}
