package entitlements

import (
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

// Result is the structured answer of an entitlement check. Denials are data,
// not errors: an error return means the check itself could not run.
type Result struct {
	Allowed         bool   `json:"allowed"`
	Reason          string `json:"reason,omitempty"`
	UpgradeRequired bool   `json:"upgradeRequired,omitempty"`
}

func allow() Result {
	return Result{Allowed: true}
}

func deny(reason string) Result {
	return Result{Allowed: false, Reason: reason, UpgradeRequired: true}
}

// SubscriptionSource resolves a user's current plan id. Users without a
// current subscription row resolve to the free plan.
type SubscriptionSource interface {
	CurrentPlanID(userID uint) (plans.PlanID, error)
}

// PortalOwnerSource resolves a portal to its owning freelancer. Entitlement
// travels with the portal: checks on actions inside a portal resolve through
// the owner, never the acting party.
type PortalOwnerSource interface {
	PortalOwner(portalID uint) (uint, error)
}

// UsageSource computes live usage aggregates. Values are recomputed on every
// check so they always reflect committed state.
type UsageSource interface {
	PortalCountByOwner(userID uint) (int64, error)
	StorageBytesByOwner(userID uint) (int64, error)
	FileCountByPortal(portalID uint) (int64, error)
	UpdateCountByPortal(portalID uint) (int64, error)
}

const bytesPerMB = int64(1024 * 1024)

// Engine answers "is action X allowed" for a user against the plan registry
// and live usage. It is a pure read: it neither locks nor reserves capacity,
// so two concurrent requests can both pass a count check before either
// commits. That soft-limit race is accepted; callers that need strict
// enforcement must serialize around the subsequent write themselves.
type Engine struct {
	registry *plans.Registry
	subs     SubscriptionSource
	portals  PortalOwnerSource
	usage    UsageSource
}

func NewEngine(registry *plans.Registry, subs SubscriptionSource, portals PortalOwnerSource, usage UsageSource) *Engine {
	return &Engine{registry: registry, subs: subs, portals: portals, usage: usage}
}

// PlanFor resolves the current tier for a user.
func (e *Engine) PlanFor(userID uint) (plans.Tier, error) {
	planID, err := e.subs.CurrentPlanID(userID)
	if err != nil {
		return plans.Tier{}, fmt.Errorf("resolve plan for user %d: %w", userID, err)
	}
	return e.registry.Get(planID), nil
}

// CanCreatePortal checks the owned-portal count against MaxClients.
func (e *Engine) CanCreatePortal(userID uint) (Result, error) {
	tier, err := e.PlanFor(userID)
	if err != nil {
		return Result{}, err
	}
	if tier.MaxClients == nil {
		return allow(), nil
	}

	count, err := e.usage.PortalCountByOwner(userID)
	if err != nil {
		return Result{}, fmt.Errorf("count portals for user %d: %w", userID, err)
	}
	if count >= *tier.MaxClients {
		return deny(fmt.Sprintf("Your %s plan allows up to %d client portals.", tier.Name, *tier.MaxClients)), nil
	}
	return allow(), nil
}

// CanUploadFiles checks a single file size against the user's own plan cap.
// Cumulative storage is not considered here; that belongs to the per-portal
// check below.
func (e *Engine) CanUploadFiles(userID uint, sizeBytes int64) (Result, error) {
	tier, err := e.PlanFor(userID)
	if err != nil {
		return Result{}, err
	}
	return checkFileSize(tier, sizeBytes), nil
}

// CanUploadFilesToPortal checks an upload into a specific portal against the
// PORTAL OWNER's plan, not the uploader's. A client posting into a
// freelancer's portal has no subscription of their own; all limits resolve
// through portal.created_by. Enforces the single-file cap, the per-portal
// file count and the owner's aggregate storage quota.
func (e *Engine) CanUploadFilesToPortal(uploaderID uint, sizeBytes int64, portalID uint) (Result, error) {
	ownerID, err := e.portals.PortalOwner(portalID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve owner of portal %d: %w", portalID, err)
	}
	tier, err := e.PlanFor(ownerID)
	if err != nil {
		return Result{}, err
	}

	if res := checkFileSize(tier, sizeBytes); !res.Allowed {
		fiberlog.Debugf("[Entitlements] upload by user %d into portal %d denied: %s", uploaderID, portalID, res.Reason)
		return res, nil
	}

	if tier.MaxFilesPerPortal != nil {
		count, err := e.usage.FileCountByPortal(portalID)
		if err != nil {
			return Result{}, fmt.Errorf("count files in portal %d: %w", portalID, err)
		}
		if count >= *tier.MaxFilesPerPortal {
			return deny(fmt.Sprintf("This portal has reached its limit of %d files.", *tier.MaxFilesPerPortal)), nil
		}
	}

	if tier.MaxStorageMB != nil {
		used, err := e.usage.StorageBytesByOwner(ownerID)
		if err != nil {
			return Result{}, fmt.Errorf("sum storage for user %d: %w", ownerID, err)
		}
		if used+sizeBytes > *tier.MaxStorageMB*bytesPerMB {
			return deny(fmt.Sprintf("The %s plan storage limit of %d MB has been reached.", tier.Name, *tier.MaxStorageMB)), nil
		}
	}

	return allow(), nil
}

// CanAddUpdate checks the update count of a portal against the portal
// owner's MaxUpdatesPerPortal. Same cross-tenant rule as file uploads.
func (e *Engine) CanAddUpdate(userID uint, portalID uint) (Result, error) {
	_ = userID
	ownerID, err := e.portals.PortalOwner(portalID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve owner of portal %d: %w", portalID, err)
	}
	tier, err := e.PlanFor(ownerID)
	if err != nil {
		return Result{}, err
	}
	if tier.MaxUpdatesPerPortal == nil {
		return allow(), nil
	}

	count, err := e.usage.UpdateCountByPortal(portalID)
	if err != nil {
		return Result{}, fmt.Errorf("count updates in portal %d: %w", portalID, err)
	}
	if count >= *tier.MaxUpdatesPerPortal {
		return deny(fmt.Sprintf("This portal has reached its limit of %d updates.", *tier.MaxUpdatesPerPortal)), nil
	}
	return allow(), nil
}

// CanUseFeature checks a boolean plan feature flag for the user's own plan.
func (e *Engine) CanUseFeature(userID uint, feature string) (Result, error) {
	tier, err := e.PlanFor(userID)
	if err != nil {
		return Result{}, err
	}
	if e.registry.HasFeature(tier.ID, feature) {
		return allow(), nil
	}
	return deny(fmt.Sprintf("The %s plan does not include %s.", tier.Name, feature)), nil
}

func checkFileSize(tier plans.Tier, sizeBytes int64) Result {
	if tier.MaxFileSizeMB == nil {
		return allow()
	}
	if sizeBytes > *tier.MaxFileSizeMB*bytesPerMB {
		return deny(fmt.Sprintf("Files on the %s plan can be at most %d MB.", tier.Name, *tier.MaxFileSizeMB))
	}
	return allow()
}
