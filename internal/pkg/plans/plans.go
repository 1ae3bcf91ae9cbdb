package plans

import "strings"

type PlanID string

const (
	PlanFree   PlanID = "free"
	PlanPro    PlanID = "pro"
	PlanAgency PlanID = "agency"
)

type SupportLevel string

const (
	SupportCommunity SupportLevel = "community"
	SupportEmail     SupportLevel = "email"
	SupportPriority  SupportLevel = "priority"
)

// Tier bundles the limits and feature flags of one plan. A nil limit means
// unlimited and always passes entitlement checks regardless of usage.
type Tier struct {
	ID                      PlanID
	Name                    string
	MaxClients              *int64
	MaxStorageMB            *int64
	MaxFileSizeMB           *int64
	MaxFilesPerPortal       *int64
	MaxUpdatesPerPortal     *int64
	MaxTeamMembers          *int64
	CanCustomBrand          bool
	CanUseAPI               bool
	CanUseAdvancedAnalytics bool
	CanUseWhiteLabel        bool
	SupportLevel            SupportLevel
}

// Feature names accepted by Registry.HasFeature.
const (
	FeatureCustomBrand       = "custom_brand"
	FeatureAPI               = "api"
	FeatureAdvancedAnalytics = "advanced_analytics"
	FeatureWhiteLabel        = "white_label"
)

// Registry is the static plan table, loaded once per process and passed into
// the entitlement engine. Unknown plan ids resolve to the free tier.
type Registry struct {
	tiers map[PlanID]Tier
}

func limit(v int64) *int64 { return &v }

// DefaultRegistry returns the built-in plan table.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Tier{
			ID:                  PlanFree,
			Name:                "Free",
			MaxClients:          limit(3),
			MaxStorageMB:        limit(500),
			MaxFileSizeMB:       limit(10),
			MaxFilesPerPortal:   limit(20),
			MaxUpdatesPerPortal: limit(50),
			MaxTeamMembers:      limit(1),
			SupportLevel:        SupportCommunity,
		},
		Tier{
			ID:                  PlanPro,
			Name:                "Pro",
			MaxClients:          limit(25),
			MaxStorageMB:        limit(10240),
			MaxFileSizeMB:       limit(100),
			MaxFilesPerPortal:   limit(500),
			MaxUpdatesPerPortal: nil,
			MaxTeamMembers:      limit(3),
			CanCustomBrand:      true,
			CanUseAPI:           true,
			SupportLevel:        SupportEmail,
		},
		Tier{
			ID:                      PlanAgency,
			Name:                    "Agency",
			MaxClients:              nil,
			MaxStorageMB:            limit(102400),
			MaxFileSizeMB:           limit(500),
			MaxFilesPerPortal:       nil,
			MaxUpdatesPerPortal:     nil,
			MaxTeamMembers:          limit(15),
			CanCustomBrand:          true,
			CanUseAPI:               true,
			CanUseAdvancedAnalytics: true,
			CanUseWhiteLabel:        true,
			SupportLevel:            SupportPriority,
		},
	)
}

// NewRegistry builds a registry from explicit tiers. Tests use this to
// substitute custom plan tables.
func NewRegistry(tiers ...Tier) *Registry {
	m := make(map[PlanID]Tier, len(tiers))
	for _, t := range tiers {
		m[t.ID] = t
	}
	return &Registry{tiers: m}
}

// Get resolves a plan id to its tier, falling back to free for unknown ids.
func (r *Registry) Get(id PlanID) Tier {
	if t, ok := r.tiers[Normalize(string(id))]; ok {
		return t
	}
	return r.tiers[PlanFree]
}

// HasFeature reports whether the plan carries a named boolean feature flag.
func (r *Registry) HasFeature(id PlanID, feature string) bool {
	t := r.Get(id)
	switch feature {
	case FeatureCustomBrand:
		return t.CanCustomBrand
	case FeatureAPI:
		return t.CanUseAPI
	case FeatureAdvancedAnalytics:
		return t.CanUseAdvancedAnalytics
	case FeatureWhiteLabel:
		return t.CanUseWhiteLabel
	default:
		return false
	}
}

// Normalize maps arbitrary plan id spellings onto the known set.
func Normalize(plan string) PlanID {
	switch PlanID(strings.ToLower(strings.TrimSpace(plan))) {
	case PlanPro:
		return PlanPro
	case PlanAgency:
		return PlanAgency
	default:
		return PlanFree
	}
}

// Rank orders plans for billing reconciliation: free < pro < agency.
func Rank(plan PlanID) int {
	switch Normalize(string(plan)) {
	case PlanAgency:
		return 2
	case PlanPro:
		return 1
	default:
		return 0
	}
}
