package billing

import (
	"strings"

	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

func normalizePlan(plan string) plans.PlanID {
	return plans.Normalize(plan)
}

// isEntitlingStatus reports whether a provider subscription status grants
// paid-plan entitlements. Grace states keep the plan; terminal states drop it.
func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}
