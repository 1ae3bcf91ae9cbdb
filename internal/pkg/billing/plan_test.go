package billing

import (
	"testing"

	"github.com/clientbridge/clientbridge/internal/pkg/plans"
)

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want plans.PlanID
	}{
		{in: "free", want: plans.PlanFree},
		{in: "pro", want: plans.PlanPro},
		{in: "agency", want: plans.PlanAgency},
		{in: "AGENCY", want: plans.PlanAgency},
		{in: " pro ", want: plans.PlanPro},
		{in: "invalid", want: plans.PlanFree},
		{in: "", want: plans.PlanFree},
	}

	for _, tt := range tests {
		if got := normalizePlan(tt.in); got != tt.want {
			t.Fatalf("normalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsEntitlingStatus(t *testing.T) {
	for _, status := range []string{"active", "trialing", "past_due", "ACTIVE"} {
		if !isEntitlingStatus(status) {
			t.Fatalf("expected status %q to be entitling", status)
		}
	}
	for _, status := range []string{"canceled", "incomplete", "expired", "paused", ""} {
		if isEntitlingStatus(status) {
			t.Fatalf("expected status %q to be non-entitling", status)
		}
	}
}
