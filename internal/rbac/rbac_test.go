package rbac

import (
	"testing"

	"github.com/bizcopilot/backend/internal/models"
)

func TestCanRunTool(t *testing.T) {
	tests := []struct {
		plan string
		tool string
		want bool
	}{
		{models.PlanFree, "competitor_research", true},
		{models.PlanFree, "ad_copy", true},
		{models.PlanFree, "campaign_strategy", false},
		{models.PlanPro, "campaign_strategy", true},
		{models.PlanAdmin, "campaign_strategy", true},
		{models.PlanFree, "unknown_tool", false},
		{"unknown_plan", "ad_copy", false},
	}

	for _, tt := range tests {
		if got := CanRunTool(tt.plan, tt.tool); got != tt.want {
			t.Errorf("CanRunTool(%q, %q) = %v, want %v", tt.plan, tt.tool, got, tt.want)
		}
	}
}

func TestBackgroundModeGating(t *testing.T) {
	if HasPermission(models.PlanFree, PermUseBackgroundMode) {
		t.Error("free plan should not have background mode")
	}
	if !HasPermission(models.PlanPro, PermUseBackgroundMode) {
		t.Error("pro plan should have background mode")
	}
}

func TestAdminOperations(t *testing.T) {
	for _, perm := range []string{PermManageTemplates, PermGrantCredits} {
		if !IsAdminOperation(perm) {
			t.Errorf("%s should be an admin operation", perm)
		}
		if HasPermission(models.PlanPro, perm) {
			t.Errorf("pro plan should not have %s", perm)
		}
		if !HasPermission(models.PlanAdmin, perm) {
			t.Errorf("admin plan should have %s", perm)
		}
	}
}

func TestEveryToolHasAPermission(t *testing.T) {
	for tool, perm := range ToolPermissions {
		if !HasPermission(models.PlanAdmin, perm) {
			t.Errorf("admin plan missing permission %s for tool %s", perm, tool)
		}
	}
}
