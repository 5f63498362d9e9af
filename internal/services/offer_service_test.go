package services

import "testing"

func TestStatusFilter(t *testing.T) {
	if got := statusFilter(""); got != nil {
		t.Errorf("statusFilter(%q) = %v, want nil", "", *got)
	}
	if got := statusFilter("active"); got == nil || *got != "active" {
		t.Errorf("statusFilter(%q) = %v, want pointer to %q", "active", got, "active")
	}
}
