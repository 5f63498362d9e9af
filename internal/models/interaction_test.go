package models

import (
	"testing"

	"github.com/google/uuid"
)

func mustNewUUID() uuid.UUID { return uuid.New() }

func TestIsValidRunTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Synchronous happy path
		{RunStatusPending, RunStatusRunning, true},
		{RunStatusRunning, RunStatusCompleted, true},
		{RunStatusRunning, RunStatusFailed, true},

		// Background happy path
		{RunStatusPending, RunStatusSubmitted, true},
		{RunStatusSubmitted, RunStatusPolling, true},
		{RunStatusSubmitted, RunStatusCompleted, true},
		{RunStatusPolling, RunStatusCompleted, true},
		{RunStatusPolling, RunStatusFailed, true},

		// A poller claims a finished background job by moving it back
		// to running before recording the result
		{RunStatusSubmitted, RunStatusRunning, true},
		{RunStatusPolling, RunStatusRunning, true},

		// Validation failures before any work
		{RunStatusPending, RunStatusFailed, true},

		// Expiry from any non-terminal state
		{RunStatusPending, RunStatusExpired, true},
		{RunStatusRunning, RunStatusExpired, true},
		{RunStatusSubmitted, RunStatusExpired, true},
		{RunStatusPolling, RunStatusExpired, true},

		// Invalid transitions
		{RunStatusPending, RunStatusCompleted, false},
		{RunStatusPending, RunStatusPolling, false},
		{RunStatusRunning, RunStatusSubmitted, false},
		{RunStatusCompleted, RunStatusFailed, false},
		{RunStatusCompleted, RunStatusRunning, false},
		{RunStatusFailed, RunStatusRunning, false},
		{RunStatusExpired, RunStatusCompleted, false},
		{RunStatusPolling, RunStatusSubmitted, false},
		{"nonexistent", RunStatusRunning, false},
		{RunStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidRunTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidRunTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllRunStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		RunStatusPending, RunStatusRunning, RunStatusSubmitted,
		RunStatusPolling, RunStatusCompleted, RunStatusFailed, RunStatusExpired,
	}

	for _, status := range allStatuses {
		if _, ok := ValidRunTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidRunTransitions map", status)
		}
	}
}

func TestTerminalRunStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []string{RunStatusCompleted, RunStatusFailed, RunStatusExpired} {
		if !IsTerminalRunStatus(status) {
			t.Errorf("IsTerminalRunStatus(%q) = false, want true", status)
		}
		if transitions := ValidRunTransitions[status]; len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
	for _, status := range []string{RunStatusPending, RunStatusRunning, RunStatusSubmitted, RunStatusPolling} {
		if IsTerminalRunStatus(status) {
			t.Errorf("IsTerminalRunStatus(%q) = true, want false", status)
		}
	}
}

func TestAdHasSingleParent(t *testing.T) {
	offerID := mustNewUUID()
	campaignID := mustNewUUID()

	tests := []struct {
		name     string
		ad       Ad
		expected bool
	}{
		{"offer only", Ad{OfferID: &offerID}, true},
		{"campaign only", Ad{CampaignID: &campaignID}, true},
		{"both", Ad{OfferID: &offerID, CampaignID: &campaignID}, false},
		{"neither", Ad{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ad.HasSingleParent(); got != tt.expected {
				t.Errorf("HasSingleParent() = %v, want %v", got, tt.expected)
			}
		})
	}
}
