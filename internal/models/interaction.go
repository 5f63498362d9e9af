package models

import (
	"time"

	"github.com/google/uuid"
)

// Interaction (agent run) statuses
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusSubmitted = "submitted" // background: remote job created
	RunStatusPolling   = "polling"   // background: remote job checked at least once
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusExpired   = "expired"
)

// Valid run status transitions: from -> []to. A background run whose
// remote job finished moves back to running first; that claim is what
// keeps concurrent pollers from recording the same result twice.
// Pending runs that fail validation go straight to failed.
var ValidRunTransitions = map[string][]string{
	RunStatusPending:   {RunStatusRunning, RunStatusSubmitted, RunStatusFailed, RunStatusExpired},
	RunStatusRunning:   {RunStatusCompleted, RunStatusFailed, RunStatusExpired},
	RunStatusSubmitted: {RunStatusRunning, RunStatusPolling, RunStatusCompleted, RunStatusFailed, RunStatusExpired},
	RunStatusPolling:   {RunStatusRunning, RunStatusCompleted, RunStatusFailed, RunStatusExpired},
	RunStatusCompleted: {},
	RunStatusFailed:    {},
	RunStatusExpired:   {},
}

func IsValidRunTransition(from, to string) bool {
	allowed, ok := ValidRunTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminalRunStatus(status string) bool {
	return status == RunStatusCompleted || status == RunStatusFailed || status == RunStatusExpired
}

// Interaction is a single agent run: the request params, the raw LLM
// response, the parsed result, and the credit charge.
type Interaction struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	ProfileID      *uuid.UUID     `json:"profile_id,omitempty"`
	Agent          string         `json:"agent"`
	Tool           string         `json:"tool"`
	Status         string         `json:"status"`
	Background     bool           `json:"background"`
	Params         map[string]any `json:"params,omitempty"`
	RawResponse    *string        `json:"raw_response,omitempty"`
	Result         any            `json:"result,omitempty"`
	RemoteJobID    *string        `json:"remote_job_id,omitempty"`
	CreditsCharged int64          `json:"credits_charged"`
	Error          *string        `json:"error,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
