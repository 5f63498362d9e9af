package events

import "context"

// Stream names
const (
	StreamAgent = "events:agent"
)

// Event types
const (
	EventAgentRunCompleted = "agent_run_completed"
	EventAgentRunFailed    = "agent_run_failed"
	EventProfileEnriched   = "profile_enriched"
	EventPaymentReceived   = "payment_received"
	EventCreditsLow        = "credits_low"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
