package llm

import "context"

// Background job states as reported by the provider.
const (
	JobStatusQueued     = "queued"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// BackgroundResult is the state of a provider-side background job.
type BackgroundResult struct {
	Status string
	Output string // completion text, set when Status is completed
	Error  string // provider error message, set when Status is failed
}

// Done reports whether the job reached a terminal state.
func (r *BackgroundResult) Done() bool {
	return r.Status == JobStatusCompleted || r.Status == JobStatusFailed
}

// Client is a text completion provider. Complete blocks until the model
// responds; SubmitBackground enqueues a provider-side job whose result
// is retrieved later with FetchBackground.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	SubmitBackground(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	FetchBackground(ctx context.Context, jobID string) (*BackgroundResult, error)
}
