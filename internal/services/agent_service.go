package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bizcopilot/backend/internal/agents"
	"github.com/bizcopilot/backend/internal/config"
	"github.com/bizcopilot/backend/internal/events"
	"github.com/bizcopilot/backend/internal/llm"
	"github.com/bizcopilot/backend/internal/models"
	"github.com/bizcopilot/backend/internal/rbac"
	"github.com/bizcopilot/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrPlanForbidden       = errors.New("plan does not allow this tool")
	ErrInsufficientCredits = repositories.ErrInsufficientCredits
)

// AgentService runs agent tools end to end: permission and balance
// checks, the LLM call, result persistence, and metering.
type AgentService struct {
	registry        *agents.Registry
	llmClient       llm.Client
	userRepo        *repositories.UserRepo
	profileRepo     *repositories.ProfileRepo
	interactionRepo *repositories.InteractionRepo
	creditRepo      *repositories.CreditRepo
	auditRepo       *repositories.AuditRepo
	publisher       events.Publisher
	rdb             *redis.Client
	cfg             *config.Config
	log             *zap.Logger
}

func NewAgentService(
	registry *agents.Registry,
	llmClient llm.Client,
	userRepo *repositories.UserRepo,
	profileRepo *repositories.ProfileRepo,
	interactionRepo *repositories.InteractionRepo,
	creditRepo *repositories.CreditRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) *AgentService {
	return &AgentService{
		registry:        registry,
		llmClient:       llmClient,
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		interactionRepo: interactionRepo,
		creditRepo:      creditRepo,
		auditRepo:       auditRepo,
		publisher:       publisher,
		rdb:             rdb,
		cfg:             cfg,
		log:             log,
	}
}

// ListTools returns the tool catalog for a plan, marking which tools the
// plan may run.
type ToolCatalogEntry struct {
	agents.ToolInfo
	Allowed bool `json:"allowed"`
}

func (s *AgentService) ListTools(plan string) []ToolCatalogEntry {
	infos := s.registry.List()
	entries := make([]ToolCatalogEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, ToolCatalogEntry{
			ToolInfo: info,
			Allowed:  rbac.CanRunTool(plan, info.Name),
		})
	}
	return entries
}

// Run executes a tool for a user. Synchronous runs return a completed
// (or failed) interaction; background runs return a submitted one whose
// result arrives via polling.
func (s *AgentService) Run(ctx context.Context, userID uuid.UUID, toolName string, profileID *uuid.UUID, params map[string]any, background bool) (*models.Interaction, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	tool, ok := s.registry.Get(toolName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool %q", agents.ErrValidation, toolName)
	}
	if !rbac.CanRunTool(user.Plan, toolName) {
		return nil, fmt.Errorf("%w: %s", ErrPlanForbidden, toolName)
	}
	if background && !rbac.HasPermission(user.Plan, rbac.PermUseBackgroundMode) {
		return nil, fmt.Errorf("%w: background mode", ErrPlanForbidden)
	}

	if params == nil {
		params = map[string]any{}
	}
	if err := tool.Validate(params); err != nil {
		return nil, err
	}

	in := agents.RunInput{User: user, Params: params}
	if tool.RequiresProfile() {
		if profileID == nil {
			return nil, fmt.Errorf("%w: profile_id is required for %s", agents.ErrValidation, toolName)
		}
		profile, err := s.ownedProfile(ctx, *profileID, userID)
		if err != nil {
			return nil, err
		}
		in.Profile = profile
	}

	// Enrichment results are cached; a hit costs nothing.
	if toolName == "profile_enrich" && in.Profile != nil {
		if cached, ok := s.cachedEnrichment(ctx, in.Profile.ID); ok {
			return &models.Interaction{
				UserID:    userID,
				ProfileID: profileID,
				Agent:     tool.Agent(),
				Tool:      toolName,
				Status:    models.RunStatusCompleted,
				Params:    params,
				Result:    cached,
			}, nil
		}
	}

	// Balance is checked up front so a doomed run never reaches the
	// provider; the actual deduction happens after success.
	wallet, err := s.creditRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < tool.CreditCost() {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCredits, tool.CreditCost(), wallet.Balance)
	}

	var runProfileID *uuid.UUID
	if in.Profile != nil {
		id := in.Profile.ID
		runProfileID = &id
	}

	run := &models.Interaction{
		UserID:     userID,
		ProfileID:  runProfileID,
		Agent:      tool.Agent(),
		Tool:       toolName,
		Status:     models.RunStatusPending,
		Background: background,
		Params:     params,
	}
	if err := s.interactionRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	if background {
		return s.submitBackground(ctx, run, tool, in)
	}
	return s.runSync(ctx, run, tool, in)
}

func (s *AgentService) runSync(ctx context.Context, run *models.Interaction, tool agents.Tool, in agents.RunInput) (*models.Interaction, error) {
	if _, err := s.interactionRepo.Transition(ctx, run.ID, models.RunStatusPending, models.RunStatusRunning); err != nil {
		return nil, err
	}
	run.Status = models.RunStatusRunning
	_ = s.interactionRepo.MarkStarted(ctx, run.ID)

	system, user, err := tool.BuildPrompt(ctx, in)
	if err != nil {
		return s.failRun(ctx, run, "", err)
	}

	raw, err := s.llmClient.Complete(ctx, system, user)
	if err != nil {
		return s.failRun(ctx, run, "", fmt.Errorf("model call failed: %w", err))
	}

	return s.finishRun(ctx, run, tool, in, raw)
}

func (s *AgentService) submitBackground(ctx context.Context, run *models.Interaction, tool agents.Tool, in agents.RunInput) (*models.Interaction, error) {
	system, user, err := tool.BuildPrompt(ctx, in)
	if err != nil {
		return s.failRun(ctx, run, "", err)
	}

	jobID, err := s.llmClient.SubmitBackground(ctx, system, user)
	if err != nil {
		return s.failRun(ctx, run, "", fmt.Errorf("background submit failed: %w", err))
	}

	if err := s.interactionRepo.SetRemoteJob(ctx, run.ID, jobID); err != nil {
		return nil, err
	}
	if _, err := s.interactionRepo.Transition(ctx, run.ID, models.RunStatusPending, models.RunStatusSubmitted); err != nil {
		return nil, err
	}
	run.Status = models.RunStatusSubmitted
	run.RemoteJobID = &jobID

	if run.Tool == "profile_enrich" && in.Profile != nil {
		_ = s.profileRepo.UpdateStatus(ctx, in.Profile.ID, models.ProfileStatusEnriching)
	}

	s.log.Info("background run submitted",
		zap.String("run_id", run.ID.String()),
		zap.String("tool", run.Tool),
		zap.String("job_id", jobID),
	)
	return run, nil
}

// PollBackground checks the provider for a background run's result and
// finishes the run when the job is done. Safe to call repeatedly; a
// non-terminal job just moves submitted -> polling.
func (s *AgentService) PollBackground(ctx context.Context, run *models.Interaction) (*models.Interaction, error) {
	if !run.Background || run.RemoteJobID == nil || models.IsTerminalRunStatus(run.Status) {
		return run, nil
	}

	result, err := s.llmClient.FetchBackground(ctx, *run.RemoteJobID)
	if err != nil {
		s.log.Warn("background poll failed",
			zap.String("run_id", run.ID.String()), zap.Error(err))
		return run, nil // transient; the worker will try again
	}

	if !result.Done() {
		if run.Status == models.RunStatusSubmitted {
			if _, err := s.interactionRepo.Transition(ctx, run.ID, models.RunStatusSubmitted, models.RunStatusPolling); err == nil {
				run.Status = models.RunStatusPolling
			}
		}
		return run, nil
	}

	// The job is done. Claim it with a guarded transition so that the
	// worker and an API-triggered poll cannot both record the result
	// and charge the run.
	claimed, err := s.interactionRepo.Transition(ctx, run.ID, run.Status, models.RunStatusRunning)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.interactionRepo.GetByID(ctx, run.ID)
	}
	run.Status = models.RunStatusRunning

	if result.Status == llm.JobStatusFailed {
		return s.failRun(ctx, run, "", fmt.Errorf("background job failed: %s", result.Error))
	}

	tool, ok := s.registry.Get(run.Tool)
	if !ok {
		return s.failRun(ctx, run, result.Output, fmt.Errorf("tool %q no longer registered", run.Tool))
	}

	in, err := s.rebuildInput(ctx, run, tool)
	if err != nil {
		return s.failRun(ctx, run, result.Output, err)
	}
	return s.finishRun(ctx, run, tool, in, result.Output)
}

// finishRun parses and persists the model output, charges the run, and
// publishes the completion event.
func (s *AgentService) finishRun(ctx context.Context, run *models.Interaction, tool agents.Tool, in agents.RunInput, raw string) (*models.Interaction, error) {
	result, err := tool.HandleResult(ctx, in, raw)
	if err != nil {
		return s.failRun(ctx, run, raw, err)
	}

	toolName := run.Tool
	balance, err := s.creditRepo.Deduct(ctx, run.UserID, tool.CreditCost(), models.CreditReasonAgentRun, &toolName, &run.ID)
	if err != nil {
		// The work is done but could not be charged; fail the run so it
		// is visible instead of silently free.
		return s.failRun(ctx, run, raw, fmt.Errorf("charge failed: %w", err))
	}

	if err := s.interactionRepo.Complete(ctx, run.ID, raw, result, tool.CreditCost()); err != nil {
		return nil, err
	}
	run.Status = models.RunStatusCompleted
	run.Result = result
	run.RawResponse = &raw
	run.CreditsCharged = tool.CreditCost()

	if run.Tool == "profile_enrich" && in.Profile != nil {
		s.storeEnrichment(ctx, in.Profile.ID, result)
		_ = s.publisher.Publish(ctx, events.StreamAgent, events.Event{
			Type: events.EventProfileEnriched,
			Payload: map[string]any{
				"profile_id": in.Profile.ID.String(),
				"user_id":    run.UserID.String(),
			},
		})
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &run.UserID,
		ActorType:   "user",
		Action:      "agent_run_completed",
		EntityType:  "interaction",
		EntityID:    &run.ID,
		Meta:        map[string]any{"tool": run.Tool, "credits": tool.CreditCost()},
	})

	_ = s.publisher.Publish(ctx, events.StreamAgent, events.Event{
		Type: events.EventAgentRunCompleted,
		Payload: map[string]any{
			"run_id":  run.ID.String(),
			"user_id": run.UserID.String(),
			"tool":    run.Tool,
			"credits": tool.CreditCost(),
		},
	})

	if balance < s.cfg.LowBalanceThreshold {
		_ = s.publisher.Publish(ctx, events.StreamAgent, events.Event{
			Type: events.EventCreditsLow,
			Payload: map[string]any{
				"user_id": run.UserID.String(),
				"balance": balance,
			},
		})
	}

	s.log.Info("agent run completed",
		zap.String("run_id", run.ID.String()),
		zap.String("tool", run.Tool),
		zap.Int64("credits", tool.CreditCost()),
		zap.Int64("balance", balance),
	)
	return run, nil
}

// failRun records the failure. Failed runs are never charged. The run is
// returned with a nil error: the failure lives in the run itself.
func (s *AgentService) failRun(ctx context.Context, run *models.Interaction, raw string, cause error) (*models.Interaction, error) {
	// Validation problems before any work surface as plain errors.
	if errors.Is(cause, agents.ErrValidation) && run.Status == models.RunStatusPending {
		_ = s.interactionRepo.Fail(ctx, run.ID, raw, cause.Error())
		return nil, cause
	}

	if err := s.interactionRepo.Fail(ctx, run.ID, raw, cause.Error()); err != nil {
		s.log.Error("failed to record run failure", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
	msg := cause.Error()
	run.Status = models.RunStatusFailed
	run.Error = &msg

	if run.Tool == "profile_enrich" && run.ProfileID != nil {
		_ = s.profileRepo.ResetEnriching(ctx, *run.ProfileID)
	}

	_ = s.publisher.Publish(ctx, events.StreamAgent, events.Event{
		Type: events.EventAgentRunFailed,
		Payload: map[string]any{
			"run_id":  run.ID.String(),
			"user_id": run.UserID.String(),
			"tool":    run.Tool,
			"error":   msg,
		},
	})

	s.log.Warn("agent run failed",
		zap.String("run_id", run.ID.String()),
		zap.String("tool", run.Tool),
		zap.Error(cause),
	)
	return run, nil
}

// GetRun returns a run scoped to its owner. A background run that is
// still in flight gets an opportunistic poll so the API reflects the
// freshest state without waiting for the worker tick.
func (s *AgentService) GetRun(ctx context.Context, runID, userID uuid.UUID) (*models.Interaction, error) {
	run, err := s.interactionRepo.GetByIDForUser(ctx, runID, userID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, err
	}
	if run.Background && !models.IsTerminalRunStatus(run.Status) {
		return s.PollBackground(ctx, run)
	}
	return run, nil
}

func (s *AgentService) ListRuns(ctx context.Context, f repositories.InteractionFilter) ([]models.Interaction, error) {
	return s.interactionRepo.List(ctx, f)
}

// --- helpers ---

func (s *AgentService) ownedProfile(ctx context.Context, profileID, userID uuid.UUID) (*models.BusinessProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, fmt.Errorf("profile not found")
	}
	return profile, nil
}

// rebuildInput reloads the run's user and profile for background
// completion, where the original request context is long gone.
func (s *AgentService) rebuildInput(ctx context.Context, run *models.Interaction, tool agents.Tool) (agents.RunInput, error) {
	user, err := s.userRepo.GetByID(ctx, run.UserID)
	if err != nil {
		return agents.RunInput{}, fmt.Errorf("get user: %w", err)
	}
	in := agents.RunInput{User: user, Params: run.Params}
	if tool.RequiresProfile() {
		if run.ProfileID == nil {
			return agents.RunInput{}, fmt.Errorf("run has no profile")
		}
		profile, err := s.ownedProfile(ctx, *run.ProfileID, run.UserID)
		if err != nil {
			return agents.RunInput{}, err
		}
		in.Profile = profile
	}
	return in, nil
}

func (s *AgentService) cachedEnrichment(ctx context.Context, profileID uuid.UUID) (any, bool) {
	data, err := s.rdb.Get(ctx, enrichCacheKey(profileID)).Result()
	if err != nil {
		return nil, false
	}
	var result any
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false
	}
	return result, true
}

func (s *AgentService) storeEnrichment(ctx context.Context, profileID uuid.UUID, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := s.cfg.EnrichCacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.rdb.Set(ctx, enrichCacheKey(profileID), data, ttl).Err(); err != nil {
		s.log.Warn("enrichment cache store failed",
			zap.String("profile_id", profileID.String()), zap.Error(err))
	}
}
