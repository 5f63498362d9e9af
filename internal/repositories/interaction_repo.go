package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) Create(ctx context.Context, in *models.Interaction) error {
	params, err := json.Marshal(in.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO interactions (user_id, profile_id, agent, tool, status, background, params)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, in.UserID, in.ProfileID, in.Agent, in.Tool, in.Status, in.Background, params,
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
}

func (r *InteractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Interaction, error) {
	return r.scanOne(r.pool.QueryRow(ctx, selectInteraction+` WHERE id = $1`, id))
}

// GetByIDForUser scopes the lookup to the owner so one user cannot read
// another's runs.
func (r *InteractionRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Interaction, error) {
	return r.scanOne(r.pool.QueryRow(ctx, selectInteraction+` WHERE id = $1 AND user_id = $2`, id, userID))
}

type InteractionFilter struct {
	UserID    *uuid.UUID
	ProfileID *uuid.UUID
	Agent     string
	Status    string
	Limit     int
	Offset    int
}

func (r *InteractionRepo) List(ctx context.Context, f InteractionFilter) ([]models.Interaction, error) {
	query := selectInteraction
	args := []any{}
	conditions := []string{}
	argNum := 1

	if f.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argNum))
		args = append(args, *f.UserID)
		argNum++
	}
	if f.ProfileID != nil {
		conditions = append(conditions, fmt.Sprintf("profile_id = $%d", argNum))
		args = append(args, *f.ProfileID)
		argNum++
	}
	if f.Agent != "" {
		conditions = append(conditions, fmt.Sprintf("agent = $%d", argNum))
		args = append(args, f.Agent)
		argNum++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, f.Status)
		argNum++
	}
	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Interaction
	for rows.Next() {
		in, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *in)
	}
	return runs, nil
}

// Transition moves the run from one status to another, guarded by the
// status machine. Returns false when the run was not in the expected
// status (a racing worker already moved it).
func (r *InteractionRepo) Transition(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	if !models.IsValidRunTransition(from, to) {
		return false, fmt.Errorf("invalid run transition %s -> %s", from, to)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE interactions SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InteractionRepo) MarkStarted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE interactions SET started_at = now(), updated_at = now() WHERE id = $1
	`, id)
	return err
}

// SetRemoteJob records the provider-side job id for a background run.
func (r *InteractionRepo) SetRemoteJob(ctx context.Context, id uuid.UUID, remoteJobID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE interactions SET remote_job_id = $1, updated_at = now() WHERE id = $2
	`, remoteJobID, id)
	return err
}

// Complete stores the raw response, parsed result and charge, and moves
// the run to completed.
func (r *InteractionRepo) Complete(ctx context.Context, id uuid.UUID, rawResponse string, result any, creditsCharged int64) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE interactions
		SET status = $1, raw_response = $2, result = $3, credits_charged = $4,
		    finished_at = now(), updated_at = now()
		WHERE id = $5
	`, models.RunStatusCompleted, rawResponse, resultJSON, creditsCharged, id)
	return err
}

// Fail records the error and moves the run to failed. rawResponse may be
// empty when the call never returned a body.
func (r *InteractionRepo) Fail(ctx context.Context, id uuid.UUID, rawResponse, errMsg string) error {
	var raw *string
	if rawResponse != "" {
		raw = &rawResponse
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE interactions
		SET status = $1, raw_response = $2, error = $3, finished_at = now(), updated_at = now()
		WHERE id = $4
	`, models.RunStatusFailed, raw, errMsg, id)
	return err
}

// GetBackgroundPending returns background runs that still need polling,
// oldest first.
func (r *InteractionRepo) GetBackgroundPending(ctx context.Context, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, selectInteraction+`
		WHERE background = true AND status IN ($1, $2) AND remote_job_id IS NOT NULL
		ORDER BY created_at ASC LIMIT $3
	`, models.RunStatusSubmitted, models.RunStatusPolling, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Interaction
	for rows.Next() {
		in, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *in)
	}
	return runs, nil
}

// ExpireStale marks non-terminal runs older than maxAge as expired and
// returns how many were affected.
func (r *InteractionRepo) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE interactions SET status = $1, finished_at = now(), updated_at = now()
		WHERE status NOT IN ($2, $3, $4) AND created_at < now() - $5::interval
	`, models.RunStatusExpired, models.RunStatusCompleted, models.RunStatusFailed,
		models.RunStatusExpired, fmt.Sprintf("%d seconds", int(maxAge.Seconds())))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const selectInteraction = `
	SELECT id, user_id, profile_id, agent, tool, status, background, params,
	       raw_response, result, remote_job_id, credits_charged, error,
	       started_at, finished_at, created_at, updated_at
	FROM interactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *InteractionRepo) scanOne(row rowScanner) (*models.Interaction, error) {
	var in models.Interaction
	var params, result []byte
	err := row.Scan(&in.ID, &in.UserID, &in.ProfileID, &in.Agent, &in.Tool, &in.Status,
		&in.Background, &params, &in.RawResponse, &result, &in.RemoteJobID,
		&in.CreditsCharged, &in.Error, &in.StartedAt, &in.FinishedAt,
		&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &in.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &in.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return &in, nil
}
