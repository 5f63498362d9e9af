package repositories

import (
	"context"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScriptRepo struct {
	pool *pgxpool.Pool
}

func NewScriptRepo(pool *pgxpool.Pool) *ScriptRepo {
	return &ScriptRepo{pool: pool}
}

func (r *ScriptRepo) Create(ctx context.Context, s *models.Script) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO scripts (profile_id, style_id, title, script_type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, s.ProfileID, s.StyleID, s.Title, s.ScriptType, s.Content,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *ScriptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	var s models.Script
	err := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, style_id, title, script_type, content, created_at, updated_at
		FROM scripts WHERE id = $1
	`, id).Scan(&s.ID, &s.ProfileID, &s.StyleID, &s.Title, &s.ScriptType,
		&s.Content, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScriptRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Script, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, style_id, title, script_type, content, created_at, updated_at
		FROM scripts WHERE profile_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scripts []models.Script
	for rows.Next() {
		var s models.Script
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.StyleID, &s.Title, &s.ScriptType,
			&s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func (r *ScriptRepo) Update(ctx context.Context, s *models.Script) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scripts SET title = $1, content = $2, updated_at = now()
		WHERE id = $3
	`, s.Title, s.Content, s.ID)
	return err
}

func (r *ScriptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM scripts WHERE id = $1`, id)
	return err
}
