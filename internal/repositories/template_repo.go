package repositories

import (
	"context"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

// GetActive returns the active template for key, or nil when none exists
// and the compiled-in default should be used.
func (r *TemplateRepo) GetActive(ctx context.Context, key string) (*models.PromptTemplate, error) {
	var t models.PromptTemplate
	err := r.pool.QueryRow(ctx, `
		SELECT id, key, description, body, version, is_active, created_at, updated_at
		FROM prompt_templates
		WHERE key = $1 AND is_active = true
		ORDER BY version DESC LIMIT 1
	`, key).Scan(&t.ID, &t.Key, &t.Description, &t.Body, &t.Version,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepo) List(ctx context.Context) ([]models.PromptTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, key, description, body, version, is_active, created_at, updated_at
		FROM prompt_templates
		ORDER BY key, version DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.PromptTemplate
	for rows.Next() {
		var t models.PromptTemplate
		if err := rows.Scan(&t.ID, &t.Key, &t.Description, &t.Body, &t.Version,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// Upsert stores a new version of the template for key and deactivates the
// previous versions.
func (r *TemplateRepo) Upsert(ctx context.Context, t *models.PromptTemplate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE prompt_templates SET is_active = false, updated_at = now()
		WHERE key = $1 AND is_active = true
	`, t.Key); err != nil {
		return err
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO prompt_templates (key, description, body, version, is_active)
		VALUES ($1, $2, $3,
			COALESCE((SELECT MAX(version) FROM prompt_templates WHERE key = $1), 0) + 1,
			true)
		RETURNING id, version, created_at, updated_at
	`, t.Key, t.Description, t.Body).Scan(&t.ID, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	t.IsActive = true
	return tx.Commit(ctx)
}
