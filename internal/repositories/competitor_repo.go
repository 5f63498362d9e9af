package repositories

import (
	"context"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompetitorRepo struct {
	pool *pgxpool.Pool
}

func NewCompetitorRepo(pool *pgxpool.Pool) *CompetitorRepo {
	return &CompetitorRepo{pool: pool}
}

// Upsert inserts a competitor or refreshes an existing one matched by
// (profile_id, name). Repeat research runs update rather than duplicate.
func (r *CompetitorRepo) Upsert(ctx context.Context, c *models.Competitor) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO competitors (profile_id, name, website, summary, strengths, weaknesses, differentiators, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (profile_id, name) DO UPDATE SET
			website = COALESCE(EXCLUDED.website, competitors.website),
			summary = EXCLUDED.summary,
			strengths = EXCLUDED.strengths,
			weaknesses = EXCLUDED.weaknesses,
			differentiators = EXCLUDED.differentiators,
			source = EXCLUDED.source,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, c.ProfileID, c.Name, c.Website, c.Summary, c.Strengths,
		c.Weaknesses, c.Differentiators, c.Source,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompetitorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Competitor, error) {
	var c models.Competitor
	err := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, name, website, summary, strengths, weaknesses,
		       differentiators, source, created_at, updated_at
		FROM competitors WHERE id = $1
	`, id).Scan(&c.ID, &c.ProfileID, &c.Name, &c.Website, &c.Summary,
		&c.Strengths, &c.Weaknesses, &c.Differentiators, &c.Source,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompetitorRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Competitor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, name, website, summary, strengths, weaknesses,
		       differentiators, source, created_at, updated_at
		FROM competitors WHERE profile_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.Website, &c.Summary,
			&c.Strengths, &c.Weaknesses, &c.Differentiators, &c.Source,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}

// ListStaleWithWebsite returns competitors whose records have not been
// refreshed within the given interval and that have a website to re-scrape.
func (r *CompetitorRepo) ListStaleWithWebsite(ctx context.Context, interval string, limit int) ([]models.Competitor, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, name, website, summary, strengths, weaknesses,
		       differentiators, source, created_at, updated_at
		FROM competitors
		WHERE website IS NOT NULL AND updated_at < now() - $1::interval
		ORDER BY updated_at ASC LIMIT $2
	`, interval, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.Website, &c.Summary,
			&c.Strengths, &c.Weaknesses, &c.Differentiators, &c.Source,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}

// Update rewrites the editable fields of a competitor record.
func (r *CompetitorRepo) Update(ctx context.Context, c *models.Competitor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE competitors SET
			name = $1, website = $2, summary = $3, strengths = $4,
			weaknesses = $5, differentiators = $6, updated_at = now()
		WHERE id = $7
	`, c.Name, c.Website, c.Summary, c.Strengths, c.Weaknesses,
		c.Differentiators, c.ID)
	return err
}

// TouchSummary stores a fresh scrape of the competitor's site. The LLM
// analysis columns stay untouched; the record is marked scrape-sourced.
func (r *CompetitorRepo) TouchSummary(ctx context.Context, id uuid.UUID, summary string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE competitors SET summary = $1, source = $2, updated_at = now() WHERE id = $3
	`, summary, models.CompetitorSourceScrape, id)
	return err
}

func (r *CompetitorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM competitors WHERE id = $1`, id)
	return err
}
