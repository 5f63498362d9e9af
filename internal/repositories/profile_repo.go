package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, p *models.BusinessProfile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO business_profiles (user_id, name, website, industry, description,
			target_audience, tone_of_voice, unique_selling_points, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Name, p.Website, p.Industry, p.Description,
		p.TargetAudience, p.ToneOfVoice, p.UniqueSellingPoints, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessProfile, error) {
	var p models.BusinessProfile
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, website, industry, description, target_audience,
		       tone_of_voice, unique_selling_points, status, enriched_at, created_at, updated_at
		FROM business_profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Name, &p.Website, &p.Industry, &p.Description,
		&p.TargetAudience, &p.ToneOfVoice, &p.UniqueSellingPoints, &p.Status,
		&p.EnrichedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BusinessProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, website, industry, description, target_audience,
		       tone_of_voice, unique_selling_points, status, enriched_at, created_at, updated_at
		FROM business_profiles WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.BusinessProfile
	for rows.Next() {
		var p models.BusinessProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Website, &p.Industry, &p.Description,
			&p.TargetAudience, &p.ToneOfVoice, &p.UniqueSellingPoints, &p.Status,
			&p.EnrichedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.BusinessProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE business_profiles SET name = $1, website = $2, industry = $3,
		       description = $4, target_audience = $5, tone_of_voice = $6,
		       unique_selling_points = $7, status = $8, updated_at = now()
		WHERE id = $9
	`, p.Name, p.Website, p.Industry, p.Description, p.TargetAudience,
		p.ToneOfVoice, p.UniqueSellingPoints, p.Status, p.ID)
	return err
}

// MarkEnriched persists LLM-filled fields and flips the profile to ready.
func (r *ProfileRepo) MarkEnriched(ctx context.Context, p *models.BusinessProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE business_profiles SET industry = $1, description = $2,
		       target_audience = $3, tone_of_voice = $4, unique_selling_points = $5,
		       status = $6, enriched_at = now(), updated_at = now()
		WHERE id = $7
	`, p.Industry, p.Description, p.TargetAudience, p.ToneOfVoice,
		p.UniqueSellingPoints, models.ProfileStatusReady, p.ID)
	return err
}

func (r *ProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE business_profiles SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// ResetEnriching drops a profile back to draft, but only if an
// enrichment is the thing that moved it.
func (r *ProfileRepo) ResetEnriching(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE business_profiles SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, models.ProfileStatusDraft, id, models.ProfileStatusEnriching)
	return err
}

// ResetStaleEnriching drops profiles stuck in enriching back to draft
// once their enrichment run would have expired anyway.
func (r *ProfileRepo) ResetStaleEnriching(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE business_profiles SET status = $1, updated_at = now()
		WHERE status = $2 AND updated_at < now() - $3::interval
	`, models.ProfileStatusDraft, models.ProfileStatusEnriching,
		fmt.Sprintf("%d seconds", int(maxAge.Seconds())))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM business_profiles WHERE id = $1`, id)
	return err
}
