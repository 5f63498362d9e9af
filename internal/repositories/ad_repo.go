package repositories

import (
	"context"
	"fmt"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdRepo struct {
	pool *pgxpool.Pool
}

func NewAdRepo(pool *pgxpool.Pool) *AdRepo {
	return &AdRepo{pool: pool}
}

func (r *AdRepo) Create(ctx context.Context, a *models.Ad) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO ads (offer_id, campaign_id, platform, format, headline, body, call_to_action, variant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, a.OfferID, a.CampaignID, a.Platform, a.Format, a.Headline,
		a.Body, a.CallToAction, a.Variant,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AdRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var a models.Ad
	err := r.pool.QueryRow(ctx, `
		SELECT id, offer_id, campaign_id, platform, format, headline, body,
		       call_to_action, variant, created_at, updated_at
		FROM ads WHERE id = $1
	`, id).Scan(&a.ID, &a.OfferID, &a.CampaignID, &a.Platform, &a.Format,
		&a.Headline, &a.Body, &a.CallToAction, &a.Variant, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type AdFilter struct {
	OfferID    *uuid.UUID
	CampaignID *uuid.UUID
	Platform   *string
	Limit      int
	Offset     int
}

func (r *AdRepo) List(ctx context.Context, f AdFilter) ([]models.Ad, error) {
	query := `
		SELECT id, offer_id, campaign_id, platform, format, headline, body,
		       call_to_action, variant, created_at, updated_at
		FROM ads
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.OfferID != nil {
		where = append(where, fmt.Sprintf("offer_id = $%d", argIdx))
		args = append(args, *f.OfferID)
		argIdx++
	}
	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.Platform != nil {
		where = append(where, fmt.Sprintf("platform = $%d", argIdx))
		args = append(args, *f.Platform)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY variant ASC, created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []models.Ad
	for rows.Next() {
		var a models.Ad
		if err := rows.Scan(&a.ID, &a.OfferID, &a.CampaignID, &a.Platform, &a.Format,
			&a.Headline, &a.Body, &a.CallToAction, &a.Variant, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, nil
}

// MaxVariant returns the highest variant number among ads of the same parent.
func (r *AdRepo) MaxVariant(ctx context.Context, offerID, campaignID *uuid.UUID) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(variant), 0) FROM ads
		WHERE (offer_id = $1 OR $1 IS NULL) AND (campaign_id = $2 OR $2 IS NULL)
	`, offerID, campaignID).Scan(&max)
	return max, err
}

func (r *AdRepo) Update(ctx context.Context, a *models.Ad) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ads SET headline = $1, body = $2, call_to_action = $3, updated_at = now()
		WHERE id = $4
	`, a.Headline, a.Body, a.CallToAction, a.ID)
	return err
}

func (r *AdRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	return err
}
