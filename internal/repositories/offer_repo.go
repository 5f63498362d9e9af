package repositories

import (
	"context"
	"fmt"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OfferRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

func (r *OfferRepo) Create(ctx context.Context, o *models.Offer) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO offers (profile_id, name, description, price_hint, problem_solved, target_segment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, o.ProfileID, o.Name, o.Description, o.PriceHint, o.ProblemSolved,
		o.TargetSegment, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var o models.Offer
	err := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, name, description, price_hint, problem_solved,
		       target_segment, status, created_at, updated_at
		FROM offers WHERE id = $1
	`, id).Scan(&o.ID, &o.ProfileID, &o.Name, &o.Description, &o.PriceHint,
		&o.ProblemSolved, &o.TargetSegment, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OfferFilter struct {
	ProfileID *uuid.UUID
	Status    *string
	Limit     int
	Offset    int
}

func (r *OfferRepo) List(ctx context.Context, f OfferFilter) ([]models.Offer, error) {
	query := `
		SELECT id, profile_id, name, description, price_hint, problem_solved,
		       target_segment, status, created_at, updated_at
		FROM offers
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.ProfileID != nil {
		where = append(where, fmt.Sprintf("profile_id = $%d", argIdx))
		args = append(args, *f.ProfileID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
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
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.Name, &o.Description, &o.PriceHint,
			&o.ProblemSolved, &o.TargetSegment, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

func (r *OfferRepo) Update(ctx context.Context, o *models.Offer) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE offers SET name = $1, description = $2, price_hint = $3,
		       problem_solved = $4, target_segment = $5, status = $6, updated_at = now()
		WHERE id = $7
	`, o.Name, o.Description, o.PriceHint, o.ProblemSolved, o.TargetSegment, o.Status, o.ID)
	return err
}

func (r *OfferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}
