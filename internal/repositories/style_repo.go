package repositories

import (
	"context"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StyleRepo struct {
	pool *pgxpool.Pool
}

func NewStyleRepo(pool *pgxpool.Pool) *StyleRepo {
	return &StyleRepo{pool: pool}
}

func (r *StyleRepo) Create(ctx context.Context, st *models.UserStyle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if st.IsDefault {
		if _, err := tx.Exec(ctx, `
			UPDATE user_styles SET is_default = false WHERE user_id = $1
		`, st.UserID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO user_styles (user_id, name, tone, vocabulary, sentence_structure, sample_excerpt, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, st.UserID, st.Name, st.Tone, st.Vocabulary, st.SentenceStructure, st.SampleExcerpt, st.IsDefault,
	).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *StyleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.UserStyle, error) {
	var st models.UserStyle
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, tone, vocabulary, sentence_structure, sample_excerpt, is_default, created_at
		FROM user_styles WHERE id = $1
	`, id).Scan(&st.ID, &st.UserID, &st.Name, &st.Tone, &st.Vocabulary,
		&st.SentenceStructure, &st.SampleExcerpt, &st.IsDefault, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Update rewrites the editable fields of a saved style.
func (r *StyleRepo) Update(ctx context.Context, st *models.UserStyle) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_styles SET name = $1, tone = $2, vocabulary = $3, sentence_structure = $4
		WHERE id = $5
	`, st.Name, st.Tone, st.Vocabulary, st.SentenceStructure, st.ID)
	return err
}

// GetDefault returns the user's default style, or nil when none is set.
func (r *StyleRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*models.UserStyle, error) {
	var st models.UserStyle
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, tone, vocabulary, sentence_structure, sample_excerpt, is_default, created_at
		FROM user_styles WHERE user_id = $1 AND is_default = true
	`, userID).Scan(&st.ID, &st.UserID, &st.Name, &st.Tone, &st.Vocabulary,
		&st.SentenceStructure, &st.SampleExcerpt, &st.IsDefault, &st.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StyleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserStyle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, tone, vocabulary, sentence_structure, sample_excerpt, is_default, created_at
		FROM user_styles WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var styles []models.UserStyle
	for rows.Next() {
		var st models.UserStyle
		if err := rows.Scan(&st.ID, &st.UserID, &st.Name, &st.Tone, &st.Vocabulary,
			&st.SentenceStructure, &st.SampleExcerpt, &st.IsDefault, &st.CreatedAt); err != nil {
			return nil, err
		}
		styles = append(styles, st)
	}
	return styles, nil
}

func (r *StyleRepo) SetDefault(ctx context.Context, userID, styleID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE user_styles SET is_default = false WHERE user_id = $1
	`, userID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE user_styles SET is_default = true WHERE id = $1 AND user_id = $2
	`, styleID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *StyleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_styles WHERE id = $1`, id)
	return err
}
