package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcopilot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInsufficientCredits is returned when a deduction would take the
// balance below zero. The guarded UPDATE never lets that happen.
var ErrInsufficientCredits = errors.New("insufficient credits")

type CreditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

// GetOrCreate returns the user's credit wallet, creating an empty one on
// first access.
func (r *CreditRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserCredit, error) {
	var c models.UserCredit
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_credits (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, balance, updated_at
	`, userID).Scan(&c.UserID, &c.Balance, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Deduct atomically subtracts amount from the user's balance and records
// the transaction. Fails with ErrInsufficientCredits when the balance is
// too low; the balance can never go negative.
func (r *CreditRepo) Deduct(ctx context.Context, userID uuid.UUID, amount int64, reason string, tool *string, runID *uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var balanceAfter int64
	err = tx.QueryRow(ctx, `
		UPDATE user_credits
		SET balance = balance - $1, updated_at = now()
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance
	`, amount, userID).Scan(&balanceAfter)
	if err == pgx.ErrNoRows {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (user_id, amount, reason, tool, run_id, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, -amount, reason, tool, runID, balanceAfter); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balanceAfter, nil
}

// Credit atomically adds amount to the user's balance and records the
// transaction. Used for signup grants, top-ups and refunds.
func (r *CreditRepo) Credit(ctx context.Context, userID uuid.UUID, amount int64, reason string, runID *uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var balanceAfter int64
	err = tx.QueryRow(ctx, `
		INSERT INTO user_credits (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = user_credits.balance + $2, updated_at = now()
		RETURNING balance
	`, userID, amount).Scan(&balanceAfter)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (user_id, amount, reason, run_id, balance_after)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, amount, reason, runID, balanceAfter); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balanceAfter, nil
}

func (r *CreditRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, reason, tool, run_id, balance_after, created_at
		FROM credit_transactions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.CreditTransaction
	for rows.Next() {
		var t models.CreditTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Reason, &t.Tool,
			&t.RunID, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// --- top-up purchases ---

func (r *CreditRepo) CreatePurchase(ctx context.Context, p *models.CreditPurchase) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO credit_purchases (user_id, credits, amount_ton, deposit_address, deposit_memo, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.UserID, p.Credits, p.AmountTON, p.DepositAddress, p.DepositMemo, p.Status, p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *CreditRepo) GetPurchase(ctx context.Context, id uuid.UUID) (*models.CreditPurchase, error) {
	var p models.CreditPurchase
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, credits, amount_ton, deposit_address, deposit_memo, status,
		       funded_at, funding_tx_hash, payer_address, expires_at, created_at
		FROM credit_purchases WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Credits, &p.AmountTON, &p.DepositAddress, &p.DepositMemo,
		&p.Status, &p.FundedAt, &p.FundingTxHash, &p.PayerAddress, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPurchaseByMemo looks up an awaiting purchase by its deposit memo.
// The indexer uses this to match incoming transfers.
func (r *CreditRepo) GetPurchaseByMemo(ctx context.Context, memo string) (*models.CreditPurchase, error) {
	var p models.CreditPurchase
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, credits, amount_ton, deposit_address, deposit_memo, status,
		       funded_at, funding_tx_hash, payer_address, expires_at, created_at
		FROM credit_purchases WHERE deposit_memo = $1 AND status = $2
	`, memo, models.PurchaseStatusAwaiting).Scan(&p.ID, &p.UserID, &p.Credits, &p.AmountTON,
		&p.DepositAddress, &p.DepositMemo, &p.Status, &p.FundedAt, &p.FundingTxHash,
		&p.PayerAddress, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPurchaseFunded transitions an awaiting purchase to funded. Returns
// false if the purchase was already funded or expired, so a replayed
// transaction cannot credit twice.
func (r *CreditRepo) MarkPurchaseFunded(ctx context.Context, id uuid.UUID, txHash, payerAddress string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_purchases
		SET status = $1, funded_at = now(), funding_tx_hash = $2, payer_address = $3
		WHERE id = $4 AND status = $5
	`, models.PurchaseStatusFunded, txHash, payerAddress, id, models.PurchaseStatusAwaiting)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ExpirePurchases marks awaiting purchases past their deadline as expired
// and returns how many were affected.
func (r *CreditRepo) ExpirePurchases(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_purchases SET status = $1
		WHERE status = $2 AND expires_at < $3
	`, models.PurchaseStatusExpired, models.PurchaseStatusAwaiting, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *CreditRepo) ListPurchases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CreditPurchase, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, credits, amount_ton, deposit_address, deposit_memo, status,
		       funded_at, funding_tx_hash, payer_address, expires_at, created_at
		FROM credit_purchases WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.CreditPurchase
	for rows.Next() {
		var p models.CreditPurchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.Credits, &p.AmountTON, &p.DepositAddress,
			&p.DepositMemo, &p.Status, &p.FundedAt, &p.FundingTxHash, &p.PayerAddress,
			&p.ExpiresAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}
