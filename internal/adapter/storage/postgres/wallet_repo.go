package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new balance row within a database transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.WalletBalance) error {
	query := `INSERT INTO wallet_balances (user_id, balance, currency, loyalty_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		b.UserID, b.Balance, b.Currency, b.LoyaltyPoints, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet balance: %w", err)
	}
	return nil
}

// GetByUserID fetches a balance row without locking.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error) {
	query := `SELECT user_id, balance, currency, loyalty_points, created_at, updated_at
		FROM wallet_balances WHERE user_id = $1`

	return scanBalance(r.pool.QueryRow(ctx, query, userID))
}

// GetByUserIDForUpdate fetches a balance row with pessimistic locking.
// This MUST be called within a transaction. The lock scope is exactly one
// user's row, so unrelated users are never serialized.
func (r *WalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.WalletBalance, error) {
	query := `SELECT user_id, balance, currency, loyalty_points, created_at, updated_at
		FROM wallet_balances WHERE user_id = $1 FOR UPDATE`

	return scanBalance(tx.QueryRow(ctx, query, userID))
}

// UpdateBalance writes the new balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE wallet_balances SET balance = $1, updated_at = $2 WHERE user_id = $3`

	tag, err := tx.Exec(ctx, query, balance, updatedAt, userID)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s", userID)
	}
	return nil
}

// UpdateLoyaltyPoints writes the new loyalty point total within a transaction.
func (r *WalletRepo) UpdateLoyaltyPoints(ctx context.Context, tx pgx.Tx, userID uuid.UUID, points int64, updatedAt time.Time) error {
	query := `UPDATE wallet_balances SET loyalty_points = $1, updated_at = $2 WHERE user_id = $3`

	tag, err := tx.Exec(ctx, query, points, updatedAt, userID)
	if err != nil {
		return fmt.Errorf("update loyalty points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s", userID)
	}
	return nil
}

func scanBalance(row pgx.Row) (*domain.WalletBalance, error) {
	b := &domain.WalletBalance{}
	err := row.Scan(&b.UserID, &b.Balance, &b.Currency, &b.LoyaltyPoints, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet balance: %w", err)
	}
	return b, nil
}
