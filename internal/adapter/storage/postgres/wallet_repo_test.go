package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBalance(userID uuid.UUID) *domain.WalletBalance {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WalletBalance{
		UserID:        userID,
		Balance:       decimal.RequireFromString("100.00"),
		Currency:      "ILS",
		LoyaltyPoints: 42,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func balanceColumns() []string {
	return []string{"user_id", "balance", "currency", "loyalty_points", "created_at", "updated_at"}
}

func balanceRow(b *domain.WalletBalance) *pgxmock.Rows {
	return pgxmock.NewRows(balanceColumns()).AddRow(
		b.UserID, b.Balance, b.Currency, b.LoyaltyPoints, b.CreatedAt, b.UpdatedAt,
	)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	b := newTestBalance(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("(?s)INSERT INTO wallet_balances").
		WithArgs(b.UserID, b.Balance, b.Currency, b.LoyaltyPoints, b.CreatedAt, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	b := newTestBalance(uuid.New())

	mock.ExpectQuery("(?s)SELECT .+ FROM wallet_balances WHERE user_id").
		WithArgs(b.UserID).
		WillReturnRows(balanceRow(b))

	result, err := repo.GetByUserID(context.Background(), b.UserID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, b.UserID, result.UserID)
	assert.True(t, b.Balance.Equal(result.Balance))
	assert.Equal(t, b.LoyaltyPoints, result.LoyaltyPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("(?s)SELECT .+ FROM wallet_balances WHERE user_id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(balanceColumns()))

	result, err := repo.GetByUserID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByUserIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	b := newTestBalance(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .+ FROM wallet_balances WHERE user_id .+ FOR UPDATE").
		WithArgs(b.UserID).
		WillReturnRows(balanceRow(b))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByUserIDForUpdate(context.Background(), tx, b.UserID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, b.UserID, result.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	userID := uuid.New()
	newBalance := decimal.RequireFromString("70.00")
	updatedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE wallet_balances SET balance").
		WithArgs(newBalance, updatedAt, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, userID, newBalance, updatedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalance_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE wallet_balances SET balance").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, userID, decimal.RequireFromString("1"), time.Now().UTC())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "balance not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateLoyaltyPoints(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	userID := uuid.New()
	updatedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE wallet_balances SET loyalty_points").
		WithArgs(int64(55), updatedAt, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateLoyaltyPoints(context.Background(), tx, userID, 55, updatedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
