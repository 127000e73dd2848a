package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletBalance holds a user's monetary balance and loyalty points.
// The balance is a fixed-point decimal; floating point is never used for money.
type WalletBalance struct {
	UserID        uuid.UUID       `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Snapshot captures the balance state for audit previous/new state records.
func (b *WalletBalance) Snapshot() BalanceSnapshot {
	return BalanceSnapshot{
		Balance:       b.Balance.String(),
		Currency:      b.Currency,
		LoyaltyPoints: b.LoyaltyPoints,
	}
}

// BalanceSnapshot is the serializable form of a balance at a point in time.
type BalanceSnapshot struct {
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}
