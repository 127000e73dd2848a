package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a balance mutation.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// WalletTransaction is an immutable ledger entry. Once written there is no
// update or delete path; the running balance is the fold of all entries.
type WalletTransaction struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Amount       decimal.Decimal   `json:"amount"`
	Type         TransactionType   `json:"type"`
	Platform     string            `json:"platform"`
	Description  string            `json:"description"`
	ReferenceID  string            `json:"reference_id,omitempty"`
	BalanceAfter decimal.Decimal   `json:"balance_after"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SamePayload reports whether a retried request matches this transaction.
// A reference replay with a different payload is a caller bug, never merged.
func (t *WalletTransaction) SamePayload(amount decimal.Decimal, txType TransactionType, platform string) bool {
	return t.Amount.Equal(amount) && t.Type == txType && t.Platform == platform
}

// Signed returns the amount with debit entries negated, for conservation checks.
func (t *WalletTransaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
