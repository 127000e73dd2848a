package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FraudEvent is the input to fraud scoring: the mutation being applied plus
// the balance it applies to. OccurredAt comes from the injected clock so that
// scoring is reproducible in audits.
type FraudEvent struct {
	UserID        uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	Platform      string
	OccurredAt    time.Time
}
