package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenesisHash anchors the first record of every per-user chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// AuditEventType identifies the kind of audited event.
type AuditEventType string

const (
	AuditEventWalletCredit   AuditEventType = "wallet.credit"
	AuditEventWalletDebit    AuditEventType = "wallet.debit"
	AuditEventLoyaltyAdjust  AuditEventType = "wallet.loyalty_adjust"
	AuditEventBalanceCreated AuditEventType = "wallet.balance_created"
)

// AuditRecord is one link in a per-user tamper-evident hash chain.
// CurrentHash covers the canonical serialization of the record plus
// PreviousHash, so any retroactive edit, reorder or deletion is detectable.
type AuditRecord struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	GlobalSeq     int64           `json:"global_seq"` // monotonic across all chains, not hashed
	ChainSeq      int64           `json:"chain_seq"`  // 1-based position in the user's chain
	EventType     AuditEventType  `json:"event_type"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	PreviousState json.RawMessage `json:"previous_state,omitempty"`
	NewState      json.RawMessage `json:"new_state"`
	FraudScore    int             `json:"fraud_score"`
	FraudSignals  []string        `json:"fraud_signals,omitempty"`
	PreviousHash  string          `json:"previous_hash"`
	CurrentHash   string          `json:"current_hash"`
	Verified      bool            `json:"verified"` // computed at read time, never stored
	CreatedAt     time.Time       `json:"created_at"`
}

// RiskBand buckets a fraud score for dashboards and alerting only;
// it never gates a ledger operation.
type RiskBand string

const (
	RiskBandLow      RiskBand = "low"      // score < 25
	RiskBandMedium   RiskBand = "medium"   // 25 <= score < 50
	RiskBandHigh     RiskBand = "high"     // 50 <= score < 75
	RiskBandCritical RiskBand = "critical" // score >= 75
)

// BandForScore maps a fraud score to its display band.
func BandForScore(score int) RiskBand {
	switch {
	case score < 25:
		return RiskBandLow
	case score < 50:
		return RiskBandMedium
	case score < 75:
		return RiskBandHigh
	default:
		return RiskBandCritical
	}
}
