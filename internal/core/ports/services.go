package ports

import (
	"context"
	"encoding/json"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock is an injectable time source so audit chains and fraud scoring are
// deterministic and replayable in tests.
type Clock interface {
	Now() time.Time
}

// IdempotencyCache is the Redis-layer replay check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AlertPublisher delivers audit alerts to the operator/alerting collaborator.
// Publishing is best-effort; failures must never fail the ledger operation.
type AlertPublisher interface {
	PublishHighRisk(ctx context.Context, rec *domain.AuditRecord) error
	PublishChainBreak(ctx context.Context, userID uuid.UUID, brokenRecordID uuid.UUID) error
}

// --- Service Ports (Business Logic) ---

// LedgerService owns wallet balances and the append-only transaction log.
type LedgerService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error)
	CreateBalance(ctx context.Context, userID uuid.UUID, currency string) (*domain.WalletBalance, error)
	ApplyTransaction(ctx context.Context, req ApplyRequest) (*ApplyOutcome, error)
	AdjustLoyaltyPoints(ctx context.Context, userID uuid.UUID, delta int64) (*domain.WalletBalance, error)
	History(ctx context.Context, params HistoryParams) ([]domain.WalletTransaction, int64, error)
	TotalSpending(ctx context.Context, userID uuid.UUID, platform string) (decimal.Decimal, error)
}

// ApplyOutcome is the result of applying a transaction. Replayed is set when
// an identical request with the same reference ID was already applied and the
// stored result is returned instead of writing a new entry.
type ApplyOutcome struct {
	Balance     *domain.WalletBalance
	Transaction *domain.WalletTransaction
	Replayed    bool
}

// ApplyRequest holds validated input for a balance mutation.
type ApplyRequest struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Platform    string
	Description string
	ReferenceID string // optional idempotency key
	Metadata    map[string]string
}

// AuditChainService appends to and verifies per-user hash chains.
type AuditChainService interface {
	Record(ctx context.Context, req AuditRecordRequest) (*domain.AuditRecord, error)
	VerifyChain(ctx context.Context, userID uuid.UUID) (*ChainVerification, error)
	VerifyAll(ctx context.Context) ([]ChainVerification, error)
	Trail(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	FraudDashboard(ctx context.Context) (*FraudDashboard, error)
}

// AuditRecordRequest holds input for appending one audit record.
type AuditRecordRequest struct {
	UserID        uuid.UUID
	EventType     domain.AuditEventType
	EntityType    string
	EntityID      string
	PreviousState json.RawMessage // nil for creation events
	NewState      json.RawMessage
	FraudScore    int
	FraudSignals  []string
}

// ChainVerification is the outcome of walking one user's chain from genesis.
type ChainVerification struct {
	UserID        uuid.UUID  `json:"user_id"`
	Valid         bool       `json:"valid"`
	Records       int        `json:"records"`
	FirstBrokenID *uuid.UUID `json:"first_broken_record_id,omitempty"`
}

// FraudDashboard aggregates audit records by risk band for display.
type FraudDashboard struct {
	Counts      map[domain.RiskBand]int64 `json:"counts"`
	HighRisk    []domain.AuditRecord      `json:"high_risk"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// FraudScorer produces a deterministic 0-100 risk score for an event given a
// bounded window of recent history. It runs synchronously before the audit
// record is written so the score is always populated.
type FraudScorer interface {
	Score(event domain.FraudEvent, history []domain.WalletTransaction) (int, []string)
}

// ReviewFlagService evaluates free text against the active rule snapshot.
type ReviewFlagService interface {
	Evaluate(text string, language string) domain.FlagDecision
	Reload(ctx context.Context) error
	Version() int64
}
