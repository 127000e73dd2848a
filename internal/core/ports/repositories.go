package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallet balances.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, balance *domain.WalletBalance) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.WalletBalance, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error
	UpdateLoyaltyPoints(ctx context.Context, tx pgx.Tx, userID uuid.UUID, points int64, updatedAt time.Time) error
}

// TransactionRepository is the append-only transaction log. There is
// deliberately no update or delete method: immutability is structural.
type TransactionRepository interface {
	Append(ctx context.Context, tx pgx.Tx, txn *domain.WalletTransaction) error
	GetByReference(ctx context.Context, q Querier, userID uuid.UUID, referenceID string) (*domain.WalletTransaction, error)
	History(ctx context.Context, params HistoryParams) ([]domain.WalletTransaction, int64, error)
	RecentByUser(ctx context.Context, q Querier, userID uuid.UUID, since time.Time, limit int) ([]domain.WalletTransaction, error)
	TotalSpending(ctx context.Context, userID uuid.UUID, platform string) (decimal.Decimal, error)
}

// HistoryParams holds filter + pagination for the transaction log read path.
type HistoryParams struct {
	UserID   uuid.UUID
	Platform string     // empty = all platforms
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Page     int
	PageSize int
}

// AuditRepository persists the per-user hash chains. Append-only.
type AuditRepository interface {
	Append(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error
	GetLastForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.AuditRecord, error)
	ListByUserAsc(ctx context.Context, userID uuid.UUID) ([]domain.AuditRecord, error)
	ListByUserDesc(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	ListUsersWithRecords(ctx context.Context) ([]uuid.UUID, error)
	CountByRiskBand(ctx context.Context) (map[domain.RiskBand]int64, error)
	ListHighRisk(ctx context.Context, minScore int, limit int) ([]domain.AuditRecord, error)
	IsQuarantined(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error)
	Quarantine(ctx context.Context, userID uuid.UUID, brokenRecordID uuid.UUID) error
	Unquarantine(ctx context.Context, userID uuid.UUID) error
}

// FlaggingRuleRepository reads the administered rule table.
type FlaggingRuleRepository interface {
	ListActive(ctx context.Context) ([]domain.FlaggingRule, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Querier is the subset of pgx query methods shared by pools and transactions,
// so repositories can run the same read inside or outside a lock scope.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
