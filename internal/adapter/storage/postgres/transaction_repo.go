package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, amount, transaction_type, platform, description,
		reference_id, balance_after, metadata, created_at`

// TransactionRepo implements ports.TransactionRepository. The table is
// append-only: no UPDATE or DELETE statement exists anywhere in this file.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts an immutable ledger entry within a database transaction.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	var metadata []byte
	if len(t.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(t.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	query := `INSERT INTO wallet_transactions (id, user_id, amount, transaction_type, platform,
		description, reference_id, balance_after, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.Amount, t.Type, t.Platform,
		t.Description, t.ReferenceID, t.BalanceAfter, metadata, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByReference fetches a transaction by its idempotency reference. Accepts
// any Querier so the lookup can run inside the caller's lock scope.
func (r *TransactionRepo) GetByReference(ctx context.Context, q ports.Querier, userID uuid.UUID, referenceID string) (*domain.WalletTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallet_transactions WHERE user_id = $1 AND reference_id = $2`, transactionColumns)

	return scanTransaction(q.QueryRow(ctx, query, userID, referenceID))
}

// History fetches the transaction log with filtering and pagination,
// most-recent-first.
func (r *TransactionRepo) History(ctx context.Context, params ports.HistoryParams) ([]domain.WalletTransaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
	args = append(args, params.UserID)
	argIdx++

	if params.Platform != "" {
		conditions = append(conditions, fmt.Sprintf("platform = $%d", argIdx))
		args = append(args, params.Platform)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM wallet_transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM wallet_transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// RecentByUser fetches the bounded history window used by fraud scoring.
func (r *TransactionRepo) RecentByUser(ctx context.Context, q ports.Querier, userID uuid.UUID, since time.Time, limit int) ([]domain.WalletTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallet_transactions
		WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC LIMIT $3`, transactionColumns)

	rows, err := q.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// TotalSpending sums all debit amounts for a user, optionally per platform.
func (r *TransactionRepo) TotalSpending(ctx context.Context, userID uuid.UUID, platform string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
		WHERE user_id = $1 AND transaction_type = 'debit'`
	args := []any{userID}

	if platform != "" {
		query += " AND platform = $2"
		args = append(args, platform)
	}

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total spending: %w", err)
	}
	return total, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.WalletTransaction, error) {
	var txns []domain.WalletTransaction
	for rows.Next() {
		t := domain.WalletTransaction{}
		var metadata []byte
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Platform,
			&t.Description, &t.ReferenceID, &t.BalanceAfter, &metadata, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	t := &domain.WalletTransaction{}
	var metadata []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Platform,
		&t.Description, &t.ReferenceID, &t.BalanceAfter, &metadata, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return t, nil
}
