package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const auditColumns = `id, user_id, global_seq, chain_seq, event_type, entity_type, entity_id,
		previous_state, new_state, fraud_score, fraud_signals, previous_hash, current_hash, created_at`

// AuditRepo implements ports.AuditRepository. Append-only: existing records
// are never updated or deleted.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Append inserts an audit record within a database transaction. The global
// sequence is assigned by the database and read back into the record.
func (r *AuditRepo) Append(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error {
	query := `INSERT INTO audit_records (id, user_id, chain_seq, event_type, entity_type, entity_id,
		previous_state, new_state, fraud_score, fraud_signals, previous_hash, current_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING global_seq`

	err := tx.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.ChainSeq, rec.EventType, rec.EntityType, rec.EntityID,
		rec.PreviousState, rec.NewState, rec.FraudScore, rec.FraudSignals,
		rec.PreviousHash, rec.CurrentHash, rec.CreatedAt,
	).Scan(&rec.GlobalSeq)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// GetLastForUpdate locks and returns the head of a user's chain. Appends to
// one chain serialize on this lock; other users' chains are untouched.
func (r *AuditRepo) GetLastForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.AuditRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_records
		WHERE user_id = $1 ORDER BY chain_seq DESC LIMIT 1 FOR UPDATE`, auditColumns)

	return scanAuditRecord(tx.QueryRow(ctx, query, userID))
}

// ListByUserAsc returns a user's records in chain order, genesis first.
func (r *AuditRepo) ListByUserAsc(ctx context.Context, userID uuid.UUID) ([]domain.AuditRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_records WHERE user_id = $1 ORDER BY chain_seq ASC`, auditColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	return collectAuditRecords(rows)
}

// ListByUserDesc returns a user's most recent records first.
func (r *AuditRepo) ListByUserDesc(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_records WHERE user_id = $1 ORDER BY chain_seq DESC LIMIT $2`, auditColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records desc: %w", err)
	}
	defer rows.Close()

	return collectAuditRecords(rows)
}

// ListUsersWithRecords returns every user that has at least one chain record.
func (r *AuditRepo) ListUsersWithRecords(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT user_id FROM audit_records`)
	if err != nil {
		return nil, fmt.Errorf("list chain users: %w", err)
	}
	defer rows.Close()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// CountByRiskBand aggregates record counts per display band.
func (r *AuditRepo) CountByRiskBand(ctx context.Context) (map[domain.RiskBand]int64, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE fraud_score < 25) AS low,
		COUNT(*) FILTER (WHERE fraud_score >= 25 AND fraud_score < 50) AS medium,
		COUNT(*) FILTER (WHERE fraud_score >= 50 AND fraud_score < 75) AS high,
		COUNT(*) FILTER (WHERE fraud_score >= 75) AS critical
		FROM audit_records`

	var low, medium, high, critical int64
	if err := r.pool.QueryRow(ctx, query).Scan(&low, &medium, &high, &critical); err != nil {
		return nil, fmt.Errorf("count by risk band: %w", err)
	}
	return map[domain.RiskBand]int64{
		domain.RiskBandLow:      low,
		domain.RiskBandMedium:   medium,
		domain.RiskBandHigh:     high,
		domain.RiskBandCritical: critical,
	}, nil
}

// ListHighRisk returns the most recent records at or above minScore.
func (r *AuditRepo) ListHighRisk(ctx context.Context, minScore int, limit int) ([]domain.AuditRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_records
		WHERE fraud_score >= $1 ORDER BY global_seq DESC LIMIT $2`, auditColumns)

	rows, err := r.pool.Query(ctx, query, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("list high risk: %w", err)
	}
	defer rows.Close()

	return collectAuditRecords(rows)
}

// IsQuarantined reports whether a user's chain carries a quarantine mark. It
// reads through the transaction so the check shares the append's lock scope.
func (r *AuditRepo) IsQuarantined(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error) {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM quarantined_chains WHERE user_id = $1`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check quarantine: %w", err)
	}
	return true, nil
}

// Quarantine marks a user's chain as broken. Idempotent: re-verifying an
// already quarantined chain keeps the original mark.
func (r *AuditRepo) Quarantine(ctx context.Context, userID uuid.UUID, brokenRecordID uuid.UUID) error {
	query := `INSERT INTO quarantined_chains (user_id, broken_record_id, quarantined_at)
		VALUES ($1, $2, NOW()) ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID, brokenRecordID); err != nil {
		return fmt.Errorf("quarantine chain: %w", err)
	}
	return nil
}

// Unquarantine removes a user's quarantine mark.
func (r *AuditRepo) Unquarantine(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM quarantined_chains WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("unquarantine chain: %w", err)
	}
	return nil
}

func collectAuditRecords(rows pgx.Rows) ([]domain.AuditRecord, error) {
	var recs []domain.AuditRecord
	for rows.Next() {
		rec := domain.AuditRecord{}
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.GlobalSeq, &rec.ChainSeq, &rec.EventType,
			&rec.EntityType, &rec.EntityID, &rec.PreviousState, &rec.NewState,
			&rec.FraudScore, &rec.FraudSignals, &rec.PreviousHash, &rec.CurrentHash, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return recs, nil
}

func scanAuditRecord(row pgx.Row) (*domain.AuditRecord, error) {
	rec := &domain.AuditRecord{}
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.GlobalSeq, &rec.ChainSeq, &rec.EventType,
		&rec.EntityType, &rec.EntityID, &rec.PreviousState, &rec.NewState,
		&rec.FraudScore, &rec.FraudSignals, &rec.PreviousHash, &rec.CurrentHash, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan audit record: %w", err)
	}
	return rec, nil
}
