package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const dashboardHighRiskMin = 50

// AuditChainServiceImpl implements ports.AuditChainService over per-user hash
// chains. Appends within one user's chain are serialized by locking the last
// record; chains of different users proceed fully in parallel. Quarantine
// marks live in the database so every replica, and every restart, sees them.
type AuditChainServiceImpl struct {
	repo       ports.AuditRepository
	transactor ports.DBTransactor
	clock      ports.Clock
	alerts     ports.AlertPublisher // nil = alerting disabled
	alertScore int
	log        zerolog.Logger
}

// NewAuditChainService creates a new AuditChainServiceImpl.
func NewAuditChainService(
	repo ports.AuditRepository,
	transactor ports.DBTransactor,
	clock ports.Clock,
	alerts ports.AlertPublisher,
	alertScore int,
	log zerolog.Logger,
) *AuditChainServiceImpl {
	return &AuditChainServiceImpl{
		repo:       repo,
		transactor: transactor,
		clock:      clock,
		alerts:     alerts,
		alertScore: alertScore,
		log:        log,
	}
}

// Record appends one audit record in its own database transaction.
func (s *AuditChainServiceImpl) Record(ctx context.Context, req ports.AuditRecordRequest) (*domain.AuditRecord, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rec, err := s.AppendTx(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.PublishAlerts(ctx, rec)
	return rec, nil
}

// AppendTx appends one record inside an existing transaction so ledger
// mutations and their audit records commit as a single unit. The caller is
// responsible for calling PublishAlerts after its commit.
func (s *AuditChainServiceImpl) AppendTx(ctx context.Context, tx pgx.Tx, req ports.AuditRecordRequest) (*domain.AuditRecord, error) {
	bad, err := s.repo.IsQuarantined(ctx, tx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check quarantine: %w", err))
	}
	if bad {
		return nil, apperror.ErrChainIntegrity("chain quarantined pending manual review")
	}

	last, err := s.repo.GetLastForUpdate(ctx, tx, req.UserID)
	if err != nil {
		if isLockTimeout(err) {
			return nil, apperror.ErrLockTimeout(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("lock chain head: %w", err))
	}

	prevHash := domain.GenesisHash
	chainSeq := int64(1)
	if last != nil {
		prevHash = last.CurrentHash
		chainSeq = last.ChainSeq + 1
	}

	rec := &domain.AuditRecord{
		ID:            uuid.New(),
		UserID:        req.UserID,
		ChainSeq:      chainSeq,
		EventType:     req.EventType,
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		PreviousState: req.PreviousState,
		NewState:      req.NewState,
		FraudScore:    req.FraudScore,
		FraudSignals:  req.FraudSignals,
		PreviousHash:  prevHash,
		CreatedAt:     s.clock.Now().UTC(),
	}
	rec.CurrentHash = computeRecordHash(rec, prevHash)

	if err := s.repo.Append(ctx, tx, rec); err != nil {
		if isUniqueViolation(err) {
			// lost the chain-head race to a concurrent append
			return nil, apperror.ErrConcurrentAppend(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("append audit record: %w", err))
	}
	return rec, nil
}

// PublishAlerts notifies the alerting collaborator about high-risk records.
// Best-effort: failures are logged, never propagated.
func (s *AuditChainServiceImpl) PublishAlerts(ctx context.Context, rec *domain.AuditRecord) {
	if s.alerts == nil || rec.FraudScore < s.alertScore {
		return
	}
	if err := s.alerts.PublishHighRisk(ctx, rec); err != nil {
		s.log.Warn().Err(err).
			Str("record_id", rec.ID.String()).
			Int("fraud_score", rec.FraudScore).
			Msg("failed to publish high-risk alert")
	}
}

// VerifyChain walks one user's chain from the genesis, recomputing every hash.
// A broken chain is quarantined: further appends for that user are rejected
// until an operator resolves it. Broken chains are never auto-corrected.
func (s *AuditChainServiceImpl) VerifyChain(ctx context.Context, userID uuid.UUID) (*ports.ChainVerification, error) {
	recs, err := s.repo.ListByUserAsc(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list audit records: %w", err))
	}

	result := walkChain(userID, recs)
	if !result.Valid {
		if err := s.repo.Quarantine(ctx, userID, *result.FirstBrokenID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("quarantine chain: %w", err))
		}
		s.log.Error().
			Str("user_id", userID.String()).
			Str("first_broken_record_id", result.FirstBrokenID.String()).
			Msg("audit chain integrity violation, chain quarantined")
		if s.alerts != nil {
			if err := s.alerts.PublishChainBreak(ctx, userID, *result.FirstBrokenID); err != nil {
				s.log.Warn().Err(err).Msg("failed to publish chain-break alert")
			}
		}
	}
	return result, nil
}

// VerifyAll verifies every chain that has records. Intended for a periodic
// batch job, not the hot path.
func (s *AuditChainServiceImpl) VerifyAll(ctx context.Context) ([]ports.ChainVerification, error) {
	users, err := s.repo.ListUsersWithRecords(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list chain users: %w", err))
	}

	results := make([]ports.ChainVerification, 0, len(users))
	for _, userID := range users {
		res, err := s.VerifyChain(ctx, userID)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Trail returns a user's records newest-first with Verified computed per
// request by replaying the chain.
func (s *AuditChainServiceImpl) Trail(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	recs, err := s.repo.ListByUserAsc(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list audit records: %w", err))
	}

	markVerified(recs)

	// newest first
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// FraudDashboard aggregates record counts per risk band plus the most recent
// high-risk records.
func (s *AuditChainServiceImpl) FraudDashboard(ctx context.Context) (*ports.FraudDashboard, error) {
	counts, err := s.repo.CountByRiskBand(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count by risk band: %w", err))
	}
	highRisk, err := s.repo.ListHighRisk(ctx, dashboardHighRiskMin, 20)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list high risk: %w", err))
	}
	return &ports.FraudDashboard{
		Counts:      counts,
		HighRisk:    highRisk,
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

// Unquarantine clears the quarantine mark after manual review.
func (s *AuditChainServiceImpl) Unquarantine(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Unquarantine(ctx, userID); err != nil {
		return apperror.InternalError(fmt.Errorf("unquarantine chain: %w", err))
	}
	return nil
}

// walkChain recomputes the chain and reports the first broken record.
func walkChain(userID uuid.UUID, recs []domain.AuditRecord) *ports.ChainVerification {
	result := &ports.ChainVerification{UserID: userID, Valid: true, Records: len(recs)}
	prevHash := domain.GenesisHash
	for i := range recs {
		rec := &recs[i]
		if rec.ChainSeq != int64(i+1) ||
			rec.PreviousHash != prevHash ||
			computeRecordHash(rec, rec.PreviousHash) != rec.CurrentHash {
			result.Valid = false
			result.FirstBrokenID = &rec.ID
			return result
		}
		prevHash = rec.CurrentHash
	}
	return result
}

// markVerified sets the Verified flag by replaying the chain. Every record at
// or after the first break is unverified: a broken link taints everything
// built on top of it.
func markVerified(recs []domain.AuditRecord) {
	prevHash := domain.GenesisHash
	broken := false
	for i := range recs {
		rec := &recs[i]
		if !broken &&
			rec.ChainSeq == int64(i+1) &&
			rec.PreviousHash == prevHash &&
			computeRecordHash(rec, rec.PreviousHash) == rec.CurrentHash {
			rec.Verified = true
			prevHash = rec.CurrentHash
			continue
		}
		broken = true
		rec.Verified = false
	}
}

// computeRecordHash hashes the canonical serialization of rec chained to
// prevHash: hex(SHA-256(canonical || "|" || prevHash)).
func computeRecordHash(rec *domain.AuditRecord, prevHash string) string {
	sum := sha256.Sum256([]byte(canonicalPayload(rec) + "|" + prevHash))
	return hex.EncodeToString(sum[:])
}

// canonicalPayload serializes the hashed fields in a fixed order. Timestamps
// are RFC3339Nano UTC and amounts inside the state snapshots are decimal
// strings, so the serialization is deterministic with no floating point.
// GlobalSeq is excluded: it is a dashboard ordering aid, not part of the chain.
func canonicalPayload(rec *domain.AuditRecord) string {
	return strings.Join([]string{
		rec.ID.String(),
		rec.UserID.String(),
		strconv.FormatInt(rec.ChainSeq, 10),
		string(rec.EventType),
		rec.EntityType,
		rec.EntityID,
		string(rec.PreviousState),
		string(rec.NewState),
		strconv.Itoa(rec.FraudScore),
		strings.Join(rec.FraudSignals, ","),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
}
