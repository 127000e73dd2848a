package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. Every balance mutation is
// a single database transaction covering the balance row lock, the
// transaction-log append and the audit-chain append: no intermediate state is
// ever observable.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	audit      *AuditChainServiceImpl
	fraud      ports.FraudScorer
	idemCache  ports.IdempotencyCache
	transactor ports.DBTransactor
	clock      ports.Clock

	lockTimeout    time.Duration
	idempotencyTTL time.Duration
	historyWindow  time.Duration
	historyLimit   int

	log zerolog.Logger
}

// LedgerOptions bundles the tunables of the ledger hot path.
type LedgerOptions struct {
	LockTimeout    time.Duration
	IdempotencyTTL time.Duration
	HistoryWindow  time.Duration
	HistoryLimit   int
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	audit *AuditChainServiceImpl,
	fraud ports.FraudScorer,
	idemCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	clock ports.Clock,
	opts LedgerOptions,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo:     walletRepo,
		txRepo:         txRepo,
		audit:          audit,
		fraud:          fraud,
		idemCache:      idemCache,
		transactor:     transactor,
		clock:          clock,
		lockTimeout:    opts.LockTimeout,
		idempotencyTTL: opts.IdempotencyTTL,
		historyWindow:  opts.HistoryWindow,
		historyLimit:   opts.HistoryLimit,
		log:            log,
	}
}

// applyResult is the cached shape of a completed ApplyTransaction call.
type applyResult struct {
	Balance     *domain.WalletBalance     `json:"balance"`
	Transaction *domain.WalletTransaction `json:"transaction"`
}

// GetBalance returns the current balance for a user.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error) {
	balance, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	if balance == nil {
		return nil, apperror.ErrBalanceNotFound()
	}
	return balance, nil
}

// CreateBalance initializes a zero balance row for a user. Balances are never
// auto-created by ApplyTransaction: materializing unknown users silently
// would mask caller bugs.
func (s *LedgerServiceImpl) CreateBalance(ctx context.Context, userID uuid.UUID, currency string) (*domain.WalletBalance, error) {
	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check existing balance: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrBalanceExists()
	}

	now := s.clock.Now().UTC()
	balance := &domain.WalletBalance{
		UserID:    userID,
		Balance:   decimal.Zero,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.walletRepo.Create(ctx, tx, balance); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.ErrBalanceExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create balance: %w", err))
	}

	newState, err := json.Marshal(balance.Snapshot())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal balance snapshot: %w", err))
	}
	rec, err := s.audit.AppendTx(ctx, tx, ports.AuditRecordRequest{
		UserID:     userID,
		EventType:  domain.AuditEventBalanceCreated,
		EntityType: "wallet_balance",
		EntityID:   userID.String(),
		NewState:   newState,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.audit.PublishAlerts(ctx, rec)

	s.log.Info().
		Str("user_id", userID.String()).
		Str("currency", currency).
		Msg("wallet balance created")

	return balance, nil
}

// ApplyTransaction atomically applies a credit or debit to a user's balance,
// appends the immutable ledger entry and its audit record, and caches the
// result for idempotent replays. A replay of an identical request returns the
// stored outcome with Replayed set.
func (s *LedgerServiceImpl) ApplyTransaction(ctx context.Context, req ports.ApplyRequest) (*ports.ApplyOutcome, error) {
	if !req.Type.IsValid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction type %q", req.Type))
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Platform == "" {
		return nil, apperror.Validation("platform is required")
	}

	// Layer 1: Redis replay check (fast path, best-effort)
	if req.ReferenceID != "" {
		cached, err := s.idemCache.Get(ctx, idempotencyKey(req.UserID, req.ReferenceID))
		if err != nil {
			s.log.Warn().Err(err).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return s.replayCached(cached, req)
		}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Lock exactly this user's balance row; unrelated users stay parallel.
	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, tx, req.UserID)
	if err != nil {
		if isLockTimeout(err) {
			return nil, apperror.ErrLockTimeout(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrBalanceNotFound()
	}

	// Layer 2: authoritative replay check inside the lock scope
	if req.ReferenceID != "" {
		prior, err := s.txRepo.GetByReference(ctx, tx, req.UserID, req.ReferenceID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("idempotency check: %w", err))
		}
		if prior != nil {
			if !prior.SamePayload(req.Amount, req.Type, req.Platform) {
				return nil, apperror.ErrIdempotencyConflict()
			}
			return &ports.ApplyOutcome{Balance: balanceAt(wallet, prior), Transaction: prior, Replayed: true}, nil
		}
	}

	previousState := wallet.Snapshot()

	newBalance := wallet.Balance
	switch req.Type {
	case domain.TransactionTypeCredit:
		newBalance = newBalance.Add(req.Amount)
	case domain.TransactionTypeDebit:
		if req.Amount.GreaterThan(wallet.Balance) {
			return nil, apperror.ErrInsufficientBalance()
		}
		newBalance = newBalance.Sub(req.Amount)
	}

	now := s.clock.Now().UTC()

	// Fraud scoring reads the history window before this entry is appended,
	// synchronously, so the audit record always carries a populated score.
	history, err := s.txRepo.RecentByUser(ctx, tx, req.UserID, now.Add(-s.historyWindow), s.historyLimit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load recent history: %w", err))
	}
	score, signals := s.fraud.Score(domain.FraudEvent{
		UserID:        req.UserID,
		Type:          req.Type,
		Amount:        req.Amount,
		BalanceBefore: wallet.Balance,
		Platform:      req.Platform,
		OccurredAt:    now,
	}, history)

	if err := s.walletRepo.UpdateBalance(ctx, tx, req.UserID, newBalance, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	txn := &domain.WalletTransaction{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Amount:       req.Amount,
		Type:         req.Type,
		Platform:     req.Platform,
		Description:  req.Description,
		ReferenceID:  req.ReferenceID,
		BalanceAfter: newBalance,
		Metadata:     req.Metadata,
		CreatedAt:    now,
	}
	if err := s.txRepo.Append(ctx, tx, txn); err != nil {
		if isUniqueViolation(err) {
			// lost the reference race to a concurrent retry
			return nil, apperror.ErrIdempotencyConflict()
		}
		return nil, apperror.InternalError(fmt.Errorf("append transaction: %w", err))
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = now

	prevJSON, err := json.Marshal(previousState)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal previous state: %w", err))
	}
	newJSON, err := json.Marshal(wallet.Snapshot())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal new state: %w", err))
	}

	eventType := domain.AuditEventWalletCredit
	if req.Type == domain.TransactionTypeDebit {
		eventType = domain.AuditEventWalletDebit
	}
	rec, err := s.audit.AppendTx(ctx, tx, ports.AuditRecordRequest{
		UserID:        req.UserID,
		EventType:     eventType,
		EntityType:    "wallet_transaction",
		EntityID:      txn.ID.String(),
		PreviousState: prevJSON,
		NewState:      newJSON,
		FraudScore:    score,
		FraudSignals:  signals,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.audit.PublishAlerts(ctx, rec)

	// Post-process: cache the result for replays (best-effort)
	if req.ReferenceID != "" {
		if respJSON, err := json.Marshal(applyResult{Balance: wallet, Transaction: txn}); err == nil {
			if err := s.idemCache.Set(ctx, idempotencyKey(req.UserID, req.ReferenceID), respJSON, s.idempotencyTTL); err != nil {
				s.log.Warn().Err(err).Msg("failed to cache idempotent result")
			}
		}
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("type", string(req.Type)).
		Str("amount", req.Amount.String()).
		Int("fraud_score", score).
		Msg("transaction applied")

	return &ports.ApplyOutcome{Balance: wallet, Transaction: txn}, nil
}

// AdjustLoyaltyPoints applies a loyalty point delta under the same per-user
// lock and audit path as monetary mutations.
func (s *LedgerServiceImpl) AdjustLoyaltyPoints(ctx context.Context, userID uuid.UUID, delta int64) (*domain.WalletBalance, error) {
	if delta == 0 {
		return nil, apperror.Validation("points delta must be non-zero")
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil {
		if isLockTimeout(err) {
			return nil, apperror.ErrLockTimeout(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrBalanceNotFound()
	}

	newPoints := wallet.LoyaltyPoints + delta
	if newPoints < 0 {
		return nil, apperror.ErrInsufficientPoints()
	}

	previousState := wallet.Snapshot()
	now := s.clock.Now().UTC()

	if err := s.walletRepo.UpdateLoyaltyPoints(ctx, tx, userID, newPoints, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update loyalty points: %w", err))
	}

	wallet.LoyaltyPoints = newPoints
	wallet.UpdatedAt = now

	prevJSON, err := json.Marshal(previousState)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal previous state: %w", err))
	}
	newJSON, err := json.Marshal(wallet.Snapshot())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal new state: %w", err))
	}
	rec, err := s.audit.AppendTx(ctx, tx, ports.AuditRecordRequest{
		UserID:        userID,
		EventType:     domain.AuditEventLoyaltyAdjust,
		EntityType:    "wallet_balance",
		EntityID:      userID.String(),
		PreviousState: prevJSON,
		NewState:      newJSON,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	s.audit.PublishAlerts(ctx, rec)

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("delta", delta).
		Int64("points", newPoints).
		Msg("loyalty points adjusted")

	return wallet, nil
}

// History returns the user's transaction log newest-first.
func (s *LedgerServiceImpl) History(ctx context.Context, params ports.HistoryParams) ([]domain.WalletTransaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	txns, total, err := s.txRepo.History(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("transaction history: %w", err))
	}
	return txns, total, nil
}

// TotalSpending sums all debit amounts for a user, optionally per platform.
func (s *LedgerServiceImpl) TotalSpending(ctx context.Context, userID uuid.UUID, platform string) (decimal.Decimal, error) {
	total, err := s.txRepo.TotalSpending(ctx, userID, platform)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("total spending: %w", err))
	}
	return total, nil
}

// begin opens a transaction with the configured row-lock timeout so no caller
// blocks indefinitely on a contended balance row.
func (s *LedgerServiceImpl) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, apperror.InternalError(fmt.Errorf("set lock timeout: %w", err))
		}
	}
	return tx, nil
}

// replayCached validates a Redis-cached result against the retried payload.
func (s *LedgerServiceImpl) replayCached(cached []byte, req ports.ApplyRequest) (*ports.ApplyOutcome, error) {
	var result applyResult
	if err := json.Unmarshal(cached, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached result: %w", err))
	}
	if !result.Transaction.SamePayload(req.Amount, req.Type, req.Platform) {
		return nil, apperror.ErrIdempotencyConflict()
	}
	return &ports.ApplyOutcome{Balance: result.Balance, Transaction: result.Transaction, Replayed: true}, nil
}

// balanceAt reconstructs the balance view returned by the original call, so a
// replay returns an identical result even after later transactions.
func balanceAt(wallet *domain.WalletBalance, txn *domain.WalletTransaction) *domain.WalletBalance {
	return &domain.WalletBalance{
		UserID:        wallet.UserID,
		Balance:       txn.BalanceAfter,
		Currency:      wallet.Currency,
		LoyaltyPoints: wallet.LoyaltyPoints,
		CreatedAt:     wallet.CreatedAt,
		UpdatedAt:     txn.CreatedAt,
	}
}

func idempotencyKey(userID uuid.UUID, referenceID string) string {
	return userID.String() + ":" + referenceID
}

// isLockTimeout reports whether err is a PostgreSQL lock_not_available error.
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
