package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]*domain.WalletBalance
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{balances: make(map[uuid.UUID]*domain.WalletBalance)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.WalletBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[b.UserID]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "wallet_balances_pkey"}
	}
	clone := *b
	r.balances[b.UserID] = &clone
	return nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.balances[userID]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *inMemoryWalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.WalletBalance, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	b.Balance = balance
	b.UpdatedAt = updatedAt
	return nil
}

func (r *inMemoryWalletRepo) UpdateLoyaltyPoints(ctx context.Context, tx pgx.Tx, userID uuid.UUID, points int64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	b.LoyaltyPoints = points
	b.UpdatedAt = updatedAt
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns []domain.WalletTransaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ReferenceID != "" {
		for i := range r.txns {
			if r.txns[i].UserID == t.UserID && r.txns[i].ReferenceID == t.ReferenceID {
				return &pgconn.PgError{Code: "23505", ConstraintName: "wallet_transactions_user_reference_key"}
			}
		}
	}
	r.txns = append(r.txns, *t)
	return nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, q ports.Querier, userID uuid.UUID, referenceID string) (*domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.txns {
		if r.txns[i].UserID == userID && r.txns[i].ReferenceID == referenceID {
			clone := r.txns[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) History(ctx context.Context, params ports.HistoryParams) ([]domain.WalletTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.WalletTransaction
	for _, t := range r.txns {
		if t.UserID != params.UserID {
			continue
		}
		if params.Platform != "" && t.Platform != params.Platform {
			continue
		}
		if params.From != nil && t.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && t.CreatedAt.After(*params.To) {
			continue
		}
		matched = append(matched, t)
	}
	// newest first; insertion order breaks created_at ties
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))

	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.WalletTransaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryTransactionRepo) RecentByUser(ctx context.Context, q ports.Querier, userID uuid.UUID, since time.Time, limit int) ([]domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var recent []domain.WalletTransaction
	for _, t := range r.txns {
		if t.UserID == userID && !t.CreatedAt.Before(since) {
			recent = append(recent, t)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	return recent, nil
}

func (r *inMemoryTransactionRepo) TotalSpending(ctx context.Context, userID uuid.UUID, platform string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, t := range r.txns {
		if t.UserID != userID || t.Type != domain.TransactionTypeDebit {
			continue
		}
		if platform != "" && t.Platform != platform {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu          sync.RWMutex
	chains      map[uuid.UUID][]domain.AuditRecord
	quarantined map[uuid.UUID]uuid.UUID // user -> first broken record
	globalSeq   int64
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{
		chains:      make(map[uuid.UUID][]domain.AuditRecord),
		quarantined: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *inMemoryAuditRepo) Append(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globalSeq++
	rec.GlobalSeq = r.globalSeq
	r.chains[rec.UserID] = append(r.chains[rec.UserID], *rec)
	return nil
}

func (r *inMemoryAuditRepo) GetLastForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := r.chains[userID]
	if len(chain) == 0 {
		return nil, nil
	}
	clone := chain[len(chain)-1]
	return &clone, nil
}

func (r *inMemoryAuditRepo) ListByUserAsc(ctx context.Context, userID uuid.UUID) ([]domain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := r.chains[userID]
	out := make([]domain.AuditRecord, len(chain))
	copy(out, chain)
	return out, nil
}

func (r *inMemoryAuditRepo) ListByUserDesc(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	asc, _ := r.ListByUserAsc(ctx, userID)
	for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
		asc[i], asc[j] = asc[j], asc[i]
	}
	if limit > 0 && len(asc) > limit {
		asc = asc[:limit]
	}
	return asc, nil
}

func (r *inMemoryAuditRepo) ListUsersWithRecords(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]uuid.UUID, 0, len(r.chains))
	for userID := range r.chains {
		users = append(users, userID)
	}
	return users, nil
}

func (r *inMemoryAuditRepo) CountByRiskBand(ctx context.Context) (map[domain.RiskBand]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[domain.RiskBand]int64{
		domain.RiskBandLow:      0,
		domain.RiskBandMedium:   0,
		domain.RiskBandHigh:     0,
		domain.RiskBandCritical: 0,
	}
	for _, chain := range r.chains {
		for _, rec := range chain {
			counts[domain.BandForScore(rec.FraudScore)]++
		}
	}
	return counts, nil
}

func (r *inMemoryAuditRepo) ListHighRisk(ctx context.Context, minScore int, limit int) ([]domain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var recs []domain.AuditRecord
	for _, chain := range r.chains {
		for _, rec := range chain {
			if rec.FraudScore >= minScore {
				recs = append(recs, rec)
			}
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].GlobalSeq > recs[j].GlobalSeq })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (r *inMemoryAuditRepo) IsQuarantined(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.quarantined[userID]
	return ok, nil
}

func (r *inMemoryAuditRepo) Quarantine(ctx context.Context, userID uuid.UUID, brokenRecordID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quarantined[userID]; !ok {
		r.quarantined[userID] = brokenRecordID
	}
	return nil
}

func (r *inMemoryAuditRepo) Unquarantine(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.quarantined, userID)
	return nil
}

// tamper mutates a stored chain record in place, simulating a direct
// database edit that bypasses the service layer.
func (r *inMemoryAuditRepo) tamper(userID uuid.UUID, idx int, fn func(*domain.AuditRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.chains[userID][idx])
}

// --- In-Memory Flagging Rule Repo ---

type inMemoryFlaggingRuleRepo struct {
	mu    sync.RWMutex
	rules []domain.FlaggingRule
}

func newInMemoryFlaggingRuleRepo(rules []domain.FlaggingRule) *inMemoryFlaggingRuleRepo {
	return &inMemoryFlaggingRuleRepo{rules: rules}
}

func (r *inMemoryFlaggingRuleRepo) ListActive(ctx context.Context) ([]domain.FlaggingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.FlaggingRule, 0, len(r.rules))
	for _, rule := range r.rules {
		if rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *inMemoryFlaggingRuleRepo) replace(rules []domain.FlaggingRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = rules
}

// --- Serializing Transactor ---

// serializingTransactor runs one transaction at a time, standing in for the
// row-level FOR UPDATE locks of the real database. This makes the concurrency
// tests deterministic: overlapping mutations are applied sequentially.
type serializingTransactor struct {
	mu sync.Mutex
}

func newSerializingTransactor() *serializingTransactor {
	return &serializingTransactor{}
}

func (t *serializingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: &t.mu}, nil
}

// serialTx is a no-op pgx.Tx that releases the transactor lock exactly once,
// on Commit or the first Rollback.
type serialTx struct {
	release *sync.Mutex
	done    bool
}

func (t *serialTx) finish() {
	if !t.done {
		t.done = true
		t.release.Unlock()
	}
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
