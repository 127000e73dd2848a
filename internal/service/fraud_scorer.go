package service

import (
	"fmt"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Signal weights. The total is clamped to [0,100].
const (
	weightHighValueDebit = 30
	weightDebitVelocity  = 25
	weightBalanceDrain   = 20
	weightPlatformSpread = 15
	weightRepeatedAmount = 10
)

// WeightedFraudScorer implements ports.FraudScorer as a fixed set of weighted
// signals. Scoring is a pure function of the event and its history window:
// identical inputs always produce identical output, which audit reproducibility
// depends on. The event timestamp, never the wall clock, anchors the window.
type WeightedFraudScorer struct {
	highValue      decimal.Decimal
	velocityCount  int
	drainRatio     decimal.Decimal
	platformSpread int
	repeatedMin    int
	window         time.Duration
	log            zerolog.Logger
}

// NewFraudScorer creates a scorer from configuration.
func NewFraudScorer(cfg config.FraudConfig, window time.Duration, log zerolog.Logger) (*WeightedFraudScorer, error) {
	highValue, err := decimal.NewFromString(cfg.HighValueThreshold)
	if err != nil {
		return nil, fmt.Errorf("parse high_value_threshold %q: %w", cfg.HighValueThreshold, err)
	}
	if cfg.DrainRatioPercent <= 0 || cfg.DrainRatioPercent > 100 {
		return nil, fmt.Errorf("drain_ratio_percent out of range: %d", cfg.DrainRatioPercent)
	}

	return &WeightedFraudScorer{
		highValue:      highValue,
		velocityCount:  cfg.VelocityCount,
		drainRatio:     decimal.NewFromInt(int64(cfg.DrainRatioPercent)).Div(decimal.NewFromInt(100)),
		platformSpread: cfg.PlatformSpread,
		repeatedMin:    cfg.RepeatedAmountMin,
		window:         window,
		log:            log,
	}, nil
}

// Score evaluates every signal in fixed order and returns the clamped total
// plus the names of the signals that fired.
func (s *WeightedFraudScorer) Score(event domain.FraudEvent, history []domain.WalletTransaction) (int, []string) {
	windowed := s.inWindow(event, history)

	score := 0
	var signals []string

	fire := func(name string, weight int) {
		score += weight
		signals = append(signals, name)
	}

	if event.Type == domain.TransactionTypeDebit && event.Amount.GreaterThanOrEqual(s.highValue) {
		fire("high_value_debit", weightHighValueDebit)
	}

	if s.debitCount(windowed)+1 > s.velocityCount && event.Type == domain.TransactionTypeDebit {
		fire("debit_velocity", weightDebitVelocity)
	}

	if event.Type == domain.TransactionTypeDebit && event.BalanceBefore.IsPositive() &&
		event.Amount.GreaterThanOrEqual(event.BalanceBefore.Mul(s.drainRatio)) {
		fire("balance_drain", weightBalanceDrain)
	}

	if s.platformCount(event, windowed) >= s.platformSpread {
		fire("platform_spread", weightPlatformSpread)
	}

	if s.sameAmountCount(event, windowed)+1 >= s.repeatedMin {
		fire("repeated_amount", weightRepeatedAmount)
	}

	if score > 100 {
		score = 100
	}
	return score, signals
}

// inWindow keeps only history entries inside [event-window, event].
func (s *WeightedFraudScorer) inWindow(event domain.FraudEvent, history []domain.WalletTransaction) []domain.WalletTransaction {
	start := event.OccurredAt.Add(-s.window)
	var out []domain.WalletTransaction
	for _, txn := range history {
		if !txn.CreatedAt.Before(start) && !txn.CreatedAt.After(event.OccurredAt) {
			out = append(out, txn)
		}
	}
	return out
}

func (s *WeightedFraudScorer) debitCount(txns []domain.WalletTransaction) int {
	n := 0
	for _, txn := range txns {
		if txn.Type == domain.TransactionTypeDebit {
			n++
		}
	}
	return n
}

func (s *WeightedFraudScorer) platformCount(event domain.FraudEvent, txns []domain.WalletTransaction) int {
	seen := map[string]struct{}{event.Platform: {}}
	for _, txn := range txns {
		seen[txn.Platform] = struct{}{}
	}
	return len(seen)
}

func (s *WeightedFraudScorer) sameAmountCount(event domain.FraudEvent, txns []domain.WalletTransaction) int {
	n := 0
	for _, txn := range txns {
		if txn.Amount.Equal(event.Amount) && txn.Type == event.Type {
			n++
		}
	}
	return n
}
