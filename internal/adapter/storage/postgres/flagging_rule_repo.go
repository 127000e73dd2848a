package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
)

// FlaggingRuleRepo implements ports.FlaggingRuleRepository. Rules are
// administered out-of-band; this repository only reads them.
type FlaggingRuleRepo struct {
	pool Pool
}

// NewFlaggingRuleRepo creates a new FlaggingRuleRepo.
func NewFlaggingRuleRepo(pool Pool) *FlaggingRuleRepo {
	return &FlaggingRuleRepo{pool: pool}
}

// ListActive returns all active flagging rules.
func (r *FlaggingRuleRepo) ListActive(ctx context.Context) ([]domain.FlaggingRule, error) {
	query := `SELECT id, keyword, flag_reason, severity, language, auto_hide_review,
		require_moderation, notify_management, is_active, updated_at
		FROM flagging_rules WHERE is_active = TRUE ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active flagging rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.FlaggingRule
	for rows.Next() {
		rule := domain.FlaggingRule{}
		err := rows.Scan(
			&rule.ID, &rule.Keyword, &rule.FlagReason, &rule.Severity, &rule.Language,
			&rule.AutoHideReview, &rule.RequireModeration, &rule.NotifyManagement,
			&rule.IsActive, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan flagging rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flagging rules: %w", err)
	}
	return rules, nil
}
