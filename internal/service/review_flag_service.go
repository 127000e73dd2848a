package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// ruleSnapshot is an immutable view of the active rule table. Evaluations in
// flight keep the snapshot they started with; Reload swaps the pointer
// atomically so readers never observe a half-updated rule set.
type ruleSnapshot struct {
	version int64
	// rules by lowercased language, keywords pre-lowered for matching
	byLanguage map[string][]compiledRule
}

type compiledRule struct {
	keyword string // lowercased
	rule    domain.FlaggingRule
}

// ReviewFlagServiceImpl implements ports.ReviewFlagService.
type ReviewFlagServiceImpl struct {
	repo     ports.FlaggingRuleRepository
	log      zerolog.Logger
	snapshot atomic.Pointer[ruleSnapshot]
	versions atomic.Int64
}

// NewReviewFlagService creates the engine and loads the initial snapshot.
func NewReviewFlagService(ctx context.Context, repo ports.FlaggingRuleRepository, log zerolog.Logger) (*ReviewFlagServiceImpl, error) {
	s := &ReviewFlagServiceImpl{repo: repo, log: log}
	if err := s.Reload(ctx); err != nil {
		return nil, fmt.Errorf("initial rule load: %w", err)
	}
	return s, nil
}

// Reload fetches the active rules and atomically swaps the snapshot.
func (s *ReviewFlagServiceImpl) Reload(ctx context.Context) error {
	rules, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active flagging rules: %w", err)
	}

	byLang := make(map[string][]compiledRule)
	for _, r := range rules {
		lang := strings.ToLower(r.Language)
		byLang[lang] = append(byLang[lang], compiledRule{
			keyword: strings.ToLower(r.Keyword),
			rule:    r,
		})
	}

	snap := &ruleSnapshot{
		version:    s.versions.Add(1),
		byLanguage: byLang,
	}
	s.snapshot.Store(snap)

	s.log.Info().
		Int("rules", len(rules)).
		Int64("version", snap.version).
		Msg("flagging rule snapshot reloaded")
	return nil
}

// Version returns the version of the current snapshot.
func (s *ReviewFlagServiceImpl) Version() int64 {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.version
	}
	return 0
}

// Evaluate matches text against the active rules for its declared language.
// Matching is case-insensitive substring matching; rules are never
// cross-language matched. The decision is the union of matched booleans and
// the maximum matched severity.
func (s *ReviewFlagServiceImpl) Evaluate(text string, language string) domain.FlagDecision {
	snap := s.snapshot.Load()
	decision := domain.FlagDecision{}
	if snap == nil {
		return decision
	}

	lowered := strings.ToLower(text)
	for _, cr := range snap.byLanguage[strings.ToLower(language)] {
		if !strings.Contains(lowered, cr.keyword) {
			continue
		}
		decision.MatchedRules = append(decision.MatchedRules, cr.rule)
		decision.AutoHide = decision.AutoHide || cr.rule.AutoHideReview
		decision.RequireModeration = decision.RequireModeration || cr.rule.RequireModeration
		decision.NotifyManagement = decision.NotifyManagement || cr.rule.NotifyManagement
		if cr.rule.Severity.Rank() > decision.MaxSeverity.Rank() {
			decision.MaxSeverity = cr.rule.Severity
		}
	}
	return decision
}
