package service

import (
	"context"
	"errors"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testRules() []domain.FlaggingRule {
	return []domain.FlaggingRule{
		{
			ID: 1, Keyword: "scam", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityHigh, Language: "en",
			RequireModeration: true, IsActive: true,
		},
		{
			ID: 2, Keyword: "refund", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityMedium, Language: "en",
			NotifyManagement: true, IsActive: true,
		},
		{
			ID: 3, Keyword: "damn", FlagReason: domain.FlagReasonProfanity,
			Severity: domain.SeverityLow, Language: "en",
			AutoHideReview: true, IsActive: true,
		},
		{
			ID: 4, Keyword: "הונאה", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityCritical, Language: "he",
			RequireModeration: true, NotifyManagement: true, IsActive: true,
		},
	}
}

func setupReviewFlagService(t *testing.T) (*ReviewFlagServiceImpl, *mocks.MockFlaggingRuleRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFlaggingRuleRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any()).Return(testRules(), nil)

	svc, err := NewReviewFlagService(context.Background(), repo, zerolog.Nop())
	require.NoError(t, err)
	return svc, repo
}

func TestReviewFlagService_InitialLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFlaggingRuleRepository(ctrl)
	repo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := NewReviewFlagService(context.Background(), repo, zerolog.Nop())
	assert.Error(t, err)
}

func TestReviewFlagService_NoMatch(t *testing.T) {
	svc, _ := setupReviewFlagService(t)

	decision := svc.Evaluate("lovely product, would buy again", "en")
	assert.Empty(t, decision.MatchedRules)
	assert.False(t, decision.AutoHide)
	assert.False(t, decision.RequireModeration)
	assert.False(t, decision.NotifyManagement)
	assert.Empty(t, decision.MaxSeverity)
}

func TestReviewFlagService_CaseInsensitiveSubstring(t *testing.T) {
	svc, _ := setupReviewFlagService(t)

	decision := svc.Evaluate("This is a SCAM, total ScAmMeRs", "en")
	require.Len(t, decision.MatchedRules, 1)
	assert.Equal(t, int64(1), decision.MatchedRules[0].ID)
	assert.Equal(t, domain.SeverityHigh, decision.MaxSeverity)
	assert.True(t, decision.RequireModeration)
}

func TestReviewFlagService_UnionOfBooleansAndMaxSeverity(t *testing.T) {
	svc, _ := setupReviewFlagService(t)

	decision := svc.Evaluate("damn scam, I want a refund", "en")
	assert.Len(t, decision.MatchedRules, 3)
	assert.Equal(t, domain.SeverityHigh, decision.MaxSeverity)
	assert.True(t, decision.AutoHide)
	assert.True(t, decision.RequireModeration)
	assert.True(t, decision.NotifyManagement)
}

func TestReviewFlagService_LanguageScoping(t *testing.T) {
	svc, _ := setupReviewFlagService(t)

	// English keywords never match Hebrew-declared text and vice versa.
	decision := svc.Evaluate("scam refund", "he")
	assert.Empty(t, decision.MatchedRules)

	decision = svc.Evaluate("זה הונאה", "he")
	require.Len(t, decision.MatchedRules, 1)
	assert.Equal(t, domain.SeverityCritical, decision.MaxSeverity)

	// Language codes are matched case-insensitively.
	decision = svc.Evaluate("scam", "EN")
	assert.Len(t, decision.MatchedRules, 1)
}

func TestReviewFlagService_ReloadSwapsSnapshot(t *testing.T) {
	svc, repo := setupReviewFlagService(t)
	assert.Equal(t, int64(1), svc.Version())

	repo.EXPECT().ListActive(gomock.Any()).Return([]domain.FlaggingRule{
		{ID: 9, Keyword: "fraud", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityCritical, Language: "en", IsActive: true},
	}, nil)
	require.NoError(t, svc.Reload(context.Background()))
	assert.Equal(t, int64(2), svc.Version())

	// old rules are gone, new rules active
	assert.Empty(t, svc.Evaluate("scam", "en").MatchedRules)
	assert.Len(t, svc.Evaluate("this is fraud", "en").MatchedRules, 1)
}

func TestReviewFlagService_ReloadFailureKeepsSnapshot(t *testing.T) {
	svc, repo := setupReviewFlagService(t)

	repo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db down"))
	assert.Error(t, svc.Reload(context.Background()))

	// previous snapshot still serves evaluations
	assert.Equal(t, int64(1), svc.Version())
	assert.Len(t, svc.Evaluate("scam", "en").MatchedRules, 1)
}
