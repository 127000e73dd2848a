package handler

import (
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
)

func toBalanceResponse(b *domain.WalletBalance) dto.BalanceResponse {
	return dto.BalanceResponse{
		UserID:        b.UserID.String(),
		Balance:       b.Balance.String(),
		Currency:      b.Currency,
		LoyaltyPoints: b.LoyaltyPoints,
		UpdatedAt:     b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.WalletTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           t.ID.String(),
		UserID:       t.UserID.String(),
		Amount:       t.Amount.String(),
		Type:         string(t.Type),
		Platform:     t.Platform,
		Description:  t.Description,
		ReferenceID:  t.ReferenceID,
		BalanceAfter: t.BalanceAfter.String(),
		Metadata:     t.Metadata,
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toAuditRecordResponse(rec *domain.AuditRecord) dto.AuditRecordResponse {
	return dto.AuditRecordResponse{
		ID:           rec.ID.String(),
		UserID:       rec.UserID.String(),
		GlobalSeq:    rec.GlobalSeq,
		ChainSeq:     rec.ChainSeq,
		EventType:    string(rec.EventType),
		EntityType:   rec.EntityType,
		EntityID:     rec.EntityID,
		FraudScore:   rec.FraudScore,
		FraudSignals: rec.FraudSignals,
		RiskBand:     string(domain.BandForScore(rec.FraudScore)),
		PreviousHash: rec.PreviousHash,
		CurrentHash:  rec.CurrentHash,
		Verified:     rec.Verified,
		CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toChainVerificationResponse(v *ports.ChainVerification) dto.ChainVerificationResponse {
	resp := dto.ChainVerificationResponse{
		UserID:  v.UserID.String(),
		Valid:   v.Valid,
		Records: v.Records,
	}
	if v.FirstBrokenID != nil {
		id := v.FirstBrokenID.String()
		resp.FirstBrokenID = &id
	}
	return resp
}

func toFlagDecisionResponse(reviewID string, d domain.FlagDecision, version int64) dto.FlagDecisionResponse {
	matched := make([]dto.MatchedRuleResponse, 0, len(d.MatchedRules))
	for _, r := range d.MatchedRules {
		matched = append(matched, dto.MatchedRuleResponse{
			ID:         r.ID,
			Keyword:    r.Keyword,
			FlagReason: string(r.FlagReason),
			Severity:   string(r.Severity),
		})
	}
	return dto.FlagDecisionResponse{
		ReviewID:          reviewID,
		Flagged:           len(matched) > 0,
		MatchedRules:      matched,
		MaxSeverity:       string(d.MaxSeverity),
		AutoHide:          d.AutoHide,
		RequireModeration: d.RequireModeration,
		NotifyManagement:  d.NotifyManagement,
		RuleVersion:       version,
	}
}
