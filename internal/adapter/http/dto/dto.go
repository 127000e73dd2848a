package dto

import "encoding/json"

// CreateWalletRequest is the request body for opening a new balance.
type CreateWalletRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Currency string `json:"currency" binding:"required,len=3,currency_code"`
}

// ApplyTransactionRequest is the request body for a credit or debit.
// Amount is a decimal string; floats never cross the wire.
type ApplyTransactionRequest struct {
	Amount      string            `json:"amount" binding:"required,max=32"`
	Type        string            `json:"type" binding:"required,oneof=credit debit"`
	Platform    string            `json:"platform" binding:"required,max=50,safe_id"`
	Description string            `json:"description" binding:"max=500"`
	ReferenceID string            `json:"reference_id" binding:"omitempty,max=100,safe_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// LoyaltyAdjustRequest is the request body for a loyalty point adjustment.
type LoyaltyAdjustRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// AuditRecordRequest is the internal request body for appending a chain record.
type AuditRecordRequest struct {
	UserID        string          `json:"user_id" binding:"required,uuid"`
	EventType     string          `json:"event_type" binding:"required,max=64"`
	EntityType    string          `json:"entity_type" binding:"required,max=64"`
	EntityID      string          `json:"entity_id" binding:"required,max=128"`
	PreviousState json.RawMessage `json:"previous_state,omitempty"`
	NewState      json.RawMessage `json:"new_state" binding:"required"`
	FraudScore    int             `json:"fraud_score" binding:"min=0,max=100"`
	FraudSignals  []string        `json:"fraud_signals,omitempty"`
}

// EvaluateReviewRequest is the request body for flagging free-text content.
type EvaluateReviewRequest struct {
	Text     string `json:"text" binding:"required,max=5000"`
	Language string `json:"language" binding:"omitempty,len=2,alpha"`
}

// BalanceResponse is the response body for balance queries and mutations.
type BalanceResponse struct {
	UserID        string `json:"user_id"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	LoyaltyPoints int64  `json:"loyalty_points"`
	UpdatedAt     string `json:"updated_at"`
}

// TransactionResponse is the response body for one ledger entry.
type TransactionResponse struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Amount       string            `json:"amount"`
	Type         string            `json:"type"`
	Platform     string            `json:"platform"`
	Description  string            `json:"description,omitempty"`
	ReferenceID  string            `json:"reference_id,omitempty"`
	BalanceAfter string            `json:"balance_after"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

// ApplyTransactionResponse pairs the written entry with the resulting balance.
type ApplyTransactionResponse struct {
	Balance     BalanceResponse     `json:"balance"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionListResponse wraps a paginated transaction log page.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// SpendingResponse is the response body for the lifetime spending query.
type SpendingResponse struct {
	UserID        string `json:"user_id"`
	Platform      string `json:"platform,omitempty"`
	TotalSpending string `json:"total_spending"`
}

// AuditRecordResponse is the response body for one chain record.
type AuditRecordResponse struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	GlobalSeq    int64    `json:"global_seq"`
	ChainSeq     int64    `json:"chain_seq"`
	EventType    string   `json:"event_type"`
	EntityType   string   `json:"entity_type"`
	EntityID     string   `json:"entity_id"`
	FraudScore   int      `json:"fraud_score"`
	FraudSignals []string `json:"fraud_signals,omitempty"`
	RiskBand     string   `json:"risk_band"`
	PreviousHash string   `json:"previous_hash"`
	CurrentHash  string   `json:"current_hash"`
	Verified     bool     `json:"verified"`
	CreatedAt    string   `json:"created_at"`
}

// AuditTrailResponse is the response body for a user's audit trail.
type AuditTrailResponse struct {
	UserID  string                `json:"user_id"`
	Records []AuditRecordResponse `json:"records"`
}

// ChainVerificationResponse is the outcome of an on-demand chain check.
type ChainVerificationResponse struct {
	UserID        string  `json:"user_id"`
	Valid         bool    `json:"valid"`
	Records       int     `json:"records"`
	FirstBrokenID *string `json:"first_broken_record_id,omitempty"`
}

// FraudDashboardResponse aggregates records by risk band.
type FraudDashboardResponse struct {
	Counts      map[string]int64      `json:"counts"`
	HighRisk    []AuditRecordResponse `json:"high_risk"`
	GeneratedAt string                `json:"generated_at"`
}

// MatchedRuleResponse describes one rule that matched review text.
type MatchedRuleResponse struct {
	ID         int64  `json:"id"`
	Keyword    string `json:"keyword"`
	FlagReason string `json:"flag_reason"`
	Severity   string `json:"severity"`
}

// FlagDecisionResponse is the union outcome for one piece of review text.
type FlagDecisionResponse struct {
	ReviewID          string                `json:"review_id"`
	Flagged           bool                  `json:"flagged"`
	MatchedRules      []MatchedRuleResponse `json:"matched_rules"`
	MaxSeverity       string                `json:"max_severity,omitempty"`
	AutoHide          bool                  `json:"auto_hide"`
	RequireModeration bool                  `json:"require_moderation"`
	NotifyManagement  bool                  `json:"notify_management"`
	RuleVersion       int64                 `json:"rule_version"`
}

// RuleReloadResponse reports the snapshot version after a reload.
type RuleReloadResponse struct {
	Version int64 `json:"version"`
}
