package domain

import "time"

// FlagReason categorizes why a rule flags content.
type FlagReason string

const (
	FlagReasonSafetyConcern FlagReason = "safety_concern"
	FlagReasonDispute       FlagReason = "dispute"
	FlagReasonProfanity     FlagReason = "profanity"
	FlagReasonOther         FlagReason = "other"
)

// Severity orders flagging rules for display. Higher rank wins when
// multiple rules match the same text.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordering weight of s. Unknown severities rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// FlaggingRule matches free-text content against a keyword for one language.
// Rules are seeded and administered out-of-band; the engine only reads them.
type FlaggingRule struct {
	ID                int64      `json:"id"`
	Keyword           string     `json:"keyword"`
	FlagReason        FlagReason `json:"flag_reason"`
	Severity          Severity   `json:"severity"`
	Language          string     `json:"language"`
	AutoHideReview    bool       `json:"auto_hide_review"`
	RequireModeration bool       `json:"require_moderation"`
	NotifyManagement  bool       `json:"notify_management"`
	IsActive          bool       `json:"is_active"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FlagDecision is the union outcome of all rules matching a piece of text.
type FlagDecision struct {
	MatchedRules      []FlaggingRule `json:"matched_rules"`
	MaxSeverity       Severity       `json:"max_severity,omitempty"`
	AutoHide          bool           `json:"auto_hide"`
	RequireModeration bool           `json:"require_moderation"`
	NotifyManagement  bool           `json:"notify_management"`
}
