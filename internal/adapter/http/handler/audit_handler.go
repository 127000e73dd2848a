package handler

import (
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultTrailLimit = 50
	maxTrailLimit     = 200
)

// AuditHandler handles hash chain and fraud dashboard endpoints.
type AuditHandler struct {
	auditSvc ports.AuditChainService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditSvc ports.AuditChainService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// AppendRecord handles POST /api/v1/audit/records. This is an internal
// endpoint for collaborator services that audit their own events.
func (h *AuditHandler) AppendRecord(c *gin.Context) {
	var req dto.AuditRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a valid UUID"))
		return
	}

	rec, err := h.auditSvc.Record(c.Request.Context(), ports.AuditRecordRequest{
		UserID:        userID,
		EventType:     domain.AuditEventType(req.EventType),
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		PreviousState: req.PreviousState,
		NewState:      req.NewState,
		FraudScore:    req.FraudScore,
		FraudSignals:  req.FraudSignals,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAuditRecordResponse(rec))
}

// Trail handles GET /api/v1/audit/:userId/trail.
func (h *AuditHandler) Trail(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit := intQuery(c, "limit", defaultTrailLimit)
	if limit < 1 {
		limit = defaultTrailLimit
	}
	if limit > maxTrailLimit {
		limit = maxTrailLimit
	}

	records, err := h.auditSvc.Trail(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AuditRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, toAuditRecordResponse(&records[i]))
	}

	response.OK(c, dto.AuditTrailResponse{
		UserID:  userID.String(),
		Records: items,
	})
}

// VerifyChain handles POST /api/v1/audit/:userId/verify.
func (h *AuditHandler) VerifyChain(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	result, err := h.auditSvc.VerifyChain(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toChainVerificationResponse(result))
}

// VerifyAll handles POST /api/v1/audit/verify.
func (h *AuditHandler) VerifyAll(c *gin.Context) {
	results, err := h.auditSvc.VerifyAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ChainVerificationResponse, 0, len(results))
	for i := range results {
		items = append(items, toChainVerificationResponse(&results[i]))
	}
	response.OK(c, items)
}

// FraudDashboard handles GET /api/v1/audit/fraud-dashboard.
func (h *AuditHandler) FraudDashboard(c *gin.Context) {
	dash, err := h.auditSvc.FraudDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	counts := make(map[string]int64, len(dash.Counts))
	for band, n := range dash.Counts {
		counts[string(band)] = n
	}
	highRisk := make([]dto.AuditRecordResponse, 0, len(dash.HighRisk))
	for i := range dash.HighRisk {
		highRisk = append(highRisk, toAuditRecordResponse(&dash.HighRisk[i]))
	}

	response.OK(c, dto.FraudDashboardResponse{
		Counts:      counts,
		HighRisk:    highRisk,
		GeneratedAt: dash.GeneratedAt.UTC().Format(time.RFC3339),
	})
}
