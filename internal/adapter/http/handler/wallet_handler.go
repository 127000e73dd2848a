package handler

import (
	"strconv"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// WalletHandler handles balance and transaction log endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a valid UUID"))
		return
	}

	balance, err := h.ledgerSvc.CreateBalance(c.Request.Context(), userID, req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBalanceResponse(balance))
}

// GetBalance handles GET /api/v1/wallets/:userId.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	balance, err := h.ledgerSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBalanceResponse(balance))
}

// ApplyTransaction handles POST /api/v1/wallets/:userId/transactions.
func (h *WalletHandler) ApplyTransaction(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	out, err := h.ledgerSvc.ApplyTransaction(c.Request.Context(), ports.ApplyRequest{
		UserID:      userID,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		Platform:    req.Platform,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.ApplyTransactionResponse{
		Balance:     toBalanceResponse(out.Balance),
		Transaction: toTransactionResponse(out.Transaction),
	}
	// An identical replay is a conflict carrying the original result, not a
	// new resource.
	if out.Replayed {
		response.Conflict(c, body)
		return
	}
	response.Created(c, body)
}

// AdjustLoyaltyPoints handles POST /api/v1/wallets/:userId/loyalty.
func (h *WalletHandler) AdjustLoyaltyPoints(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.LoyaltyAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.ledgerSvc.AdjustLoyaltyPoints(c.Request.Context(), userID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBalanceResponse(balance))
}

// History handles GET /api/v1/wallets/:userId/transactions.
func (h *WalletHandler) History(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	params := ports.HistoryParams{
		UserID:   userID,
		Platform: c.Query("platform"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", defaultPageSize),
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	var parseErr error
	if params.From, parseErr = timeQuery(c, "from"); parseErr != nil {
		response.Error(c, apperror.Validation("from must be RFC3339"))
		return
	}
	if params.To, parseErr = timeQuery(c, "to"); parseErr != nil {
		response.Error(c, apperror.Validation("to must be RFC3339"))
		return
	}

	txns, total, err := h.ledgerSvc.History(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// Spending handles GET /api/v1/wallets/:userId/spending.
func (h *WalletHandler) Spending(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	platform := c.Query("platform")
	total, err := h.ledgerSvc.TotalSpending(c.Request.Context(), userID, platform)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SpendingResponse{
		UserID:        userID.String(),
		Platform:      platform,
		TotalSpending: total.String(),
	})
}

// parseUserID extracts and validates the :userId path parameter. On failure
// it writes the error response and returns ok=false.
func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, apperror.Validation("userId must be a valid UUID"))
		return uuid.Nil, false
	}
	return userID, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
