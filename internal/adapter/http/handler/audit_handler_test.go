package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuditRouter(t *testing.T) (*gin.Engine, *mocks.MockAuditChainService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuditChainService(ctrl)
	h := NewAuditHandler(svc)

	r := gin.New()
	r.POST("/audit/records", h.AppendRecord)
	r.GET("/audit/:userId/trail", h.Trail)
	r.POST("/audit/:userId/verify", h.VerifyChain)
	r.POST("/audit/verify", h.VerifyAll)
	r.GET("/audit/fraud-dashboard", h.FraudDashboard)
	return r, svc
}

func sampleRecord(userID uuid.UUID, seq int64, score int) domain.AuditRecord {
	return domain.AuditRecord{
		ID:           uuid.New(),
		UserID:       userID,
		GlobalSeq:    seq,
		ChainSeq:     seq,
		EventType:    domain.AuditEventWalletDebit,
		EntityType:   "wallet_transaction",
		EntityID:     uuid.NewString(),
		NewState:     json.RawMessage(`{"balance":"70"}`),
		FraudScore:   score,
		PreviousHash: domain.GenesisHash,
		CurrentHash:  "abc123",
		Verified:     true,
		CreatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuditHandler_AppendRecord(t *testing.T) {
	r, svc := newAuditRouter(t)
	userID := uuid.New()
	rec := sampleRecord(userID, 1, 80)

	svc.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.AuditRecordRequest) (*domain.AuditRecord, error) {
			assert.Equal(t, userID, req.UserID)
			assert.Equal(t, domain.AuditEventType("review.flagged"), req.EventType)
			assert.Equal(t, 80, req.FraudScore)
			return &rec, nil
		})

	w, body := doJSON(r, http.MethodPost, "/audit/records",
		`{"user_id":"`+userID.String()+`","event_type":"review.flagged","entity_type":"review","entity_id":"rev-1","new_state":{"hidden":true},"fraud_score":80}`)

	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["chain_seq"])
	assert.Equal(t, "critical", data["risk_band"])
}

func TestAuditHandler_AppendRecord_Validation(t *testing.T) {
	r, _ := newAuditRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing new_state", `{"user_id":"` + uuid.NewString() + `","event_type":"x","entity_type":"y","entity_id":"z"}`},
		{"score out of range", `{"user_id":"` + uuid.NewString() + `","event_type":"x","entity_type":"y","entity_id":"z","new_state":{},"fraud_score":101}`},
		{"bad user id", `{"user_id":"nope","event_type":"x","entity_type":"y","entity_id":"z","new_state":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(r, http.MethodPost, "/audit/records", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "LED_003", body["error_code"])
		})
	}
}

func TestAuditHandler_Trail_ClampsLimit(t *testing.T) {
	r, svc := newAuditRouter(t)
	userID := uuid.New()

	svc.EXPECT().
		Trail(gomock.Any(), userID, maxTrailLimit).
		Return([]domain.AuditRecord{sampleRecord(userID, 2, 0), sampleRecord(userID, 1, 0)}, nil)

	w, body := doJSON(r, http.MethodGet, "/audit/"+userID.String()+"/trail?limit=9999", "")
	require.Equal(t, http.StatusOK, w.Code)

	records := body["data"].(map[string]any)["records"].([]any)
	require.Len(t, records, 2)
	assert.Equal(t, float64(2), records[0].(map[string]any)["chain_seq"])
}

func TestAuditHandler_VerifyChain(t *testing.T) {
	r, svc := newAuditRouter(t)
	userID := uuid.New()
	brokenID := uuid.New()

	svc.EXPECT().
		VerifyChain(gomock.Any(), userID).
		Return(&ports.ChainVerification{
			UserID:        userID,
			Valid:         false,
			Records:       7,
			FirstBrokenID: &brokenID,
		}, nil)

	w, body := doJSON(r, http.MethodPost, "/audit/"+userID.String()+"/verify", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, float64(7), data["records"])
	assert.Equal(t, brokenID.String(), data["first_broken_record_id"])
}

func TestAuditHandler_VerifyAll(t *testing.T) {
	r, svc := newAuditRouter(t)

	svc.EXPECT().
		VerifyAll(gomock.Any()).
		Return([]ports.ChainVerification{
			{UserID: uuid.New(), Valid: true, Records: 3},
			{UserID: uuid.New(), Valid: true, Records: 1},
		}, nil)

	w, body := doJSON(r, http.MethodPost, "/audit/verify", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]any), 2)
}

func TestAuditHandler_FraudDashboard(t *testing.T) {
	r, svc := newAuditRouter(t)
	userID := uuid.New()

	svc.EXPECT().
		FraudDashboard(gomock.Any()).
		Return(&ports.FraudDashboard{
			Counts: map[domain.RiskBand]int64{
				domain.RiskBandLow:      120,
				domain.RiskBandCritical: 2,
			},
			HighRisk:    []domain.AuditRecord{sampleRecord(userID, 9, 90)},
			GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}, nil)

	w, body := doJSON(r, http.MethodGet, "/audit/fraud-dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	counts := data["counts"].(map[string]any)
	assert.Equal(t, float64(120), counts["low"])
	assert.Equal(t, float64(2), counts["critical"])
	assert.Len(t, data["high_risk"].([]any), 1)
}
