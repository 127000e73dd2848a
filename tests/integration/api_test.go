package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack with in-memory repos and
// miniredis behind the real Redis stores. The HTTP layer, middleware,
// handlers and services are all the production implementations.

type testApp struct {
	server    *httptest.Server
	redis     *miniredis.Miniredis
	auditRepo *inMemoryAuditRepo
	ruleRepo  *inMemoryFlaggingRuleRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	walletRepo := newInMemoryWalletRepo()
	txRepo := newInMemoryTransactionRepo()
	auditRepo := newInMemoryAuditRepo()
	ruleRepo := newInMemoryFlaggingRuleRepo([]domain.FlaggingRule{
		{ID: 1, Keyword: "scam", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityHigh, Language: "en", RequireModeration: true, IsActive: true},
		{ID: 2, Keyword: "damn", FlagReason: domain.FlagReasonProfanity,
			Severity: domain.SeverityLow, Language: "en", AutoHideReview: true, IsActive: true},
	})
	transactor := newSerializingTransactor()

	log := logger.New("error", false)
	clock := service.NewSystemClock()

	scorer, err := service.NewFraudScorer(config.FraudConfig{
		HighValueThreshold: "500",
		VelocityCount:      5,
		DrainRatioPercent:  80,
		PlatformSpread:     3,
		RepeatedAmountMin:  3,
		HighRiskAlertScore: 75,
	}, 30*time.Minute, log)
	require.NoError(t, err)

	auditSvc := service.NewAuditChainService(auditRepo, transactor, clock, nil, 75, log)
	ledgerSvc := service.NewLedgerService(
		walletRepo, txRepo, auditSvc, scorer, idempotencyCache, transactor, clock,
		service.LedgerOptions{
			IdempotencyTTL: time.Hour,
			HistoryWindow:  30 * time.Minute,
			HistoryLimit:   100,
		},
		log,
	)
	reviewSvc, err := service.NewReviewFlagService(context.Background(), ruleRepo, log)
	require.NoError(t, err)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		AuditSvc:       auditSvc,
		ReviewSvc:      reviewSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	return &testApp{
		server:    httptest.NewServer(router),
		redis:     mr,
		auditRepo: auditRepo,
		ruleRepo:  ruleRepo,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

func (a *testApp) post(t *testing.T, path string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (a *testApp) createWallet(t *testing.T, userID uuid.UUID) {
	t.Helper()
	resp, _ := a.post(t, "/api/v1/wallets",
		fmt.Sprintf(`{"user_id":%q,"currency":"ILS"}`, userID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (a *testApp) credit(t *testing.T, userID uuid.UUID, amount, platform string) {
	t.Helper()
	resp, _ := a.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		fmt.Sprintf(`{"amount":%q,"type":"credit","platform":%q}`, amount, platform))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func data(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_WalletLifecycle(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	app.createWallet(t, userID)

	// duplicate creation is rejected
	resp, body := app.post(t, "/api/v1/wallets",
		fmt.Sprintf(`{"user_id":%q,"currency":"ILS"}`, userID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LED_005", body["error_code"])

	app.credit(t, userID, "100.00", "topup")

	// debit with a reference
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"30.00","type":"debit","platform":"carwash","reference_id":"wash-42"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	debitData := data(body)
	balance := debitData["balance"].(map[string]interface{})
	assert.Equal(t, "70", balance["balance"])
	firstTxID := debitData["transaction"].(map[string]interface{})["id"].(string)

	// identical replay conflicts with the original entry: 409 carrying the
	// stored result, no new entry
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"30.00","type":"debit","platform":"carwash","reference_id":"wash-42"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	replayData := data(body)
	assert.Equal(t, firstTxID, replayData["transaction"].(map[string]interface{})["id"])
	assert.Equal(t, "70", replayData["balance"].(map[string]interface{})["balance"])

	// same reference with a different payload is a conflict
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"31.00","type":"debit","platform":"carwash","reference_id":"wash-42"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LED_006", body["error_code"])

	// overdraft is rejected and the balance is untouched
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"80.00","type":"debit","platform":"carwash"}`)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "LED_001", body["error_code"])

	resp, body = app.get(t, "/api/v1/wallets/"+userID.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "70", data(body)["balance"])

	// history holds exactly the credit and the single debit, newest first
	resp, body = app.get(t, "/api/v1/wallets/"+userID.String()+"/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), data(body)["total"])
}

func TestIntegration_UnknownWallet(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.get(t, "/api/v1/wallets/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "LED_004", body["error_code"])

	// transactions never materialize a missing balance
	resp, body = app.post(t, "/api/v1/wallets/"+uuid.NewString()+"/transactions",
		`{"amount":"10.00","type":"credit","platform":"topup"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "LED_004", body["error_code"])
}

func TestIntegration_SpendingPerPlatform(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	app.createWallet(t, userID)
	app.credit(t, userID, "200.00", "topup")

	for _, req := range []string{
		`{"amount":"30.00","type":"debit","platform":"carwash"}`,
		`{"amount":"20.00","type":"debit","platform":"carwash"}`,
		`{"amount":"15.00","type":"debit","platform":"games"}`,
	} {
		resp, _ := app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := app.get(t, "/api/v1/wallets/"+userID.String()+"/spending")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "65", data(body)["total_spending"])

	resp, body = app.get(t, "/api/v1/wallets/"+userID.String()+"/spending?platform=carwash")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "50", data(body)["total_spending"])
}

func TestIntegration_LoyaltyPoints(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	app.createWallet(t, userID)

	resp, body := app.post(t, "/api/v1/wallets/"+userID.String()+"/loyalty", `{"delta":50}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(50), data(body)["loyalty_points"])

	// going negative is rejected
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/loyalty", `{"delta":-60}`)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "LED_002", body["error_code"])

	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/loyalty", `{"delta":-50}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), data(body)["loyalty_points"])
}

func TestIntegration_AuditTrailAndVerify(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	app.createWallet(t, userID)
	app.credit(t, userID, "100.00", "topup")
	resp, _ := app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"40.00","type":"debit","platform":"carwash"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// trail: balance_created, credit, debit; newest first, all verified
	resp, body := app.get(t, "/api/v1/audit/"+userID.String()+"/trail")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := data(body)["records"].([]interface{})
	require.Len(t, records, 3)
	newest := records[0].(map[string]interface{})
	assert.Equal(t, "wallet.debit", newest["event_type"])
	assert.Equal(t, float64(3), newest["chain_seq"])
	for _, raw := range records {
		assert.True(t, raw.(map[string]interface{})["verified"].(bool))
	}

	resp, body = app.post(t, "/api/v1/audit/"+userID.String()+"/verify", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, data(body)["valid"].(bool))
	assert.Equal(t, float64(3), data(body)["records"])
}

func TestIntegration_TamperDetectionAndQuarantine(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	app.createWallet(t, userID)
	app.credit(t, userID, "100.00", "topup")

	// simulate a direct database edit of the credit record
	app.auditRepo.tamper(userID, 1, func(rec *domain.AuditRecord) {
		rec.NewState = json.RawMessage(`{"balance":"999999.00"}`)
	})

	resp, body := app.post(t, "/api/v1/audit/"+userID.String()+"/verify", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, data(body)["valid"].(bool))
	assert.NotEmpty(t, data(body)["first_broken_record_id"])

	// the quarantined chain rejects further ledger writes
	resp, body = app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions",
		`{"amount":"10.00","type":"debit","platform":"carwash"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "AUD_001", body["error_code"])

	// trail flags the tampered record and everything after it
	resp, body = app.get(t, "/api/v1/audit/"+userID.String()+"/trail")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := data(body)["records"].([]interface{})
	require.Len(t, records, 2)
	assert.False(t, records[0].(map[string]interface{})["verified"].(bool))
	assert.True(t, records[1].(map[string]interface{})["verified"].(bool))
}

func TestIntegration_AuditRecordAndDashboard(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()

	// out-of-band audit event through the records endpoint
	resp, body := app.post(t, "/api/v1/audit/records", fmt.Sprintf(
		`{"user_id":%q,"event_type":"review.flagged","entity_type":"review","entity_id":"rev-9","new_state":{"hidden":true},"fraud_score":80}`,
		userID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), data(body)["chain_seq"])
	assert.Equal(t, "critical", data(body)["risk_band"])

	resp, body = app.get(t, "/api/v1/audit/fraud-dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	counts := data(body)["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["critical"])
	highRisk := data(body)["high_risk"].([]interface{})
	require.Len(t, highRisk, 1)
}

func TestIntegration_ReviewEvaluation(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.post(t, "/api/v1/reviews/rev-1/evaluate",
		`{"text":"what a damn scam","language":"en"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := data(body)
	assert.Len(t, decision["matched_rules"].([]interface{}), 2)
	assert.Equal(t, "high", decision["max_severity"])
	assert.True(t, decision["auto_hide"].(bool))
	assert.True(t, decision["require_moderation"].(bool))

	// swap the rule set and reload
	app.ruleRepo.replace([]domain.FlaggingRule{
		{ID: 9, Keyword: "fraud", FlagReason: domain.FlagReasonDispute,
			Severity: domain.SeverityCritical, Language: "en", NotifyManagement: true, IsActive: true},
	})
	resp, body = app.post(t, "/api/v1/reviews/rules/reload", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), data(body)["version"])

	resp, body = app.post(t, "/api/v1/reviews/rev-2/evaluate",
		`{"text":"total scam"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, data(body)["matched_rules"])
}

func TestIntegration_ValidationErrors(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	userID := uuid.New()
	app.createWallet(t, userID)

	cases := []struct {
		name string
		body string
	}{
		{"negative amount", `{"amount":"-5.00","type":"debit","platform":"carwash"}`},
		{"zero amount", `{"amount":"0","type":"credit","platform":"topup"}`},
		{"unknown type", `{"amount":"5.00","type":"transfer","platform":"carwash"}`},
		{"missing platform", `{"amount":"5.00","type":"debit"}`},
		{"non-numeric amount", `{"amount":"abc","type":"debit","platform":"carwash"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := app.post(t, "/api/v1/wallets/"+userID.String()+"/transactions", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "LED_003", body["error_code"])
		})
	}
}
