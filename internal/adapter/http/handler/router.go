package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	AuditSvc       ports.AuditChainService
	ReviewSvc      ports.ReviewFlagService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.LedgerSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallet_create"), walletHandler.CreateWallet)
		wallets.GET("/:userId", rl("wallet_read"), walletHandler.GetBalance)
		wallets.POST("/:userId/transactions", rl("wallet_apply"), walletHandler.ApplyTransaction)
		wallets.GET("/:userId/transactions", rl("wallet_read"), walletHandler.History)
		wallets.GET("/:userId/spending", rl("wallet_read"), walletHandler.Spending)
		wallets.POST("/:userId/loyalty", rl("wallet_apply"), walletHandler.AdjustLoyaltyPoints)
	}

	auditHandler := NewAuditHandler(deps.AuditSvc)
	audit := v1.Group("/audit")
	{
		audit.POST("/records", rl("wallet_apply"), auditHandler.AppendRecord)
		audit.GET("/fraud-dashboard", rl("audit_read"), auditHandler.FraudDashboard)
		audit.POST("/verify", rl("audit_verify"), auditHandler.VerifyAll)
		audit.GET("/:userId/trail", rl("audit_read"), auditHandler.Trail)
		audit.POST("/:userId/verify", rl("audit_verify"), auditHandler.VerifyChain)
	}

	reviewHandler := NewReviewHandler(deps.ReviewSvc)
	reviews := v1.Group("/reviews")
	{
		reviews.POST("/:id/evaluate", rl("reviews"), reviewHandler.Evaluate)
		reviews.POST("/rules/reload", rl("reviews"), reviewHandler.ReloadRules)
	}

	return r
}
