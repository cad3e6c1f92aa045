package handler

import (
	"net/http"

	"vault-dashboard/internal/adapter/http/middleware"
	redisStore "vault-dashboard/internal/adapter/storage/redis"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	VaultSvc       ports.VaultService
	HistorySvc     ports.HistoryService
	ActionSvc      ports.ActionService
	Dashboard      ports.DashboardReader
	Wallet         ports.WalletProvider
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	Operator       middleware.OperatorCredentials
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Metrics        *metrics.Registry
	MetricsHandler http.Handler // nil = /metrics not exposed
	OpenAPISpec    []byte
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	docs := NewDocsHandler(deps.OpenAPISpec)
	r.GET("/docs", docs.UI)
	r.GET("/docs/openapi.yaml", docs.Spec)

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rules[group], deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public reads ---
	vaultHandler := NewVaultHandler(deps.Dashboard, deps.VaultSvc, deps.HistorySvc)
	vault := v1.Group("/vault", rl(middleware.GroupVaultRead))
	{
		vault.GET("", vaultHandler.GetVault)
		vault.GET("/batch", vaultHandler.GetBatch)
		vault.GET("/performance", vaultHandler.GetPerformance)
		vault.GET("/quote", vaultHandler.GetQuote)
	}
	v1.GET("/users/:address", rl(middleware.GroupUserRead), vaultHandler.GetUser)

	// --- Operator routes (HMAC) ---
	hmacAuth := middleware.HMACAuth(deps.Operator, deps.SigSvc, deps.NonceStore, deps.Logger)

	walletHandler := NewWalletHandler(deps.Wallet, deps.Dashboard)
	wallet := v1.Group("/wallet", hmacAuth)
	{
		wallet.GET("", rl(middleware.GroupUserRead), walletHandler.GetWallet)
		wallet.POST("/connect", rl(middleware.GroupActions), walletHandler.Connect)
		wallet.POST("/disconnect", rl(middleware.GroupActions), walletHandler.Disconnect)
	}

	actionHandler := NewActionHandler(deps.ActionSvc)
	actions := v1.Group("/actions", hmacAuth)
	{
		actions.GET("", rl(middleware.GroupUserRead), actionHandler.ListActions)
		actions.POST("/deposit", rl(middleware.GroupActions), actionHandler.Deposit)
		actions.POST("/withdrawals", rl(middleware.GroupActions), actionHandler.RequestWithdraw)
		actions.POST("/withdrawals/:index/cancel", rl(middleware.GroupActions), actionHandler.CancelWithdraw)
		actions.POST("/withdrawals/:index/process", rl(middleware.GroupActions), actionHandler.ProcessWithdraw)
	}

	return r
}
