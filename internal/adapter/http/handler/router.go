package handler

import (
	"autocare-x402-gateway/internal/adapter/http/middleware"
	redisStore "autocare-x402-gateway/internal/adapter/storage/redis"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	GateSvc        ports.GateService
	SessionSvc     ports.SessionService
	RewardSvc      ports.RewardService
	ReconcilerSvc  ports.ReconcilerService
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	GateRateLimit  *middleware.RateLimitRule  // nil = default gate rule
	HealthCheckers []ports.HealthChecker
	Asset          string
	Mode           string
	Logger         zerolog.Logger
}

// MaxRequestBody is the largest request body any route accepts.
const MaxRequestBody = 1 << 20

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.MaxBodySize(MaxRequestBody))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rules := middleware.DefaultRateLimitRules()
	if deps.GateRateLimit != nil {
		rules["gate"] = *deps.GateRateLimit
	}

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

	v1 := r.Group("/api/v1")

	// --- Payment-gated routes (x402, no auth) ---
	gateHandler := NewGateHandler(deps.GateSvc, deps.Logger)
	v1.POST("/service/start", rl("gate"), gateHandler.StartService)
	v1.POST("/wash/start", rl("gate"), gateHandler.StartWash)

	// --- Public reads ---
	pricesHandler := NewPricesHandler(deps.Asset)
	sessionHandler := NewSessionHandler(deps.SessionSvc)
	rewardHandler := NewRewardHandler(deps.RewardSvc)

	v1.GET("/prices", rl("read"), pricesHandler.List)
	v1.GET("/sessions/:id", rl("read"), sessionHandler.Get)
	v1.GET("/loyalty/:customerId", rl("read"), rewardHandler.Loyalty)
	v1.GET("/rewards/:operatorId", rl("read"), rewardHandler.Reward)

	// --- Admin JWT routes ---
	adminHandler := NewAdminHandler(deps.AuthSvc, deps.ReconcilerSvc)
	v1.POST("/admin/token", rl("admin_token"), adminHandler.Token)

	adminOnly := []gin.HandlerFunc{
		middleware.JWTAuth(deps.TokenSvc, deps.Logger),
		middleware.RequireRole(service.RoleAdmin),
		rl("admin"),
	}

	sessions := v1.Group("/sessions/:id", adminOnly...)
	{
		sessions.POST("/complete", sessionHandler.Complete)
		sessions.POST("/cancel", sessionHandler.Cancel)
	}

	v1.POST("/rewards/:operatorId/payout", append(adminOnly, rewardHandler.Payout)...)

	admin := v1.Group("/admin", adminOnly...)
	{
		admin.GET("/ledger-intents", adminHandler.LedgerIntents)
		admin.POST("/reconcile", adminHandler.Reconcile)
	}

	return r
}
