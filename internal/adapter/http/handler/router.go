package handler

import (
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/http/middleware"
	redisStore "github.com/yoga-nditya/ALO-MONTIR-API/internal/adapter/storage/redis"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TopUpSvc       ports.TopUpService
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
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

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

	topUpHandler := NewTopUpHandler(deps.TopUpSvc)
	topups := v1.Group("/topups")
	{
		topups.POST("", rl("topups"), topUpHandler.CreateTopUp)
		topups.POST("/notification", rl("notification"), topUpHandler.HandleNotification)
		topups.GET("/status", rl("topup_status"), topUpHandler.CheckStatus)
	}

	users := v1.Group("/users")
	{
		users.GET("/balance", rl("balance"), topUpHandler.GetBalance)
	}

	return r
}
