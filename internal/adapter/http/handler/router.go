package handler

import (
	"merchant-webhooks/internal/adapter/http/middleware"
	"merchant-webhooks/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	EndpointSvc    ports.EndpointService
	ReportingSvc   ports.ReportingService
	Tester         ports.ReachabilityTester
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	TestRateLimit  middleware.RateLimitRule
	APIRateLimit   middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Return rate limiter middleware if store is available, else noop.
	rl := func(group string, rule middleware.RateLimitRule) gin.HandlerFunc {
		if deps.RateLimitStore == nil || rule.Limit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	webhooks := r.Group("/webhooks")

	// --- Public: reachability test, limited per client IP ---
	testHandler := NewTestHandler(deps.Tester)
	webhooks.POST("/test", rl("webhook_test", deps.TestRateLimit), testHandler.Test)

	// --- JWT-authenticated, scoped to the merchant in the path ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	h := NewWebhookHandler(deps.EndpointSvc, deps.ReportingSvc)

	merchant := webhooks.Group("/:merchant", jwtAuth, rl("api", deps.APIRateLimit))
	{
		merchant.GET("/endpoints", h.ListEndpoints)
		merchant.POST("/endpoints", h.CreateEndpoint)
		merchant.GET("/endpoints/:id", h.GetEndpoint)
		merchant.PUT("/endpoints/:id", h.UpdateEndpoint)
		merchant.DELETE("/endpoints/:id", h.DeleteEndpoint)
		merchant.POST("/endpoints/:id/secret", h.RotateSecret)
		merchant.GET("/logs", h.GetLogs)
		merchant.GET("/stats", h.GetStats)
	}

	return r
}
