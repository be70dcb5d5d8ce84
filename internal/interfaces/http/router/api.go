package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"github.com/storefront/backoffice/internal/infrastructure/metrics"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/storefront/backoffice/internal/interfaces/http/handler"
	"github.com/storefront/backoffice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Dependencies are the handlers and cross-cutting services of the API.
// Tokens, UploadLimiter, HTTPMetrics and Gatherer are optional.
type Dependencies struct {
	Imports       *handler.ImportHandler
	Bot           *handler.BotHandler
	Health        *handler.HealthHandler
	Tokens        *handler.TokenHandler
	JWT           *auth.JWTService
	UploadLimiter *middleware.RateLimiter
	HTTPMetrics   *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
	CORS          middleware.CORSConfig
	MaxBodySize   int64
}

// NewEngine builds the gin engine with the middleware chain and all routes
func NewEngine(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(deps.CORS),
	)
	if deps.HTTPMetrics != nil {
		engine.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	if deps.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	engine.GET("/health", deps.Health.Health)
	if deps.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	Mount(engine, importRoutes(deps), botRoutes(deps), authRoutes(deps))

	return engine
}

func adminAuth(deps Dependencies) gin.HandlerFunc {
	return middleware.RequireAdmin(deps.JWT, deps.Logger)
}

func importRoutes(deps Dependencies) *DomainGroup {
	h := deps.Imports
	upload := []gin.HandlerFunc{h.Upload}
	if deps.UploadLimiter != nil {
		upload = append([]gin.HandlerFunc{middleware.RateLimitByUser(deps.UploadLimiter)}, upload...)
	}

	return NewDomainGroup("/admin/import/products").
		Use(adminAuth(deps)).
		POST("/upload", upload...).
		GET("/status/:id", h.Status).
		GET("/history", h.History).
		DELETE("/history/:id", h.DeleteHistory).
		POST("/template", h.Template)
}

func botRoutes(deps Dependencies) *DomainGroup {
	h := deps.Bot
	return NewDomainGroup("/bot").
		Use(adminAuth(deps)).
		GET("/status", h.Status).
		GET("/import-history", h.History).
		DELETE("/import-history/:id", h.DeleteHistory)
}

// authRoutes is empty when no token handler is configured
func authRoutes(deps Dependencies) *DomainGroup {
	g := NewDomainGroup("/auth")
	if deps.Tokens != nil {
		g.POST("/token", deps.Tokens.Mint)
	}
	return g
}
