// Package server wires configuration, services and handlers into the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"folio/internal/config"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/refresher"
	"folio/internal/services"
	"folio/internal/validator"

	_ "folio/internal/docs" // swagger docs
)

// Services bundles what the router needs. A nil Refresher leaves the
// operator routes unmounted.
type Services struct {
	Users     services.UserServicer
	Portfolio services.PortfolioServicer
	Audit     services.AuditServicer
	Refresher *refresher.Refresher
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	validator.Register()

	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit, cfg.JWTSecret, cfg.JWTExpirationDur)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio, svc.Users, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	api.POST("/users", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.GET("/users/me", authHandler.Me)
	protected.PUT("/users/settings", authHandler.UpdateSettings)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.POST("/asset", portfolioHandler.Buy)
	portfolio.POST("/sell", portfolioHandler.Sell)
	portfolio.POST("/update", portfolioHandler.Reprice)
	portfolio.POST("/chart", portfolioHandler.Chart)
	portfolio.POST("/allocation", portfolioHandler.ReplaceAllocations)
	portfolio.POST("/cash", portfolioHandler.AdjustCash)
	portfolio.POST("/price", portfolioHandler.LatestPrice)
	portfolio.GET("/drift", portfolioHandler.Drift)
	portfolio.GET("/activity", portfolioHandler.Activity)

	// Operator routes
	if svc.Refresher != nil {
		internal := api.Group("/internal", middleware.ServiceKeyMiddleware(cfg.ServiceAPIKey))
		internal.POST("/refresh", handlers.NewRefreshHandler(svc.Refresher).Run)
	}

	return router
}
