package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsletter-italiane-backend/internal/shared/middleware"
	"newsletter-italiane-backend/internal/shared/response"
	"newsletter-italiane-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupNewsletterRoutes(v1, c)
		setupProposalRoutes(v1, c)
		setupMarketplaceRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.ProfileHandler.Register)
		auth.POST("/login", c.ProfileHandler.Login)
		auth.POST("/refresh", c.ProfileHandler.Refresh)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.ProfileHandler.GetMe)
		users.PUT("/me", c.ProfileHandler.UpdateMe)
		users.POST("/me/avatar", c.ProfileHandler.UploadAvatar)
	}
}

// ========================================
// NEWSLETTER ROUTES (creator)
// ========================================
func setupNewsletterRoutes(v1 *gin.RouterGroup, c *container.Container) {
	newsletters := v1.Group("/newsletters")
	newsletters.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		newsletters.POST("", c.NewsletterHandler.Create)
		newsletters.GET("", c.NewsletterHandler.List)
		newsletters.GET("/:id", c.NewsletterHandler.Get)
		newsletters.PUT("/:id", c.NewsletterHandler.Update)
		newsletters.DELETE("/:id", c.NewsletterHandler.Delete)
	}
}

// ========================================
// PROPOSAL ROUTES (creator)
// ========================================
func setupProposalRoutes(v1 *gin.RouterGroup, c *container.Container) {
	proposals := v1.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		proposals.GET("", c.ProposalHandler.List)
	}
}

// ========================================
// MARKETPLACE ROUTES (public)
// ========================================
func setupMarketplaceRoutes(v1 *gin.RouterGroup, c *container.Container) {
	marketplace := v1.Group("/marketplace")
	{
		marketplace.GET("/newsletters", c.NewsletterHandler.Marketplace)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/newsletters", c.NewsletterHandler.AdminList)
		admin.GET("/newsletters/stats", c.NewsletterHandler.Stats)
		admin.GET("/newsletters/export", c.NewsletterHandler.Export)
		admin.POST("/newsletters/:id/approve", c.NewsletterHandler.Approve)
		admin.POST("/newsletters/:id/reject", c.NewsletterHandler.Reject)

		admin.GET("/proposals/:id/contact-emails", c.ProposalHandler.ContactEmails)
		admin.POST("/proposals/:id/notify", c.ProposalHandler.Notify)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		response.Success(ctx, status, gin.H{
			"status":   "ok",
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
