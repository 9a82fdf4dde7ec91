package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/handlers"
	"github.com/vibechecc/points-backend/internal/middleware"
)

// SetupRouter sets up the router
func SetupRouter(
	cfg *config.Config,
	pointsHandler *handlers.PointsHandler,
	transferHandler *handlers.TransferHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {
	// Create router
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		public.GET("/leaderboard", pointsHandler.GetLeaderboard)
		public.GET("/points/cost/:contentType/:contentId", transferHandler.GetCost)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		points := protected.Group("/points")
		{
			points.GET("/me", pointsHandler.GetMe)
			points.POST("/initialize", pointsHandler.Initialize)
			points.POST("/award/post", pointsHandler.AwardPost)
			points.POST("/award/review", pointsHandler.AwardReview)
			points.GET("/history", pointsHandler.GetHistory)
			points.GET("/history/daily", pointsHandler.GetDailyHistory)
			points.GET("/notifications", pointsHandler.GetNotifications)

			// Boost and dampen are rate limited per user
			transfers := points.Group("")
			transfers.Use(middleware.TransferRateLimiter(cfg))
			{
				transfers.POST("/boost", transferHandler.Boost)
				transfers.POST("/dampen", transferHandler.Dampen)
			}
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg))
	{
		admin.POST("/reset/:userId", adminHandler.ResetUser)
		admin.POST("/reset-sweep", adminHandler.ResetSweep)
	}

	return router
}
