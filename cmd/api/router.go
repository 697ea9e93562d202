package api

import (
	"net/http"

	authDelivery "inboxcal/internal/auth/delivery"
	candidateDelivery "inboxcal/internal/candidate/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authHandler *authDelivery.AuthHandler, candidateHandler *candidateDelivery.CandidateHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// OAuth routes
		auth := api.Group("/auth")
		{
			auth.GET("/google", authHandler.GoogleConnect)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Sync route
		api.POST("/sync", candidateHandler.Sync)

		// Review routes - one candidate at a time
		review := api.Group("/review")
		{
			review.GET("/next", candidateHandler.ReviewNext)
			review.POST("/:id/accept", candidateHandler.Accept)
			review.POST("/:id/reject", candidateHandler.Reject)
		}

		// Candidate lookup
		api.GET("/candidates/:id", candidateHandler.GetByID)
	}
}
