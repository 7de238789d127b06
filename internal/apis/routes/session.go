package routes

import (
	"log"

	"querydesk/internal/apis/middlewares"
	"querydesk/internal/di"

	"github.com/gin-gonic/gin"
)

func SetupSessionRoutes(router *gin.Engine) {
	sessionHandler, err := di.GetSessionHandler()
	if err != nil {
		log.Fatalf("Failed to get session handler: %v", err)
	}

	protected := router.Group("/api/sessions")
	protected.Use(middlewares.AuthMiddleware())
	{
		// Session lifecycle
		protected.POST("", sessionHandler.Create)
		protected.GET("/:id", sessionHandler.GetByID)
		protected.DELETE("/:id", sessionHandler.Delete)

		// Conversation
		protected.POST("/:id/messages", sessionHandler.Ask)
		protected.POST("/:id/messages/:messageId/feedback", sessionHandler.Feedback)
		protected.PATCH("/:id/messages/:messageId/visibility", sessionHandler.SetVisibility)
		protected.POST("/:id/messages/:messageId/export", sessionHandler.Export)
		protected.POST("/:id/messages/:messageId/chart", sessionHandler.RegenerateChart)

		// Views and suggestions
		protected.PUT("/:id/view", sessionHandler.SelectView)
		protected.GET("/:id/suggestions", sessionHandler.Suggestions)
	}

	training := router.Group("/api/training")
	training.Use(middlewares.AuthMiddleware())
	{
		training.POST("", sessionHandler.Train)
		training.POST("/bulk", sessionHandler.BulkTrain)
		training.DELETE("/:itemId", sessionHandler.DeleteTraining)
	}
}
