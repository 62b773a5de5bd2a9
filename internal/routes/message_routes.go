package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/controllers"
)

func RegisterMessageRoutes(
	router *gin.RouterGroup,
	messageController *controllers.MessageController,
	authMiddleware gin.HandlerFunc,
	csrfMiddleware gin.HandlerFunc,
) {
	router.Use(authMiddleware, csrfMiddleware)

	// POST /api/messages - Send a message
	router.POST("", messageController.Send)

	// GET /api/messages - List inbox
	router.GET("", messageController.List)

	// GET /api/messages/:id - Fetch one message (marks read for recipient)
	router.GET("/:id", messageController.Get)
}
