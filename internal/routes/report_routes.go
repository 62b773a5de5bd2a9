package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/controllers"
)

func RegisterReportRoutes(
	router *gin.RouterGroup,
	reportController *controllers.ReportController,
	authMiddleware gin.HandlerFunc,
	csrfMiddleware gin.HandlerFunc,
) {
	router.Use(authMiddleware, csrfMiddleware)

	// POST /api/reports - Upload a report document
	router.POST("", reportController.Upload)

	// GET /api/reports - List own and shared reports
	router.GET("", reportController.List)

	// GET /api/reports/:id/download - Download a report document
	router.GET("/:id/download", reportController.Download)

	// POST /api/reports/:id/share - Share a report with another user
	router.POST("/:id/share", reportController.Share)
}
