package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/controllers"
	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/models"
)

func RegisterAppointmentRoutes(
	router *gin.RouterGroup,
	appointmentController *controllers.AppointmentController,
	authMiddleware gin.HandlerFunc,
	csrfMiddleware gin.HandlerFunc,
) {
	router.Use(authMiddleware, csrfMiddleware)

	// POST /api/appointments - Book a new appointment (patients)
	router.POST("", middleware.RequireRole(models.RolePatient), appointmentController.Book)

	// GET /api/appointments - List own appointments
	router.GET("", appointmentController.List)

	// GET /api/appointments/:id - Fetch one appointment (participants only)
	router.GET("/:id", appointmentController.Get)

	// PUT /api/appointments/:id/confirm - Confirm (doctors only)
	router.PUT("/:id/confirm", middleware.RequireRole(models.RoleDoctor), appointmentController.Confirm)

	// PUT /api/appointments/:id/cancel - Cancel (either participant)
	router.PUT("/:id/cancel", appointmentController.Cancel)
}
