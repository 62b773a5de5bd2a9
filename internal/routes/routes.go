package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/controllers"
)

// Controllers bundles the handler set wired by SetupRoutes.
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Appointment *controllers.AppointmentController
	Message     *controllers.MessageController
	Report      *controllers.ReportController
}

// SetupRoutes registers all application routes. authMiddleware resolves
// the bearer token; csrfMiddleware guards state-changing verbs on
// protected resources.
func SetupRoutes(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware gin.HandlerFunc,
	csrfMiddleware gin.HandlerFunc,
) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Auth routes: /api/auth/*
	authGroup := api.Group("/auth")
	RegisterAuthRoutes(authGroup, ctrl.Auth, authMiddleware, csrfMiddleware)

	// User routes: /api/users/*
	userGroup := api.Group("/users")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("/me", ctrl.User.GetProfile)
		userGroup.GET("/doctors", ctrl.User.ListDoctors)
	}

	// Clinic resources require both a bearer token and, on mutating
	// verbs, the CSRF double-submit pair.
	RegisterAppointmentRoutes(api.Group("/appointments"), ctrl.Appointment, authMiddleware, csrfMiddleware)
	RegisterMessageRoutes(api.Group("/messages"), ctrl.Message, authMiddleware, csrfMiddleware)
	RegisterReportRoutes(api.Group("/reports"), ctrl.Report, authMiddleware, csrfMiddleware)
}
