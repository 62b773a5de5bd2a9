package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/controllers"
)

func RegisterAuthRoutes(
	router *gin.RouterGroup,
	authController *controllers.AuthController,
	authMiddleware gin.HandlerFunc,
	csrfMiddleware gin.HandlerFunc,
) {
	// Public auth endpoints
	// POST /api/auth/register - Register new user
	router.POST("/register", authController.Register)

	// POST /api/auth/login - Login user (password step)
	router.POST("/login", authController.Login)

	// POST /api/auth/login/totp - Login with TOTP after password step
	router.POST("/login/totp", authController.LoginTOTP)

	// POST /api/auth/refresh - Exchange refresh token for a new access token
	router.POST("/refresh", authController.Refresh)

	// Protected auth endpoints require a valid JWT and, being mutating
	// POSTs, the CSRF double-submit pair. The public endpoints above stay
	// outside the CSRF gate: no token cookie exists before login.
	protected := router.Group("")
	protected.Use(authMiddleware, csrfMiddleware)
	{
		// POST /api/auth/totp/setup - Generate TOTP secret
		protected.POST("/totp/setup", authController.TOTPSetup)

		// POST /api/auth/totp/verify - Verify TOTP and enable it
		protected.POST("/totp/verify", authController.TOTPVerify)

		// POST /api/auth/totp/disable - Disable TOTP (requires TOTP code)
		protected.POST("/totp/disable", authController.DisableTOTP)

		// POST /api/auth/password/change - Change password (requires old password or TOTP code)
		protected.POST("/password/change", authController.ChangePassword)

		// POST /api/auth/logout - Logout user
		protected.POST("/logout", authController.Logout)
	}
}
