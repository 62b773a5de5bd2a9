package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/security"
	"github.com/pratty2304/MedConnect/internal/services"
)

type AuthController struct {
	authService *services.AuthService
	csrf        security.CsrfGuard
}

func NewAuthController(authService *services.AuthService, csrf security.CsrfGuard) *AuthController {
	return &AuthController{
		authService: authService,
		csrf:        csrf,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginTOTPRequest struct {
	LoginSessionID string `json:"login_session_id" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	TOTPCode    string `json:"totp_code"`
	NewPassword string `json:"new_password" binding:"required"`
}

type totpCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Register handles new user registration
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := ac.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		var policyErr *security.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": policyErr.Message})
		case errors.Is(err, services.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmailAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Login handles the password step of the login flow
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		ac.writeLoginError(c, err)
		return
	}

	if result.TOTPRequired {
		c.JSON(http.StatusOK, gin.H{
			"totp_required":    true,
			"login_session_id": result.LoginSessionID,
		})
		return
	}

	ac.writeTokens(c, result)
}

// LoginTOTP completes a TOTP login challenge
// POST /api/auth/login/totp
func (ac *AuthController) LoginTOTP(c *gin.Context) {
	var req loginTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sessionID, err := uuid.Parse(req.LoginSessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login session id"})
		return
	}

	result, err := ac.authService.LoginTOTP(sessionID, req.Code)
	if err != nil {
		ac.writeLoginError(c, err)
		return
	}

	ac.writeTokens(c, result)
}

// Refresh exchanges a refresh token for a new access token
// POST /api/auth/refresh
func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	access, err := ac.authService.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	ac.setCsrfCookie(c)
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// ChangePassword updates the caller's password
// POST /api/auth/password/change
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := ac.authService.ChangePassword(userID, req.OldPassword, req.TOTPCode, req.NewPassword)
	if err != nil {
		var policyErr *security.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": policyErr.Message})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, services.ErrInvalidTOTPCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid TOTP code"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// TOTPSetup generates a TOTP secret for the caller
// POST /api/auth/totp/setup
func (ac *AuthController) TOTPSetup(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	setup, err := ac.authService.SetupTOTP(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TOTP setup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret": setup.Secret,
		"url":    setup.URL,
	})
}

// TOTPVerify confirms the secret and enables TOTP
// POST /api/auth/totp/verify
func (ac *AuthController) TOTPVerify(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ac.authService.VerifyTOTP(userID, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "TOTP enabled"})
}

// DisableTOTP turns off the second factor
// POST /api/auth/totp/disable
func (ac *AuthController) DisableTOTP(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := ac.authService.DisableTOTP(userID, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "TOTP disabled"})
}

// Logout acknowledges a client-side logout; tokens are stateless
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.CsrfCookieName, "", -1, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

func (ac *AuthController) writeLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is locked due to too many failed login attempts. Please try again later."})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrInvalidTOTPCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid TOTP code"})
	case errors.Is(err, services.ErrLoginSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login session expired"})
	case errors.Is(err, services.ErrTOTPNotEnabled), errors.Is(err, services.ErrTOTPSecretNotCreated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
	}
}

func (ac *AuthController) writeTokens(c *gin.Context, result *services.LoginResult) {
	ac.setCsrfCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user": gin.H{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
			"role":  result.User.Role,
		},
	})
}

// setCsrfCookie issues a fresh double-submit token. The cookie is
// readable by the front end so it can mirror it into the CSRF header.
func (ac *AuthController) setCsrfCookie(c *gin.Context) {
	token, err := ac.csrf.Issue()
	if err != nil {
		return
	}
	c.SetCookie(middleware.CsrfCookieName, token, 3600, "/", "", false, false)
}
