package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/repositories"
)

type UserController struct {
	userRepo repositories.UserRepository
}

func NewUserController(userRepo repositories.UserRepository) *UserController {
	return &UserController{userRepo: userRepo}
}

// GetProfile returns the authenticated user's profile
// GET /api/users/me
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve user profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"name":         user.Name,
			"role":         user.Role,
			"totp_enabled": user.TOTPEnabled,
		},
	})
}

// ListDoctors returns all doctors, for the booking UI
// GET /api/users/doctors
func (uc *UserController) ListDoctors(c *gin.Context) {
	doctors, err := uc.userRepo.ListByRole(models.RoleDoctor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list doctors"})
		return
	}

	out := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, gin.H{
			"id":    d.ID,
			"email": d.Email,
			"name":  d.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"doctors": out})
}
