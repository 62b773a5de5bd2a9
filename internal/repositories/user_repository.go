package repositories

import (
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/models"
)

type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	ListByRole(role models.UserRole) ([]models.User, error)
	ExistsByEmail(email string) (bool, error)
}
