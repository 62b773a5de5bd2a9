package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratty2304/MedConnect/internal/models"
)

type AppointmentRepository interface {
	GetByID(id uuid.UUID) (*models.Appointment, error)
	Create(appointment *models.Appointment) error
	Update(appointment *models.Appointment) error
	ListForUser(userID uuid.UUID) ([]models.Appointment, error)
}

type gormAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &gormAppointmentRepository{db: db}
}

func (r *gormAppointmentRepository) GetByID(id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *gormAppointmentRepository) Create(appointment *models.Appointment) error {
	return r.db.Create(appointment).Error
}

func (r *gormAppointmentRepository) Update(appointment *models.Appointment) error {
	return r.db.Save(appointment).Error
}

func (r *gormAppointmentRepository) ListForUser(userID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.
		Where("doctor_id = ? OR patient_id = ?", userID, userID).
		Order("date").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
