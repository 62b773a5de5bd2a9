package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/repositories"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrNotAppointmentDoctor = errors.New("only the appointment's doctor may confirm it")
	ErrAppointmentCancelled = errors.New("appointment is cancelled")
	ErrInvalidAppointment   = errors.New("invalid appointment input")
)

type AppointmentService struct {
	appointmentRepo repositories.AppointmentRepository
	userRepo        repositories.UserRepository
}

func NewAppointmentService(
	appointmentRepo repositories.AppointmentRepository,
	userRepo repositories.UserRepository,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

type BookAppointmentInput struct {
	DoctorID uuid.UUID
	Date     time.Time
	Type     string
	Notes    string
}

// Book creates a pending appointment between the patient and a doctor.
func (s *AppointmentService) Book(patientID uuid.UUID, input BookAppointmentInput) (*models.Appointment, error) {
	if input.Date.IsZero() {
		return nil, ErrInvalidAppointment
	}

	doctor, err := s.userRepo.GetByID(input.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != models.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	appointment := &models.Appointment{
		DoctorID:  input.DoctorID,
		PatientID: patientID,
		Date:      input.Date,
		Status:    models.AppointmentPending,
		Type:      input.Type,
		Notes:     input.Notes,
	}

	if err := s.appointmentRepo.Create(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Get returns an appointment to its participants. Non-participants get
// the same not-found answer as a missing id.
func (s *AppointmentService) Get(userID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil || !appointment.Involves(userID) {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (s *AppointmentService) ListForUser(userID uuid.UUID) ([]models.Appointment, error) {
	return s.appointmentRepo.ListForUser(userID)
}

// Confirm moves a pending appointment to confirmed. Only the assigned
// doctor may confirm.
func (s *AppointmentService) Confirm(doctorID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotAppointmentDoctor
	}
	if appointment.Status == models.AppointmentCancelled {
		return nil, ErrAppointmentCancelled
	}

	appointment.Status = models.AppointmentConfirmed
	if err := s.appointmentRepo.Update(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel is available to either participant.
func (s *AppointmentService) Cancel(userID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil || !appointment.Involves(userID) {
		return nil, ErrAppointmentNotFound
	}

	appointment.Status = models.AppointmentCancelled
	if err := s.appointmentRepo.Update(appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}
