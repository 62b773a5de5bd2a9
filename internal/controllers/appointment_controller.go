package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/services"
)

type AppointmentController struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentController(appointmentService *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointmentService: appointmentService}
}

type bookAppointmentRequest struct {
	DoctorID string    `json:"doctor_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Type     string    `json:"type"`
	Notes    string    `json:"notes"`
}

// Book creates a pending appointment
// POST /api/appointments
func (ac *AppointmentController) Book(c *gin.Context) {
	patientID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	appointment, err := ac.appointmentService.Book(patientID, services.BookAppointmentInput{
		DoctorID: doctorID,
		Date:     req.Date,
		Type:     req.Type,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDoctorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		case errors.Is(err, services.ErrInvalidAppointment):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment input"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to book appointment"})
		}
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// Get returns one appointment to a participant
// GET /api/appointments/:id
func (ac *AppointmentController) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	appointment, err := ac.appointmentService.Get(userID, appointmentID)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// List returns the caller's appointments
// GET /api/appointments
func (ac *AppointmentController) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	appointments, err := ac.appointmentService.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// Confirm marks an appointment confirmed; doctors only
// PUT /api/appointments/:id/confirm
func (ac *AppointmentController) Confirm(c *gin.Context) {
	doctorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	appointment, err := ac.appointmentService.Confirm(doctorID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, services.ErrNotAppointmentDoctor):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the appointment's doctor may confirm it"})
		case errors.Is(err, services.ErrAppointmentCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Appointment is cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to confirm appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// Cancel cancels an appointment; either participant
// PUT /api/appointments/:id/cancel
func (ac *AppointmentController) Cancel(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	appointment, err := ac.appointmentService.Cancel(userID, appointmentID)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to cancel appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}
