package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	Date      time.Time         `gorm:"type:timestamptz;not null" json:"date"`
	Status    AppointmentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Type      string            `gorm:"type:varchar(50)" json:"type"`
	Notes     string            `gorm:"type:text" json:"notes"`
	CreatedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Involves reports whether the given user is one of the two parties.
func (a *Appointment) Involves(userID uuid.UUID) bool {
	return a.DoctorID == userID || a.PatientID == userID
}
