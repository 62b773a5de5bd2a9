package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleDoctor  UserRole = "doctor"
	RolePatient UserRole = "patient"
)

func (r UserRole) IsValid() bool {
	return r == RoleDoctor || r == RolePatient
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email        string    `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Role         UserRole  `gorm:"type:user_role;not null" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	TOTPSecret   *string   `gorm:"type:varchar(32)" json:"-"`
	TOTPEnabled  *bool     `gorm:"default:false" json:"totp_enabled"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	DoctorAppointments  []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
	Reports             []Report      `gorm:"foreignKey:OwnerID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
