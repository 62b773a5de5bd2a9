package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginSession holds the short-lived challenge between a successful
// password step and the TOTP step for users with 2FA enabled.
type LoginSession struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	ExpiresAt      time.Time  `gorm:"type:timestamptz;not null;index"`
	ConsumedAt     *time.Time `gorm:"type:timestamptz"`
	FailedAttempts int        `gorm:"not null;default:0"`
}

func (LoginSession) TableName() string {
	return "login_sessions"
}
