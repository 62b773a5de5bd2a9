package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	FileName  string    `gorm:"type:varchar(255)" json:"file_name"`
	FilePath  string    `gorm:"type:varchar(512)" json:"-"`
	FileSize  int64     `gorm:"type:bigint" json:"file_size"`
	MimeType  *string   `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Owner      *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SharedWith []ReportShare `gorm:"foreignKey:ReportID" json:"shared_with,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportShare links a report to a user it has been shared with.
type ReportShare struct {
	ReportID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ReportShare) TableName() string {
	return "report_shares"
}
