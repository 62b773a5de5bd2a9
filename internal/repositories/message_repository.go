package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratty2304/MedConnect/internal/models"
)

type MessageRepository interface {
	GetByID(id uuid.UUID) (*models.Message, error)
	Create(message *models.Message) error
	MarkRead(id uuid.UUID) error
	ListInbox(userID uuid.UUID) ([]models.Message, error)
}

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) GetByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *gormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *gormMessageRepository) MarkRead(id uuid.UUID) error {
	return r.db.Model(&models.Message{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *gormMessageRepository) ListInbox(userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
