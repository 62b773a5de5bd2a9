package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/repositories"
)

var (
	ErrMessageNotFound   = errors.New("message not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrEmptyMessage      = errors.New("message content is required")
)

type MessageService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *MessageService) Send(senderID, recipientID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	recipient, err := s.userRepo.GetByID(recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// Get returns a message to its participants; fetching as the recipient
// marks it read.
func (s *MessageService) Get(userID, messageID uuid.UUID) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil || !message.Involves(userID) {
		return nil, ErrMessageNotFound
	}

	if message.RecipientID == userID && !message.Read {
		if err := s.messageRepo.MarkRead(message.ID); err != nil {
			return nil, err
		}
		message.Read = true
	}

	return message, nil
}

func (s *MessageService) ListInbox(userID uuid.UUID) ([]models.Message, error) {
	return s.messageRepo.ListInbox(userID)
}
