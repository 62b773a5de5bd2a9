package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/services"
)

type MessageController struct {
	messageService *services.MessageService
}

func NewMessageController(messageService *services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// Send creates a message
// POST /api/messages
func (mc *MessageController) Send(c *gin.Context) {
	senderID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient id"})
		return
	}

	message, err := mc.messageService.Send(senderID, recipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Get fetches one message; reading as the recipient marks it read
// GET /api/messages/:id
func (mc *MessageController) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	message, err := mc.messageService.Get(userID, messageID)
	if err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch message"})
		}
		return
	}

	c.JSON(http.StatusOK, message)
}

// List returns the caller's inbox
// GET /api/messages
func (mc *MessageController) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	messages, err := mc.messageService.ListInbox(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
