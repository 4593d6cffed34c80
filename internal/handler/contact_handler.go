package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carbon-shredder/internal/models"
)

type ContactHandler struct {
	contactService ContactService
}

type ContactService interface {
	SubmitMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context) ([]models.Message, error)
	Subscribe(ctx context.Context, email string) error
}

func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name, email and message are required"})
		return
	}

	msg := &models.Message{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		MessageBody: req.Message,
	}
	if err := h.contactService.SubmitMessage(c.Request.Context(), msg); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message sent successfully"})
}

// ListMessages отдаёт сырой массив, без конверта — так ждёт админка
func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.contactService.ListMessages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *ContactHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "A valid email is required"})
		return
	}

	if err := h.contactService.Subscribe(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Subscribed successfully"})
}
