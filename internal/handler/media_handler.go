package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/services"
)

type MediaHandler struct {
	mediaService MediaService
}

type MediaService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, r io.Reader, in services.MediaUploadInput) (*models.Media, error)
	List(ctx context.Context) ([]models.Media, error)
}

func NewMediaHandler(mediaService MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string `form:"title" binding:"required"`
		Description string `form:"description"`
		Category    string `form:"category"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	media, err := h.mediaService.Upload(c.Request.Context(), userID, src, services.MediaUploadInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Key:         newFileKey(fileHeader.Filename),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Media uploaded successfully",
		"media":   media,
	})
}

func (h *MediaHandler) GetAllMedia(c *gin.Context) {
	media, err := h.mediaService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "media": media})
}
