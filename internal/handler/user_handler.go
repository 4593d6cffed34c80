package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/services"
)

type UserHandler struct {
	userService UserService
}

type UserService interface {
	ListUsers() ([]models.User, error)
	UpdateUser(userID primitive.ObjectID, in services.AdminUpdateInput) (*models.User, error)
	DeleteUser(userID primitive.ObjectID) (*models.User, error)
	GrantAdminRole(email string) error
	UpdateSubscription(email, subscriptionType string) (*models.User, error)
	CreateOffsetOrder(ctx context.Context, userID primitive.ObjectID, amountKg float64, metadata string) (*models.OffsetOrder, error)
	CreateLinkToken(ctx context.Context, userID primitive.ObjectID) (string, error)
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUsersData(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No users found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Country          string `json:"country"`
		SubscriptionType string `json:"subscriptionType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	user, err := h.userService.UpdateUser(userID, services.AdminUpdateInput{
		Name:             req.Name,
		Email:            req.Email,
		Country:          req.Country,
		SubscriptionType: req.SubscriptionType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	deleted, err := h.userService.DeleteUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
		"user":    deleted,
	})
}

// GrantAdminRole намеренно без авторизации: так ведёт себя продакшен,
// фронт зовёт его при первичной настройке
// TODO: закрыть ручку за RequireRoles("admin"), когда фронт перейдёт на
// выдачу ролей из админки
func (h *UserHandler) GrantAdminRole(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
		return
	}

	if err := h.userService.GrantAdminRole(req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin role granted"})
}

func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	var req struct {
		Email            string `json:"email" binding:"required,email"`
		SubscriptionType string `json:"subscriptionType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and subscription type are required"})
		return
	}

	user, err := h.userService.UpdateSubscription(req.Email, req.SubscriptionType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) CreateLinkToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	linkToken, err := h.userService.CreateLinkToken(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "linkToken": linkToken})
}

func (h *UserHandler) CreateOffsetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		AmountKg float64 `json:"amountKg" binding:"required,gt=0"`
		Metadata string  `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amountKg must be a positive number"})
		return
	}

	order, err := h.userService.CreateOffsetOrder(c.Request.Context(), userID, req.AmountKg, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}
