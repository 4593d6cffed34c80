package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/services"
	"carbon-shredder/internal/storage"
	"carbon-shredder/internal/utils"
)

type AuthHandler struct {
	authService AuthService
	store       storage.Storage
}

type AuthService interface {
	Register(user *models.User) error
	Activate(token string) error
	Login(email, password string) (*models.User, string, error)
	AdminLogin(email, password string) (*models.User, string, error)
	GoogleLogin(idToken string) (*models.User, string, error)
	ForgotPassword(email string) error
	ResetPassword(email, code, newPassword string) error
	GetProfile(userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(userID primitive.ObjectID, in services.UpdateProfileInput) (*models.User, error)
	Logout(tokenString string) error
}

func NewAuthHandler(authService AuthService, store storage.Storage) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

const userCookieMaxAge = 3 * 24 * 60 * 60

// newFileKey генерирует ключ хранилища, расширение берём из исходного имени
func newFileKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// saveUpload кладёт multipart-файл в хранилище и возвращает его ключ
func (h *AuthHandler) saveUpload(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil // поле опционально
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := newFileKey(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := h.store.Save(c.Request.Context(), key, src, fileHeader.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name       string `form:"name" binding:"required"`
		Email      string `form:"email" binding:"required,email"`
		Password   string `form:"password" binding:"required,min=6"`
		Country    string `form:"country" binding:"required"`
		SignupDate string `form:"signupDate"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	avatarKey, err := h.saveUpload(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Country:    req.Country,
		Avatar:     avatarKey,
		SignupDate: req.SignupDate,
	}
	if err := utils.ValidateStruct(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ParseErrors(err)})
		return
	}

	if err := h.authService.Register(user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Please check your email to activate your account",
	})
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var req struct {
		ActivationToken string `json:"activationToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Activation token is required"})
		return
	}

	if err := h.authService.Activate(req.ActivationToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account activated successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Cookie только для удобства фронта, авторизация — по bearer-токену
	c.SetCookie("userID", user.ID.Hex(), userCookieMaxAge, "/", "", false, false)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized Person"})
		return
	}

	user, token, err := h.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	user, token, err := h.authService.GoogleLogin(req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("userID", user.ID.Hex(), userCookieMaxAge, "/", "", false, false)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	userID, _ := c.Get("user_id")
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"userId":          userID,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "OTP sent to your email"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email, OTP and new password are required"})
		return
	}

	if err := h.authService.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name            string `form:"name" binding:"required"`
		Email           string `form:"email" binding:"required,email"`
		Country         string `form:"country" binding:"required"`
		CurrentPassword string `form:"currentPassword" binding:"required"`
		NewPassword     string `form:"newPassword"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	avatarKey, err := h.saveUpload(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Country:         req.Country,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Avatar:          avatarKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// Logout отвечает успехом в любом случае: токен либо в blacklist,
// либо и так уже недействителен
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenStr != "" {
		if err := h.authService.Logout(tokenStr); err != nil {
			log.Printf("logout: %v", err)
		}
	}

	c.SetCookie("userID", "", -1, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"isAuthenticated": false,
		"message":         "Logged out successfully.",
	})
}

func (h *AuthHandler) AdminLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}
