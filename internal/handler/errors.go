package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"carbon-shredder/internal/services"
)

// respondError переводит ошибки сервисного слоя в единый конверт
// {success:false, error:...}
func respondError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrEmailExists):
		return http.StatusBadRequest, "User email already exists"
	case errors.Is(err, services.ErrInvalidActivation):
		return http.StatusBadRequest, "Invalid activation token"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password"
	case errors.Is(err, services.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid OTP"
	case errors.Is(err, services.ErrWrongPassword):
		return http.StatusBadRequest, "Incorrect current password"
	case errors.Is(err, services.ErrAlreadySubscribed):
		return http.StatusBadRequest, "Email is already subscribed."
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrNotAdmin):
		return http.StatusUnauthorized, "Unauthorized Person"
	case errors.Is(err, services.ErrActivationMail):
		return http.StatusInternalServerError, "Error sending activation email"
	case errors.Is(err, services.ErrOTPMail):
		return http.StatusInternalServerError, "Error sending OTP"
	case errors.Is(err, services.ErrContactMail):
		return http.StatusInternalServerError, "Error sending email"
	case errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, primitive.ErrInvalidHex):
		return http.StatusBadRequest, "Invalid ID format"
	case mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, "Duplicate field value entered"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// currentUserID достаёт id аккаунта, положенный в контекст middleware-ом
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
