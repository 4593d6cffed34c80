package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/storage"
	"carbon-shredder/internal/utils"
)

const profileCacheTTL = 5 * time.Minute

type AuthService struct {
	users   UserRepository
	jwtUtil *utils.JWTUtil
	mailer  EmailSender
	otp     OTPStore
	cache   Cache
	store   storage.Storage
	google  GoogleVerifier

	activationBaseURL string
}

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	GetUserByID(userID primitive.ObjectID) (*models.User, error)
	ActivateByToken(token string) (*models.User, error)
	UpdateUserFields(userID primitive.ObjectID, fields bson.M) error
	UpdatePassword(userID primitive.ObjectID, hashedPassword string) error
}

type OTPStore interface {
	Put(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (email, name string, err error)
}

func NewAuthService(users UserRepository, jwtUtil *utils.JWTUtil, mailer EmailSender, otp OTPStore, cache Cache, store storage.Storage, google GoogleVerifier, activationBaseURL string) *AuthService {
	return &AuthService{
		users:             users,
		jwtUtil:           jwtUtil,
		mailer:            mailer,
		otp:               otp,
		cache:             cache,
		store:             store,
		google:            google,
		activationBaseURL: strings.TrimRight(activationBaseURL, "/"),
	}
}

// Register сохраняет аккаунт с захешированным паролем и токеном активации
// и отправляет письмо. Дубликат email — ошибка, загруженная аватарка
// при этом удаляется из хранилища.
func (s *AuthService) Register(user *models.User) error {
	if existing, _ := s.users.FindUserByEmail(user.Email); existing != nil {
		s.discardFile(user.Avatar)
		return ErrEmailExists
	}

	if err := user.HashPassword(); err != nil {
		return err
	}
	user.Role = models.RoleUser
	user.IsVerified = false
	user.EmailToken = utils.NewActivationToken()

	created, err := s.users.CreateUser(user)
	if err != nil {
		s.discardFile(user.Avatar)
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}

	activationURL := fmt.Sprintf("%s/%s", s.activationBaseURL, created.EmailToken)
	if err := s.mailer.Send(created.Email, "Activate your email", activationEmailBody(created.Name, activationURL)); err != nil {
		log.Printf("activation mail to %s failed: %v", created.Email, err)
		return ErrActivationMail
	}

	return nil
}

// Activate одноразово обменивает токен на verified-статус
func (s *AuthService) Activate(token string) error {
	if token == "" {
		return ErrInvalidActivation
	}
	user, err := s.users.ActivateByToken(token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrInvalidActivation
	}
	if err != nil {
		return err
	}

	// закешированный профиль ещё содержит is_verified=false
	s.invalidateProfile(user.ID)
	return nil
}

// Login не различает в ответе "нет такого email" и "неверный пароль"
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := user.ComparePassword(password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// AdminLogin дополнительно требует роль admin
func (s *AuthService) AdminLogin(email, password string) (*models.User, string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return nil, "", ErrNotAdmin
	}
	if err := user.ComparePassword(password); err != nil {
		return nil, "", ErrNotAdmin
	}
	if user.Role != models.RoleAdmin {
		return nil, "", ErrNotAdmin
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GoogleLogin(idToken string) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email, name, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		// Google уже подтвердил владение адресом
		user, err = s.users.CreateUser(&models.User{
			Name:       name,
			Email:      email,
			Role:       models.RoleUser,
			IsVerified: true,
		})
		if err != nil {
			return nil, "", err
		}
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword кладёт шестизначный код в Redis с TTL и шлёт его письмом.
// Повторный запрос перезаписывает предыдущий код.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	code := utils.NewOTP()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.otp.Put(ctx, email, code); err != nil {
		return err
	}

	if err := s.mailer.Send(email, "Reset Your Password", otpEmailBody(user.Name, code)); err != nil {
		log.Printf("OTP mail to %s failed: %v", email, err)
		return ErrOTPMail
	}

	return nil
}

// ResetPassword забирает код атомарно (GETDEL): после первой попытки,
// удачной или нет, код уже не действует
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := s.otp.Consume(ctx, email)
	if err != nil || stored != code {
		return ErrInvalidOTP
	}

	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(user.ID, string(hashed)); err != nil {
		return err
	}

	s.invalidateProfile(user.ID)
	return nil
}

func (s *AuthService) GetProfile(userID primitive.ObjectID) (*models.User, error) {
	ctx := context.Background()
	cacheKey := profileCacheKey(userID)

	var cachedUser models.User
	if err := s.cache.Get(ctx, cacheKey, &cachedUser); err == nil {
		return &cachedUser, nil
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.cache.Set(ctx, cacheKey, user, profileCacheTTL); err != nil {
		log.Printf("failed to cache user profile: %v", err)
	}

	return user, nil
}

type UpdateProfileInput struct {
	Name            string
	Email           string
	Country         string
	CurrentPassword string
	NewPassword     string
	Avatar          string // новый ключ файла в хранилище, "" — без замены
}

// UpdateProfile требует подтверждения текущим паролем. Если загружена
// новая аватарка, а проверка не прошла — файл удаляется; при успехе
// удаляется старая аватарка.
func (s *AuthService) UpdateProfile(userID primitive.ObjectID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.discardFile(in.Avatar)
		return nil, ErrUserNotFound
	}

	if err := user.ComparePassword(in.CurrentPassword); err != nil {
		s.discardFile(in.Avatar)
		return nil, ErrWrongPassword
	}

	fields := bson.M{
		"name":    in.Name,
		"email":   in.Email,
		"country": in.Country,
	}
	if in.Avatar != "" {
		fields["avatar"] = in.Avatar
	}
	if in.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hashed)
	}

	if err := s.users.UpdateUserFields(userID, fields); err != nil {
		s.discardFile(in.Avatar)
		return nil, err
	}

	if in.Avatar != "" && user.Avatar != "" {
		s.discardFile(user.Avatar)
	}

	s.invalidateProfile(userID)

	return s.users.GetUserByID(userID)
}

// Logout кладёт jti токена в blacklist до его exp
func (s *AuthService) Logout(tokenString string) error {
	token, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}

	jti, ok := claims["jti"].(string)
	if !ok {
		return errors.New("missing jti in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("invalid token expiration")
	}

	ttl := time.Until(time.Unix(int64(exp), 0))
	ctx := context.Background()

	return s.cache.Set(ctx, fmt.Sprintf("blacklist:%s", jti), true, ttl)
}

func (s *AuthService) discardFile(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("failed to delete file %s: %v", key, err)
	}
}

func (s *AuthService) invalidateProfile(userID primitive.ObjectID) {
	_ = s.cache.Delete(context.Background(), profileCacheKey(userID))
}

func profileCacheKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("user_profile:%s", userID.Hex())
}
