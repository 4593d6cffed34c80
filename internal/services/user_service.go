package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/utils"
)

// UserService покрывает админские операции над аккаунтами и
// внешние интеграции, привязанные к аккаунту (CNaught, Plaid)
type UserService struct {
	repo    UserAdminRepository
	cache   Cache
	cnaught OffsetOrderClient
	plaid   LinkTokenClient
}

type UserAdminRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	GetUserByID(userID primitive.ObjectID) (*models.User, error)
	GetAllProjected() ([]models.User, error)
	UpdateUserFields(userID primitive.ObjectID, fields bson.M) error
	DeleteUser(userID primitive.ObjectID) (*models.User, error)
	SetRoleByEmail(email string, role models.Role) error
	PushOffsetOrder(userID primitive.ObjectID, order models.OffsetOrder) error
}

type OffsetOrderClient interface {
	CreateOrder(ctx context.Context, amountKg float64, metadata string) (*utils.CNaughtOrder, error)
}

type LinkTokenClient interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
}

func NewUserService(repo UserAdminRepository, cache Cache, cnaught OffsetOrderClient, plaid LinkTokenClient) *UserService {
	return &UserService{repo: repo, cache: cache, cnaught: cnaught, plaid: plaid}
}

func (s *UserService) ListUsers() ([]models.User, error) {
	return s.repo.GetAllProjected()
}

type AdminUpdateInput struct {
	Name             string
	Email            string
	Country          string
	SubscriptionType string
}

// UpdateUser — частичное обновление: пустые поля не трогаем
func (s *UserService) UpdateUser(userID primitive.ObjectID, in AdminUpdateInput) (*models.User, error) {
	if _, err := s.repo.GetUserByID(userID); err != nil {
		return nil, ErrUserNotFound
	}

	fields := bson.M{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Email != "" {
		fields["email"] = in.Email
	}
	if in.Country != "" {
		fields["country"] = in.Country
	}
	if in.SubscriptionType != "" {
		fields["subscription_type"] = in.SubscriptionType
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateUserFields(userID, fields); err != nil {
			return nil, err
		}
		s.invalidate(userID)
	}

	return s.repo.GetUserByID(userID)
}

func (s *UserService) DeleteUser(userID primitive.ObjectID) (*models.User, error) {
	deleted, err := s.repo.DeleteUser(userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return deleted, nil
}

func (s *UserService) GrantAdminRole(email string) error {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.repo.SetRoleByEmail(email, models.RoleAdmin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	// роль входит в закешированный профиль
	s.invalidate(user.ID)
	return nil
}

func (s *UserService) UpdateSubscription(email, subscriptionType string) (*models.User, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.repo.UpdateUserFields(user.ID, bson.M{"subscription_type": subscriptionType}); err != nil {
		return nil, err
	}
	s.invalidate(user.ID)

	return s.repo.GetUserByID(user.ID)
}

// CreateOffsetOrder размещает ордер у CNaught и дописывает его
// в историю аккаунта
func (s *UserService) CreateOffsetOrder(ctx context.Context, userID primitive.ObjectID, amountKg float64, metadata string) (*models.OffsetOrder, error) {
	order, err := s.cnaught.CreateOrder(ctx, amountKg, metadata)
	if err != nil {
		return nil, err
	}

	record := models.OffsetOrder{
		OrderID:             order.ID,
		OrderNumber:         order.OrderNumber,
		AmountKg:            strconv.FormatFloat(order.AmountKg, 'f', -1, 64),
		PriceUSDCents:       strconv.FormatInt(order.PriceUSDCents, 10),
		State:               order.State,
		DownloadCertificate: order.CertificateURL,
		CreatedOn:           order.CreatedOn,
	}
	if record.CreatedOn.IsZero() {
		record.CreatedOn = time.Now()
	}

	if err := s.repo.PushOffsetOrder(userID, record); err != nil {
		return nil, err
	}
	s.invalidate(userID)

	return &record, nil
}

func (s *UserService) CreateLinkToken(ctx context.Context, userID primitive.ObjectID) (string, error) {
	return s.plaid.CreateLinkToken(ctx, userID.Hex())
}

func (s *UserService) invalidate(userID primitive.ObjectID) {
	_ = s.cache.Delete(context.Background(), profileCacheKey(userID))
}
