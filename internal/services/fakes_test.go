package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/utils"
)

// Фейки реализуют потребительские интерфейсы сервисов,
// никакой Mongo/Redis/SMTP в юнит-тестах

type fakeUserRepo struct {
	users     []*models.User
	mediaRefs map[string][]primitive.ObjectID
	orders    map[string][]models.OffsetOrder
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		mediaRefs: map[string][]primitive.ObjectID{},
		orders:    map[string][]models.OffsetOrder{},
	}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		repo.users = append(repo.users, u)
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, user)
	return user, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserByID(userID primitive.ObjectID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) ActivateByToken(token string) (*models.User, error) {
	for _, u := range r.users {
		if u.EmailToken == token {
			u.EmailToken = ""
			u.IsVerified = true
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUserFields(userID primitive.ObjectID, fields bson.M) error {
	u, err := r.GetUserByID(userID)
	if err != nil {
		return err
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "country":
			u.Country = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		case "password":
			u.Password = v.(string)
		case "subscription_type":
			u.SubscriptionType = v.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID primitive.ObjectID, hashedPassword string) error {
	u, err := r.GetUserByID(userID)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) SetRoleByEmail(email string, role models.Role) error {
	u, err := r.FindUserByEmail(email)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) DeleteUser(userID primitive.ObjectID) (*models.User, error) {
	for i, u := range r.users {
		if u.ID == userID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetAllProjected() ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) PushOffsetOrder(userID primitive.ObjectID, order models.OffsetOrder) error {
	r.orders[userID.Hex()] = append(r.orders[userID.Hex()], order)
	return nil
}

func (r *fakeUserRepo) PushMediaRef(userID, mediaID primitive.ObjectID) error {
	r.mediaRefs[userID.Hex()] = append(r.mediaRefs[userID.Hex()], mediaID)
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent     []sentMail
	failWith error
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeOTPStore struct {
	codes map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[string]string{}}
}

func (s *fakeOTPStore) Put(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func (s *fakeOTPStore) Consume(_ context.Context, email string) (string, error) {
	code, ok := s.codes[email]
	if !ok {
		return "", utils.ErrKeyNotFound
	}
	delete(s.codes, email)
	return code, nil
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return utils.ErrKeyNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type fakeStorage struct {
	saved   map[string]string
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string]string{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, _ io.Reader, _ int64, contentType string) (string, error) {
	s.saved[key] = contentType
	return s.URL(key), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.saved, key)
	return nil
}

func (s *fakeStorage) URL(key string) string {
	return fmt.Sprintf("http://files.local/uploads/%s", key)
}

type fakeGoogleVerifier struct {
	email string
	name  string
	err   error
}

func (g *fakeGoogleVerifier) Verify(_ context.Context, _ string) (string, string, error) {
	return g.email, g.name, g.err
}
