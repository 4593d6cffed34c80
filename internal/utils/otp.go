package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore держит одноразовые коды сброса пароля в Redis с TTL.
// Повторный запрос для того же email перезаписывает код.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

func (s *OTPStore) Put(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, otpKey(email), code, s.ttl).Err()
}

// Consume атомарно читает и удаляет код: один код — одна попытка
func (s *OTPStore) Consume(ctx context.Context, email string) (string, error) {
	code, err := s.client.GetDel(ctx, otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return code, nil
}
