package services

import (
	"context"

	"google.golang.org/api/idtoken"
)

type GoogleAuthService struct {
	ClientID string
}

func NewGoogleAuthService(clientID string) *GoogleAuthService {
	return &GoogleAuthService{ClientID: clientID}
}

// Verify проверяет Google ID token и возвращает email и имя из claims
func (g *GoogleAuthService) Verify(ctx context.Context, idToken string) (email, name string, err error) {
	payload, err := idtoken.Validate(ctx, idToken, g.ClientID)
	if err != nil {
		return "", "", err
	}
	email, _ = payload.Claims["email"].(string)
	name, _ = payload.Claims["name"].(string)
	return email, name, nil
}
