package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type PlaidClient struct {
	client   *resty.Client
	clientID string
	secret   string
}

func NewPlaidClient(baseURL, clientID, secret string) *PlaidClient {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &PlaidClient{client: cli, clientID: clientID, secret: secret}
}

// CreateLinkToken выпускает link token для привязки банковского счёта
func (c *PlaidClient) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	var result struct {
		LinkToken string `json:"link_token"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"client_id":   c.clientID,
			"secret":      c.secret,
			"client_name": "Carbon Shredder",
			"user": map[string]string{
				"client_user_id": userID,
			},
			"products":      []string{"transactions"},
			"country_codes": []string{"US"},
			"language":      "en",
		}).
		SetResult(&result).
		Post("/link/token/create")
	if err != nil {
		return "", fmt.Errorf("call plaid: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("plaid returned status %d", resp.StatusCode())
	}

	return result.LinkToken, nil
}
