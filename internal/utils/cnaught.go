package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CNaughtOrder — ответ CNaught API на создание ордера компенсации
type CNaughtOrder struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"order_number"`
	AmountKg       float64   `json:"amount_kg"`
	PriceUSDCents  int64     `json:"price_usd_cents"`
	State          string    `json:"state"`
	CertificateURL string    `json:"certificate_download_public_url"`
	CreatedOn      time.Time `json:"created_on"`
}

type CNaughtClient struct {
	client *resty.Client
}

func NewCNaughtClient(baseURL, apiKey string) *CNaughtClient {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &CNaughtClient{client: cli}
}

// CreateOrder размещает ордер на компенсацию amountKg килограммов CO2.
// Один запрос, без ретраев.
func (c *CNaughtClient) CreateOrder(ctx context.Context, amountKg float64, metadata string) (*CNaughtOrder, error) {
	var order CNaughtOrder

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"amount_kg": amountKg,
			"metadata":  metadata,
		}).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("call cnaught: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cnaught returned status %d", resp.StatusCode())
	}

	return &order, nil
}
