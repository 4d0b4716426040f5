package razorpay

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// Client creates orders through the Razorpay Orders API.
type Client struct {
	keyID string
	api   *razorpay.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID: keyID,
		api:   razorpay.NewClient(keyID, keySecret),
	}
}

func (c *Client) KeyID() string { return c.keyID }

// CreateOrder creates an order for amount (in paise). The SDK call is not
// context-aware, so ctx is only checked before the request is made.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	noteData := make(map[string]interface{}, len(notes))
	for k, v := range notes {
		noteData[k] = v
	}

	body, err := c.api.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    noteData,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	return orderFromResponse(body)
}

func orderFromResponse(body map[string]interface{}) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order response has no id")
	}

	order := &Order{ID: id}
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)

	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}

	return order, nil
}
