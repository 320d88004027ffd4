package paypal

import (
	"context"
	"fmt"

	sdk "github.com/plutov/paypal/v4"
	"github.com/rs/zerolog/log"
)

// Config holds PayPal REST API configuration
type Config struct {
	ClientID string
	Secret   string
	Live     bool
}

// Client wraps the PayPal Orders v2 flow: create an order, the buyer
// approves it in their browser, then the server captures it. Unlike
// Stripe there is no webhook; the capture response is the confirmation.
type Client struct {
	api *sdk.Client
}

// Order is the created PayPal order. The id doubles as the correlation id
// for reconciliation; ApproveURL is where the buyer approves the payment.
type Order struct {
	ID         string
	ApproveURL string
}

// NewClient creates new PayPal client
func NewClient(cfg Config) (*Client, error) {
	base := sdk.APIBaseSandBox
	if cfg.Live {
		base = sdk.APIBaseLive
	}

	api, err := sdk.NewClient(cfg.ClientID, cfg.Secret, base)
	if err != nil {
		return nil, fmt.Errorf("failed to init paypal client: %w", err)
	}
	if _, err := api.GetAccessToken(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to obtain paypal access token: %w", err)
	}
	return &Client{api: api}, nil
}

// CreateOrder creates a capture-intent order for a single amount in cents
func (c *Client) CreateOrder(ctx context.Context, amountCents int64, currency, description, returnURL, cancelURL string) (*Order, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	if currency == "" {
		currency = "EUR"
	}

	units := []sdk.PurchaseUnitRequest{
		{
			Amount: &sdk.PurchaseUnitAmount{
				Currency: currency,
				Value:    formatCents(amountCents),
			},
			Description: description,
		},
	}
	appCtx := &sdk.ApplicationContext{
		ReturnURL: returnURL,
		CancelURL: cancelURL,
	}

	order, err := c.api.CreateOrder(ctx, sdk.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal order: %w", err)
	}

	out := &Order{ID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			out.ApproveURL = link.Href
			break
		}
	}

	log.Info().
		Str("order_id", order.ID).
		Int64("amount", amountCents).
		Msg("paypal order created")

	return out, nil
}

// CaptureOrder captures an approved order. Safe to call twice; PayPal
// rejects the second capture, which the reconciler treats the same as an
// already-applied confirmation.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (completed bool, err error) {
	resp, err := c.api.CaptureOrder(ctx, orderID, sdk.CaptureOrderRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to capture paypal order: %w", err)
	}
	return resp.Status == "COMPLETED", nil
}

// formatCents renders an integer cent amount as a PayPal decimal string.
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
