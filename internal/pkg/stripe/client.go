package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Config holds Stripe API configuration
type Config struct {
	SecretKey     string
	WebhookSecret string
}

// Client wraps the Stripe hosted-checkout flow. Purchases are one-time
// payments; the price is sent inline, no Stripe Price objects are
// provisioned. Confirmation arrives out-of-band on the webhook.
type Client struct {
	webhookSecret string
}

// NewClient creates new Stripe client
func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{webhookSecret: cfg.WebhookSecret}
}

// CheckoutParams describes a single credit purchase checkout
type CheckoutParams struct {
	Email       string
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the subset of the created session the caller needs:
// the session id is the correlation id, the URL is where the browser goes.
type CheckoutSession struct {
	ID  string
	URL string
}

// CreateCheckoutSession creates a payment-mode hosted checkout session
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	currency := params.Currency
	if currency == "" {
		currency = string(stripe.CurrencyEUR)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(currency)),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Metadata:   params.Metadata,
	}
	if params.Email != "" {
		sessionParams.CustomerEmail = stripe.String(params.Email)
	}
	sessionParams.Context = ctx

	sess, err := checkoutsession.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	log.Info().
		Str("session_id", sess.ID).
		Int64("amount", params.AmountCents).
		Msg("stripe checkout session created")

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the endpoint
// secret and returns the parsed event. Payloads that fail verification are
// discarded before any ledger code runs.
func (c *Client) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}
