package purchase

import (
	"context"

	"github.com/listora/listora-api/internal/pkg/coupon"
	paypalclient "github.com/listora/listora-api/internal/pkg/paypal"
	stripeclient "github.com/listora/listora-api/internal/pkg/stripe"
)

// CouponValidator is the external coupon service contract.
type CouponValidator interface {
	Validate(ctx context.Context, code, category string, amount int64) (*coupon.ValidateResponse, error)
}

// StripeGateway creates hosted checkout sessions. Confirmation arrives
// later on the webhook, not from this call.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutParams) (*stripeclient.CheckoutSession, error)
}

// PayPalGateway creates and captures orders synchronously.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, description, returnURL, cancelURL string) (*paypalclient.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (bool, error)
}
