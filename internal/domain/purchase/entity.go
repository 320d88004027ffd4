package purchase

import (
	"database/sql"
	"time"

	"github.com/listora/listora-api/internal/domain/credit"
)

// GatewayName selects the payment provider for an intent.
type GatewayName string

const (
	GatewayStripe GatewayName = "stripe"
	GatewayPayPal GatewayName = "paypal"
)

// Status is the intent lifecycle. An intent is created pending only after
// the gateway object exists, so a gateway failure leaves no row at all;
// it flips to archived exactly once at reconciliation and is never mutated
// afterwards. Abandoned checkouts stay pending forever; they never touch
// the ledger.
type Status string

const (
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Intent captures what a checkout is for. The correlation id is the
// gateway's own identifier (Stripe session id, PayPal order id), so a
// confirmation payload alone resolves the intent without client state.
type Intent struct {
	CorrelationID    string         `db:"correlation_id" json:"correlation_id"`
	UserID           string         `db:"user_id" json:"user_id"`
	CreditType       credit.Type    `db:"credit_type" json:"credit_type"`
	Quantity         int            `db:"quantity" json:"quantity"`
	Category         string         `db:"category" json:"category"`
	BaseAmountCents  int64          `db:"base_amount_cents" json:"base_amount_cents"`
	DiscountCents    int64          `db:"discount_cents" json:"discount_cents"`
	FinalAmountCents int64          `db:"final_amount_cents" json:"final_amount_cents"`
	CouponCode       sql.NullString `db:"coupon_code" json:"coupon_code,omitempty"`
	Description      string         `db:"description" json:"description"`
	Gateway          GatewayName    `db:"gateway" json:"gateway"`
	Status           Status         `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	ConfirmedAt      sql.NullTime   `db:"confirmed_at" json:"confirmed_at,omitempty"`
}

// Outcome classifies a reconciliation attempt. The zero value is invalid
// so an outcome read alongside an unchecked error never looks applied.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	// OutcomeApplied: the ledger was incremented by this call.
	OutcomeApplied
	// OutcomeAlreadyApplied: a previous delivery won; no-op.
	OutcomeAlreadyApplied
	// OutcomeUnknownIntent: no intent matches the correlation id.
	OutcomeUnknownIntent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyApplied:
		return "already_applied"
	case OutcomeUnknownIntent:
		return "unknown_intent"
	}
	return "invalid"
}
