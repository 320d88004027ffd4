package credit

import (
	"fmt"
	"time"
)

// Type identifies a purchasable credit. Each credit entitles exactly one
// consumption of the matching listing action.
type Type string

const (
	TypeStandardListing    Type = "standard_listing"
	TypeFeaturedListing    Type = "featured_listing"
	TypeHomepageBanner     Type = "homepage_banner"
	TypeCategoryBanner     Type = "category_banner"
	TypeCarBasic           Type = "car_basic"
	TypeCarEnhanced        Type = "car_enhanced"
	TypeCarPremium         Type = "car_premium"
	TypeCarExclusiveBanner Type = "car_exclusive_banner"
	TypePartnerSilver      Type = "partner_silver"
	TypePartnerGold        Type = "partner_gold"
)

// All returns every known credit type, in a stable order.
func All() []Type {
	return []Type{
		TypeStandardListing,
		TypeFeaturedListing,
		TypeHomepageBanner,
		TypeCategoryBanner,
		TypeCarBasic,
		TypeCarEnhanced,
		TypeCarPremium,
		TypeCarExclusiveBanner,
		TypePartnerSilver,
		TypePartnerGold,
	}
}

// Parse converts a raw string into a credit Type.
func Parse(raw string) (Type, error) {
	t := Type(raw)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Valid reports whether t is a known credit type.
func (t Type) Valid() bool {
	for _, known := range All() {
		if t == known {
			return true
		}
	}
	return false
}

// TxType defines supported ledger transaction types.
type TxType string

const (
	TxTypeConsume  TxType = "consume"
	TxTypePurchase TxType = "purchase"
)

// Grant is a single balance increment applied during reconciliation.
type Grant struct {
	Type   Type
	Amount int
}

// Grants expands a purchased credit type into the balance increments it
// awards. Most purchases grant their own type; partner packages bundle
// banner credits on top (a Gold Partner purchase awards two category
// banners and one homepage banner alongside the partner credit).
func Grants(t Type, quantity int) []Grant {
	if quantity < 1 {
		quantity = 1
	}
	switch t {
	case TypePartnerGold:
		return []Grant{
			{Type: TypePartnerGold, Amount: quantity},
			{Type: TypeCategoryBanner, Amount: 2 * quantity},
			{Type: TypeHomepageBanner, Amount: quantity},
		}
	case TypePartnerSilver:
		return []Grant{
			{Type: TypePartnerSilver, Amount: quantity},
			{Type: TypeCategoryBanner, Amount: quantity},
		}
	default:
		return []Grant{{Type: t, Amount: quantity}}
	}
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// Transaction is a ledger row.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CreditType  Type      `db:"credit_type" json:"credit_type"`
	AmountDelta int       `db:"amount_delta" json:"amount_delta"`
	TxType      TxType    `db:"tx_type" json:"tx_type"`
	ReferenceID *string   `db:"reference_id" json:"reference_id,omitempty"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
