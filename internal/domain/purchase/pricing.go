package purchase

import (
	"fmt"

	"github.com/listora/listora-api/internal/domain/credit"
)

// Prices are EUR cents. The table is keyed by credit type with optional
// per-category overrides; category banners on ads carry the premium
// advertising rate.
var basePrices = map[credit.Type]int64{
	credit.TypeStandardListing:    2900,
	credit.TypeFeaturedListing:    9900,
	credit.TypeHomepageBanner:     500000,
	credit.TypeCategoryBanner:     250000,
	credit.TypeCarBasic:           1900,
	credit.TypeCarEnhanced:        4900,
	credit.TypeCarPremium:         9900,
	credit.TypeCarExclusiveBanner: 149000,
	credit.TypePartnerSilver:      99000,
	credit.TypePartnerGold:        199000,
}

type priceKey struct {
	category   string
	creditType credit.Type
}

var categoryPrices = map[priceKey]int64{
	{"auction", credit.TypeFeaturedListing}: 14900,
	{"hotel", credit.TypeFeaturedListing}:   19900,
}

// PriceFor resolves the base amount for one credit of the given type in
// the given category.
func PriceFor(category string, t credit.Type) (int64, error) {
	if price, ok := categoryPrices[priceKey{category, t}]; ok {
		return price, nil
	}
	if price, ok := basePrices[t]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("%w: %s/%s", ErrUnknownPrice, category, t)
}

// FinalAmount applies a coupon discount, clamped so the charge never goes
// negative.
func FinalAmount(base, discount int64) int64 {
	if discount >= base {
		return 0
	}
	return base - discount
}
