package listing_test

import (
	"errors"
	"testing"

	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/listing"
)

func TestPlanForCoversEveryCreditType(t *testing.T) {
	for _, ct := range credit.All() {
		plan, err := listing.PlanFor(ct)
		if err != nil {
			t.Fatalf("PlanFor(%s): %v", ct, err)
		}
		if plan.FeatureType == listing.FeatureNone {
			t.Errorf("PlanFor(%s) has no feature type", ct)
		}
	}
}

func TestPlanForUnknownType(t *testing.T) {
	_, err := listing.PlanFor(credit.Type("vip"))
	if !errors.Is(err, credit.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestPlanKindConstraints(t *testing.T) {
	cases := []struct {
		creditType credit.Type
		kind       listing.Kind
		allowed    bool
	}{
		{credit.TypeStandardListing, listing.KindAd, true},
		{credit.TypeStandardListing, listing.KindCar, false},
		{credit.TypeCarPremium, listing.KindCar, true},
		{credit.TypeCarPremium, listing.KindAd, false},
		{credit.TypeCategoryBanner, listing.KindAd, true},
		{credit.TypeCategoryBanner, listing.KindHotel, false},
		{credit.TypePartnerGold, listing.KindCar, true},
		{credit.TypePartnerGold, listing.KindEvent, true},
	}

	for _, tc := range cases {
		plan, err := listing.PlanFor(tc.creditType)
		if err != nil {
			t.Fatalf("PlanFor(%s): %v", tc.creditType, err)
		}
		if got := plan.Allows(tc.kind); got != tc.allowed {
			t.Errorf("%s on %s: allowed=%v, want %v", tc.creditType, tc.kind, got, tc.allowed)
		}
	}
}

func TestBannerPlans(t *testing.T) {
	plan, _ := listing.PlanFor(credit.TypeCategoryBanner)
	if plan.BannerPlacement != listing.BannerCategory {
		t.Fatalf("category_banner placement = %q", plan.BannerPlacement)
	}

	plan, _ = listing.PlanFor(credit.TypeHomepageBanner)
	if plan.BannerPlacement != listing.BannerHomepage {
		t.Fatalf("homepage_banner placement = %q", plan.BannerPlacement)
	}

	plan, _ = listing.PlanFor(credit.TypeFeaturedListing)
	if plan.BannerPlacement != listing.BannerUnset {
		t.Fatalf("featured_listing placement = %q", plan.BannerPlacement)
	}
}
