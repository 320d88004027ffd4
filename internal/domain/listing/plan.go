package listing

import "github.com/listora/listora-api/internal/domain/credit"

// Plan describes what consuming one credit of a given type does to a
// listing: which promotion tier it stamps, whether it places a banner, and
// which listing kinds it may target. An empty Kinds slice means any kind.
type Plan struct {
	FeatureType     FeatureType
	BannerPlacement BannerPlacement
	Kinds           []Kind
}

var nonCarKinds = []Kind{KindAd, KindAuction, KindEvent, KindHotel, KindClub, KindService}

var plans = map[credit.Type]Plan{
	credit.TypeStandardListing: {FeatureType: FeatureStandard, Kinds: nonCarKinds},
	credit.TypeFeaturedListing: {FeatureType: FeatureFeatured, Kinds: nonCarKinds},

	// Banner placements ride a standard promotion window.
	credit.TypeHomepageBanner: {FeatureType: FeatureStandard, BannerPlacement: BannerHomepage, Kinds: []Kind{KindAd}},
	credit.TypeCategoryBanner: {FeatureType: FeatureStandard, BannerPlacement: BannerCategory, Kinds: []Kind{KindAd}},

	credit.TypeCarBasic:           {FeatureType: FeatureStandard, Kinds: []Kind{KindCar}},
	credit.TypeCarEnhanced:        {FeatureType: FeatureFeatured, Kinds: []Kind{KindCar}},
	credit.TypeCarPremium:         {FeatureType: FeatureFeatured, Kinds: []Kind{KindCar}},
	credit.TypeCarExclusiveBanner: {FeatureType: FeatureFeatured, BannerPlacement: BannerHomepage, Kinds: []Kind{KindCar}},

	// Partner credits feature any listing the partner owns.
	credit.TypePartnerSilver: {FeatureType: FeatureFeatured},
	credit.TypePartnerGold:   {FeatureType: FeatureFeatured},
}

// PlanFor returns the consumption plan for a credit type.
func PlanFor(t credit.Type) (Plan, error) {
	plan, ok := plans[t]
	if !ok {
		return Plan{}, credit.ErrUnknownType
	}
	return plan, nil
}

// Allows reports whether the plan may be applied to a listing kind.
func (p Plan) Allows(k Kind) bool {
	if len(p.Kinds) == 0 {
		return true
	}
	for _, allowed := range p.Kinds {
		if allowed == k {
			return true
		}
	}
	return false
}
