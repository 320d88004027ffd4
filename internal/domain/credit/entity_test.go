package credit_test

import (
	"errors"
	"testing"

	"github.com/listora/listora-api/internal/domain/credit"
)

func TestParse(t *testing.T) {
	for _, known := range credit.All() {
		got, err := credit.Parse(string(known))
		if err != nil {
			t.Fatalf("Parse(%q): %v", known, err)
		}
		if got != known {
			t.Fatalf("Parse(%q) = %q", known, got)
		}
	}

	if _, err := credit.Parse("vip_listing"); !errors.Is(err, credit.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := credit.Parse(""); !errors.Is(err, credit.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestGrantsSingle(t *testing.T) {
	grants := credit.Grants(credit.TypeStandardListing, 3)
	if len(grants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(grants))
	}
	if grants[0].Type != credit.TypeStandardListing || grants[0].Amount != 3 {
		t.Fatalf("unexpected grant %+v", grants[0])
	}
}

func TestGrantsPartnerGold(t *testing.T) {
	grants := credit.Grants(credit.TypePartnerGold, 1)

	want := map[credit.Type]int{
		credit.TypePartnerGold:    1,
		credit.TypeCategoryBanner: 2,
		credit.TypeHomepageBanner: 1,
	}
	if len(grants) != len(want) {
		t.Fatalf("expected %d grants, got %d", len(want), len(grants))
	}
	for _, g := range grants {
		if want[g.Type] != g.Amount {
			t.Errorf("grant %s: expected %d, got %d", g.Type, want[g.Type], g.Amount)
		}
	}
}

func TestGrantsPartnerSilver(t *testing.T) {
	grants := credit.Grants(credit.TypePartnerSilver, 2)

	want := map[credit.Type]int{
		credit.TypePartnerSilver:  2,
		credit.TypeCategoryBanner: 2,
	}
	if len(grants) != len(want) {
		t.Fatalf("expected %d grants, got %d", len(want), len(grants))
	}
	for _, g := range grants {
		if want[g.Type] != g.Amount {
			t.Errorf("grant %s: expected %d, got %d", g.Type, want[g.Type], g.Amount)
		}
	}
}

func TestGrantsZeroQuantityDefaultsToOne(t *testing.T) {
	grants := credit.Grants(credit.TypeFeaturedListing, 0)
	if len(grants) != 1 || grants[0].Amount != 1 {
		t.Fatalf("unexpected grants %+v", grants)
	}
}
